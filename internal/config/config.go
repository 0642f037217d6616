// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"bullionledger/internal/app"
	"bullionledger/internal/domain/auth"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/registers/balance"
	"bullionledger/internal/infrastructure/cache"
	"bullionledger/internal/infrastructure/storage/postgres"
	"bullionledger/pkg/logger"
)

// Prefix namespaces every variable, e.g. BULLION_DATABASE_DSN.
const Prefix = "BULLION"

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds runtime configuration for the ledger.
type Config struct {
	Env     string `envconfig:"ENV" default:"development"`
	Storage string `envconfig:"STORAGE" default:"postgres"`

	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	DSN              string        `envconfig:"DSN"`
	MaxConns         int32         `envconfig:"MAX_CONNS" default:"25"`
	MinConns         int32         `envconfig:"MIN_CONNS" default:"2"`
	StatementTimeout time.Duration `envconfig:"STATEMENT_TIMEOUT" default:"30s"`
	LockTimeout      time.Duration `envconfig:"LOCK_TIMEOUT" default:"5s"`
	AutoMigrate      bool          `envconfig:"AUTO_MIGRATE" default:"false"`
}

// RedisConfig configures the branch settings cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string   `envconfig:"LEVEL" default:"info"`
	OutputPaths []string `envconfig:"OUTPUT_PATHS" default:"stdout"`
}

// JWTConfig configures bearer-token validation. An empty Secret disables it.
type JWTConfig struct {
	Secret         string        `envconfig:"SECRET"`
	Issuer         string        `envconfig:"ISSUER" default:"bullionledger"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	Required       bool          `envconfig:"REQUIRED" default:"false"`
}

// LedgerConfig tunes posting behavior.
type LedgerConfig struct {
	GuardNegativeOnReversal bool          `envconfig:"GUARD_NEGATIVE_ON_REVERSAL" default:"false"`
	DefaultCostCenter       string        `envconfig:"DEFAULT_COST_CENTER" default:"MAIN"`
	SettingsCacheTTL        time.Duration `envconfig:"SETTINGS_CACHE_TTL" default:"5m"`
	PriceLockTimeout        time.Duration `envconfig:"PRICE_LOCK_TIMEOUT" default:"5s"`
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.Database.DSN == "" {
			return errors.New("BULLION_DATABASE_DSN is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.JWT.Required && c.JWT.Secret == "" {
		return errors.New("BULLION_JWT_SECRET is required when tokens are required")
	}
	return nil
}

// IsDevelopment reports whether the ledger runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:       c.Log.Level,
		Development: c.IsDevelopment(),
		OutputPaths: c.Log.OutputPaths,
	}
}

// Pool returns the connection pool configuration.
func (c *Config) Pool() postgres.PoolConfig {
	pc := postgres.DefaultPoolConfig(c.Database.DSN)
	pc.MaxConns = c.Database.MaxConns
	pc.MinConns = c.Database.MinConns
	return pc
}

// TxOptions returns the unit of work timeouts.
func (c *Config) TxOptions() postgres.TxOptions {
	opts := postgres.DefaultTxOptions()
	opts.StatementTimeout = c.Database.StatementTimeout
	opts.LockTimeout = c.Database.LockTimeout
	return opts
}

// Cache returns the Redis configuration.
func (c *Config) Cache() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

// Auth returns the token configuration.
func (c *Config) Auth() auth.JWTConfig {
	jc := auth.DefaultJWTConfig(c.JWT.Secret)
	jc.Issuer = c.JWT.Issuer
	jc.AccessTokenTTL = c.JWT.AccessTokenTTL
	return jc
}

// App returns the service configuration.
func (c *Config) App() app.Config {
	return app.Config{
		Balance:          balance.Config{GuardNegativeOnReversal: c.Ledger.GuardNegativeOnReversal},
		Transactions:     metal_transaction.Config{CostCenter: c.Ledger.DefaultCostCenter},
		Drafting:         drafting.Config{DefaultCostCenter: c.Ledger.DefaultCostCenter},
		PriceLockTimeout: c.Ledger.PriceLockTimeout,
	}
}
