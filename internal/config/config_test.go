package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BULLION_STORAGE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
	assert.Equal(t, "MAIN", cfg.Ledger.DefaultCostCenter)
	assert.False(t, cfg.Ledger.GuardNegativeOnReversal)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.SettingsCacheTTL)
	assert.True(t, cfg.IsDevelopment())

	appCfg := cfg.App()
	assert.Equal(t, "MAIN", appCfg.Transactions.CostCenter)
	assert.Equal(t, "MAIN", appCfg.Drafting.DefaultCostCenter)
	assert.Equal(t, 5*time.Second, appCfg.PriceLockTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BULLION_DATABASE_DSN", "postgres://ledger@localhost/ledger")
	t.Setenv("BULLION_DATABASE_LOCK_TIMEOUT", "2s")
	t.Setenv("BULLION_LEDGER_GUARD_NEGATIVE_ON_REVERSAL", "true")
	t.Setenv("BULLION_LEDGER_DEFAULT_COST_CENTER", "DXB")
	t.Setenv("BULLION_JWT_SECRET", "s3cret")
	t.Setenv("BULLION_JWT_ACCESS_TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://ledger@localhost/ledger", cfg.Pool().DSN)
	assert.Equal(t, 2*time.Second, cfg.TxOptions().LockTimeout)
	assert.True(t, cfg.App().Balance.GuardNegativeOnReversal)
	assert.Equal(t, "DXB", cfg.App().Drafting.DefaultCostCenter)
	assert.Equal(t, time.Hour, cfg.Auth().AccessTokenTTL)
	assert.Equal(t, "bullionledger", cfg.Auth().Issuer)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.env")
	require.NoError(t, os.WriteFile(path, []byte("BULLION_STORAGE=memory\nBULLION_REDIS_ADDR=localhost:6390\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("BULLION_STORAGE")
		os.Unsetenv("BULLION_REDIS_ADDR")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "localhost:6390", cfg.Cache().Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"postgres without dsn", Config{Storage: StoragePostgres}, "BULLION_DATABASE_DSN"},
		{"unknown storage", Config{Storage: "sqlite"}, "unknown storage"},
		{"required jwt without secret", Config{Storage: StorageMemory, JWT: JWTConfig{Required: true}}, "BULLION_JWT_SECRET"},
		{"memory", Config{Storage: StorageMemory}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
