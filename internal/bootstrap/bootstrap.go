// Package bootstrap opens the configured storage backend and assembles the
// repositories the services run on.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bullionledger/internal/app"
	"bullionledger/internal/config"
	corenumerator "bullionledger/internal/core/numerator"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/infrastructure/cache"
	"bullionledger/internal/infrastructure/numerator"
	"bullionledger/internal/infrastructure/storage/memory"
	"bullionledger/internal/infrastructure/storage/postgres"
	"bullionledger/internal/infrastructure/storage/postgres/catalog_repo"
	"bullionledger/internal/infrastructure/storage/postgres/document_repo"
	"bullionledger/internal/infrastructure/storage/postgres/register_repo"
	"bullionledger/pkg/logger"
)

// Backend is an opened storage backend.
type Backend struct {
	Repos app.Repositories

	// Pool and TxManager are nil for the memory backend
	Pool      *postgres.Pool
	TxManager *postgres.TxManager

	// Redis and BranchCache are nil when no cache is configured
	Redis       *redis.Client
	BranchCache *cache.BranchSettings
}

// Open connects the backend named by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn(ctx, "using in-memory storage; data is lost on exit")
		return &Backend{Repos: memory.New().Repositories(corenumerator.NewMemory())}, nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, postgres.MigrateUp, 0); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Pool())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	b := &Backend{Pool: pool}

	txm := postgres.NewTxManager(pool).WithOptions(cfg.TxOptions())
	b.TxManager = txm

	auditRecorder, err := postgres.NewAuditRecorder(txm)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("create audit recorder: %w", err)
	}

	branches := catalog_repo.NewBranchRepo(txm)
	b.Repos = app.Repositories{
		TxManager:    txm,
		Parties:      catalog_repo.NewPartyRepo(txm),
		Branches:     branches,
		Stocks:       catalog_repo.NewStockRepo(txm),
		Karats:       catalog_repo.NewKaratRepo(txm),
		Registry:     register_repo.NewRegistryRepo(txm),
		Inventory:    register_repo.NewInventoryRepo(txm),
		Transactions: document_repo.NewTransactionRepo(txm),
		Drafts:       document_repo.NewDraftingRepo(txm),
		PriceLocks:   document_repo.NewPriceLockRepo(txm),
		Audit:        auditRecorder,
		Outbox:       postgres.NewOutboxPublisher(txm),
		Numerator:    numerator.New(pool),
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedis(ctx, cfg.Cache())
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.Redis = client
		b.BranchCache = cache.NewBranchSettings(client, branch.NewService(branches, txm), cfg.Ledger.SettingsCacheTTL)
		b.Repos.BranchSettings = b.BranchCache
	}

	return b, nil
}

// Close releases connections.
func (b *Backend) Close() {
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			logger.Error(context.Background(), "close redis", "error", err)
		}
	}
	if b.Pool != nil {
		b.Pool.Close()
	}
}
