// Package v1 provides HTTP API version 1.
package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"bullionledger/internal/app"
	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/infrastructure/http/v1/dto"
	"bullionledger/internal/infrastructure/http/v1/handlers"
	"bullionledger/internal/infrastructure/http/v1/middleware"
	"bullionledger/pkg/logger"
)

// BranchInvalidator drops cached branch settings after an edit.
type BranchInvalidator interface {
	Invalidate(ctx context.Context, branchID id.ID) error
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services *app.Services

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// RequireAuth rejects requests without a valid token; otherwise
	// anonymous requests act as the system actor
	RequireAuth bool

	// Version is reported by /health/info
	Version string

	// HealthChecks are pinged by /health/ready
	HealthChecks map[string]handlers.Pinger

	// PoolStats is reported by /health/info; optional
	PoolStats handlers.PoolStats

	// BranchCache is invalidated when a branch is edited; optional
	BranchCache BranchInvalidator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.HealthChecks, cfg.PoolStats)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		if cfg.RequireAuth {
			v1.Use(middleware.Auth(cfg.JWTValidator))
		} else {
			v1.Use(middleware.OptionalAuth(cfg.JWTValidator))
		}
	}

	base := handlers.NewBaseHandler()
	registerCatalogRoutes(v1, base, cfg)
	registerDocumentRoutes(v1, base, cfg)

	return router
}

// registerCatalogRoutes registers reference data endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services

	parties := rg.Group("/parties")
	handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*party.Party, dto.CreatePartyRequest, dto.UpdatePartyRequest]{
			Service:      svc.Parties.CatalogService,
			MapCreateDTO: dto.CreatePartyRequest.ToParty,
			MapUpdateDTO: dto.UpdatePartyRequest.ApplyTo,
			MapToDTO:     dto.FromParty,
		}).RegisterRoutes(parties)
	handlers.NewPartyBalanceHandler(base, svc.Parties).RegisterRoutes(parties)

	branchCfg := handlers.CatalogHandlerConfig[*branch.Branch, dto.CreateBranchRequest, dto.UpdateBranchRequest]{
		Service:      svc.Branches.CatalogService,
		MapCreateDTO: dto.CreateBranchRequest.ToBranch,
		MapUpdateDTO: dto.UpdateBranchRequest.ApplyTo,
		MapToDTO:     dto.FromBranch,
	}
	if cfg.BranchCache != nil {
		branchCfg.OnUpdated = func(ctx context.Context, b *branch.Branch) {
			if err := cfg.BranchCache.Invalidate(ctx, b.ID); err != nil {
				logger.Warn(ctx, "branch settings cache invalidation failed", "branch_id", b.ID, "error", err)
			}
		}
	}
	mount(rg, "/branches", handlers.NewCatalogHandler(base, branchCfg))

	mount(rg, "/karats", handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*stock.Karat, dto.CreateKaratRequest, dto.UpdateKaratRequest]{
			Service:      svc.Stocks.Karats(),
			MapCreateDTO: dto.CreateKaratRequest.ToKarat,
			MapUpdateDTO: dto.UpdateKaratRequest.ApplyTo,
			MapToDTO:     dto.FromKarat,
		}))

	mount(rg, "/stocks", handlers.NewCatalogHandler(base,
		handlers.CatalogHandlerConfig[*stock.Stock, dto.CreateStockRequest, dto.UpdateStockRequest]{
			Service:      svc.Stocks.CatalogService,
			MapCreateDTO: dto.CreateStockRequest.ToStock,
			MapUpdateDTO: dto.UpdateStockRequest.ApplyTo,
			MapToDTO:     dto.FromStock,
		}))
}

// registerDocumentRoutes registers voucher and inventory endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services

	mount(rg, "/transactions", handlers.NewTransactionHandler(base, svc.Transactions, svc.Inventory))
	mount(rg, "/drafts", handlers.NewDraftingHandler(base, svc.Drafting, svc.Inventory))
	mount(rg, "/inventory", handlers.NewInventoryHandler(base, svc.Inventory))
}
