// Package main is the entry point for the bullionledger API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"bullionledger/internal/app"
	"bullionledger/internal/bootstrap"
	"bullionledger/internal/config"
	"bullionledger/internal/domain/auth"
	v1 "bullionledger/internal/infrastructure/http/v1"
	"bullionledger/internal/infrastructure/http/v1/handlers"
	"bullionledger/pkg/logger"
)

// version is set at build time.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting bullionledger server", "version", version, "storage", cfg.Storage)

	backend, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	services := app.New(backend.Repos, cfg.App())

	routerCfg := v1.RouterConfig{
		Services:     services,
		Logger:       log,
		RequireAuth:  cfg.JWT.Required,
		Version:      version,
		HealthChecks: map[string]handlers.Pinger{},
	}
	if cfg.JWT.Secret != "" {
		routerCfg.JWTValidator = auth.NewJWTService(cfg.Auth())
	}
	if backend.Pool != nil {
		routerCfg.HealthChecks["database"] = backend.Pool
		routerCfg.PoolStats = backend.Pool
	}
	if backend.Redis != nil {
		routerCfg.HealthChecks["redis"] = redisPinger{backend}
	}
	if backend.BranchCache != nil {
		routerCfg.BranchCache = backend.BranchCache
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := v1.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	// pricing locks are written after commit; let the in-flight ones finish
	services.PriceLocks.Wait()
	if backend.Pool != nil {
		backend.Pool.LogStats(ctx)
	}

	log.Info("server stopped")
}

type redisPinger struct {
	backend *bootstrap.Backend
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.backend.Redis.Ping(ctx).Err()
}
