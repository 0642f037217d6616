// Package main applies the embedded schema migrations.
//
//	migrate up [steps]
//	migrate down [steps]
//	migrate version
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"bullionledger/internal/config"
	"bullionledger/internal/infrastructure/storage/postgres"
	"bullionledger/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: migrate up|down|version [steps]")
		os.Exit(2)
	}

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

	steps := 0
	if len(os.Args) > 2 {
		steps, err = strconv.Atoi(os.Args[2])
		if err != nil || steps < 0 {
			log.Fatalw("steps must be a non-negative integer", "value", os.Args[2])
		}
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		err = postgres.Migrate(ctx, cfg.Database.DSN, postgres.MigrateUp, steps)
	case "down":
		err = postgres.Migrate(ctx, cfg.Database.DSN, postgres.MigrateDown, steps)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = postgres.MigrationVersion(ctx, cfg.Database.DSN)
		if err == nil {
			log.Infow("schema version", "version", version, "dirty", dirty)
		}
	default:
		log.Fatalw("unknown command", "command", cmd)
	}
	if err != nil {
		log.Fatalw("migration failed", "error", err)
	}
}
