package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bullionledger/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateDirection selects which way Migrate moves the schema.
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// Migrate applies the embedded schema migrations over a short-lived
// database/sql connection. steps > 0 moves that many versions instead of all.
func Migrate(ctx context.Context, dsn string, direction MigrateDirection, steps int) error {
	return withMigrator(ctx, dsn, func(m *migrate.Migrate) error {
		var err error
		switch {
		case steps > 0 && direction == MigrateDown:
			err = m.Steps(-steps)
		case steps > 0:
			err = m.Steps(steps)
		case direction == MigrateDown:
			err = m.Down()
		default:
			err = m.Up()
		}

		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info(ctx, "no new migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", direction, err)
		}

		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			return fmt.Errorf("read schema version: %w", verr)
		}
		logger.Info(ctx, "migrations applied", "direction", direction, "version", version, "dirty", dirty)
		return nil
	})
}

// withMigrator opens a migrator over dsn, runs fn and closes everything.
func withMigrator(ctx context.Context, dsn string, fn func(m *migrate.Migrate) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error(ctx, "close migration connection", "error", cerr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping migration connection: %w", err)
	}

	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Error(ctx, "close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	return fn(m)
}

// MigrationVersion reports the applied schema version. Zero means no
// migration has run yet.
func MigrationVersion(ctx context.Context, dsn string) (version uint, dirty bool, err error) {
	err = withMigrator(ctx, dsn, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		return verr
	})
	return version, dirty, err
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
