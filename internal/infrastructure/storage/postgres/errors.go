package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"bullionledger/internal/core/apperror"
)

// PostgreSQL error codes the store translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
)

// MapError translates constraint violations into AppErrors; anything else
// is returned unchanged.
func MapError(err error, entityName string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return apperror.NewDuplicate(entityName, pgErr.ConstraintName, pgErr.Detail).WithCause(err)
	case pgForeignKeyViolation:
		return apperror.NewConflict(entityName + " references or is referenced by another record").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case pgLockNotAvailable:
		return apperror.NewConflict(entityName + " is locked by another operation").WithCause(err)
	}
	return err
}

// ErrVersionConflict is returned by optimistic updates that matched no row.
func ErrVersionConflict(entityName string) error {
	return apperror.NewConflict(entityName + " was modified concurrently")
}
