package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"bullionledger/internal/domain/pricelock"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const priceLockTable = "pricing_locks"

var priceLockColumns = postgres.ExtractDBColumns[pricelock.Lock]()

// PriceLockRepo implements pricelock.Repository. Writes always go through the
// pool: locks are recorded after the owning transaction has committed.
type PriceLockRepo struct {
	txManager *postgres.TxManager
}

var _ pricelock.Repository = (*PriceLockRepo)(nil)

// NewPriceLockRepo creates a new price lock repository.
func NewPriceLockRepo(txManager *postgres.TxManager) *PriceLockRepo {
	return &PriceLockRepo{txManager: txManager}
}

// Create inserts one lock.
func (r *PriceLockRepo) Create(ctx context.Context, lock pricelock.Lock) error {
	data := postgres.StructToMap(lock)
	values := make([]any, len(priceLockColumns))
	for i, col := range priceLockColumns {
		values[i] = data[col]
	}

	sql, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Insert(priceLockTable).
		Columns(priceLockColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.Pool().Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "price lock")
	}
	return nil
}
