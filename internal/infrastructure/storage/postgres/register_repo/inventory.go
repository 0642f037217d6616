package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const (
	inventoryTable     = "reg_inventory"
	inventoryLogsTable = "reg_inventory_logs"
)

var (
	inventoryColumns = postgres.ExtractDBColumns[inventory.Inventory]()
	logColumns       = postgres.ExtractDBColumns[inventory.Log]()
)

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txManager *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetForUpdate returns the stock's row with a pessimistic lock, or a zero row.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, stockID id.ID) (inventory.Inventory, error) {
	sql, args, err := r.builder.
		Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"stock_id": stockID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return inventory.Inventory{}, fmt.Errorf("build query: %w", err)
	}

	var inv inventory.Inventory
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return inventory.Inventory{
				StockID:     stockID,
				GrossWeight: types.Zero(),
				PureWeight:  types.Zero(),
				Purity:      types.Zero(),
			}, nil
		}
		return inv, fmt.Errorf("get inventory for update: %w", err)
	}
	return inv, nil
}

// Increment adds signed deltas with an upsert and recomputes purity as pure / gross.
func (r *InventoryRepo) Increment(ctx context.Context, stockID id.ID, pieces int, gross, pure types.Grams) error {
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO `+inventoryTable+` AS inv (stock_id, gross_weight, pieces, pure_weight, purity, updated_at)
		VALUES ($1, $2, $3, $4, CASE WHEN $2::numeric = 0 THEN 0 ELSE $4::numeric / $2::numeric END, $5)
		ON CONFLICT (stock_id) DO UPDATE SET
			gross_weight = inv.gross_weight + EXCLUDED.gross_weight,
			pieces       = inv.pieces + EXCLUDED.pieces,
			pure_weight  = inv.pure_weight + EXCLUDED.pure_weight,
			purity       = CASE
				WHEN inv.gross_weight + EXCLUDED.gross_weight = 0 THEN 0
				ELSE (inv.pure_weight + EXCLUDED.pure_weight) / (inv.gross_weight + EXCLUDED.gross_weight)
			END,
			updated_at   = EXCLUDED.updated_at
	`, stockID, gross, pieces, pure, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment inventory: %w", err)
	}
	return nil
}

// List returns every inventory row ordered by stock.
func (r *InventoryRepo) List(ctx context.Context) ([]inventory.Inventory, error) {
	sql, args, err := r.builder.
		Select(inventoryColumns...).
		From(inventoryTable).
		OrderBy("stock_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []inventory.Inventory
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return out, nil
}

// CreateLogs copies log rows in with the COPY protocol.
func (r *InventoryRepo) CreateLogs(ctx context.Context, logs []inventory.Log) error {
	_, err := postgres.CopyRows(ctx, r.txManager, inventoryLogsTable, logColumns, logs, func(l inventory.Log) []any {
		m := postgres.StructToMap(l)
		row := make([]any, len(logColumns))
		for i, col := range logColumns {
			row[i] = m[col]
		}
		return row
	})
	return err
}

func (r *InventoryRepo) listLogs(ctx context.Context, where squirrel.Sqlizer) ([]inventory.Log, error) {
	sql, args, err := r.builder.
		Select(logColumns...).
		From(inventoryLogsTable).
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []inventory.Log
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select inventory logs: %w", err)
	}
	return out, nil
}

// ListLogsByTransaction returns a transaction's log rows.
func (r *InventoryRepo) ListLogsByTransaction(ctx context.Context, transactionID id.ID) ([]inventory.Log, error) {
	return r.listLogs(ctx, squirrel.Eq{"transaction_id": transactionID})
}

// ListLogsByDraft returns a draft's log rows.
func (r *InventoryRepo) ListLogsByDraft(ctx context.Context, draftID id.ID) ([]inventory.Log, error) {
	return r.listLogs(ctx, squirrel.Eq{"draft_id": draftID})
}

func (r *InventoryRepo) exec(ctx context.Context, q squirrel.Sqlizer, op string) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteLogsByTransaction removes a transaction's log rows.
func (r *InventoryRepo) DeleteLogsByTransaction(ctx context.Context, transactionID id.ID) (int64, error) {
	return r.exec(ctx, r.builder.Delete(inventoryLogsTable).
		Where(squirrel.Eq{"transaction_id": transactionID}), "delete inventory logs")
}

// DeleteLogsByDraft removes a draft's log rows; onlyDraft keeps confirmed rows.
func (r *InventoryRepo) DeleteLogsByDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error) {
	q := r.builder.Delete(inventoryLogsTable).Where(squirrel.Eq{"draft_id": draftID})
	if onlyDraft {
		q = q.Where(squirrel.Eq{"is_draft": true})
	}
	return r.exec(ctx, q, "delete draft inventory logs")
}

// SetLogsDraftState flips the draft flag and cost center on a draft's rows.
func (r *InventoryRepo) SetLogsDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error) {
	return r.exec(ctx, r.builder.Update(inventoryLogsTable).
		Set("is_draft", isDraft).
		Set("cost_center", costCenter).
		Where(squirrel.Eq{"draft_id": draftID}), "set inventory log draft state")
}

// PureGoldByStock sums action sign × gross × purity over rows that count toward weight.
func (r *InventoryRepo) PureGoldByStock(ctx context.Context) ([]inventory.StockGold, error) {
	sql, args, err := r.builder.
		Select("stock_id").
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN action = ? THEN -1 ELSE 1 END * gross_weight * purity), 0) AS pure_gold",
			entity.ActionRemove,
		)).
		From(inventoryLogsTable).
		Where(squirrel.Eq{"is_draft": false, "is_purity_difference_entry": false}).
		GroupBy("stock_id").
		OrderBy("stock_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []inventory.StockGold
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("sum pure gold: %w", err)
	}
	return out, nil
}
