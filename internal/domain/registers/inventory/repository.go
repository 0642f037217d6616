package inventory

import (
	"context"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// Repository defines storage for inventory rows and logs.
// All writes run inside the caller's unit of work.
type Repository interface {
	// GetForUpdate returns the stock's row locked, or a zero row if none exists.
	GetForUpdate(ctx context.Context, stockID id.ID) (Inventory, error)

	// Increment adds signed deltas, creating the row when absent.
	// Purity is recomputed as pure / gross.
	Increment(ctx context.Context, stockID id.ID, pieces int, gross, pure types.Grams) error

	// List returns every inventory row.
	List(ctx context.Context) ([]Inventory, error)

	// CreateLogs batch inserts log rows.
	CreateLogs(ctx context.Context, logs []Log) error

	// ListLogsByTransaction returns a transaction's log rows.
	ListLogsByTransaction(ctx context.Context, transactionID id.ID) ([]Log, error)

	// ListLogsByDraft returns a draft's log rows.
	ListLogsByDraft(ctx context.Context, draftID id.ID) ([]Log, error)

	// DeleteLogsByTransaction removes a transaction's log rows.
	DeleteLogsByTransaction(ctx context.Context, transactionID id.ID) (int64, error)

	// DeleteLogsByDraft removes a draft's log rows; onlyDraft keeps confirmed rows.
	DeleteLogsByDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error)

	// SetLogsDraftState flips the draft flag and cost center on a draft's rows.
	SetLogsDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error)

	// PureGoldByStock sums action sign × gross × purity over non-draft,
	// non-purity-difference rows, grouped by stock.
	PureGoldByStock(ctx context.Context) ([]StockGold, error)
}
