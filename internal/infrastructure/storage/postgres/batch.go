package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CopyRows bulk inserts items with the COPY protocol inside the active
// transaction. row maps one item to values in column order.
func CopyRows[T any](ctx context.Context, m *TxManager, table string, columns []string, items []T, row func(T) []any) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	pgTx := m.GetTx(ctx)
	if pgTx == nil {
		return 0, fmt.Errorf("copy into %s requires a transaction", table)
	}

	n, err := pgTx.CopyFrom(ctx, pgx.Identifier{table}, columns,
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			return row(items[i]), nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	if n != int64(len(items)) {
		return n, fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(items))
	}
	return n, nil
}
