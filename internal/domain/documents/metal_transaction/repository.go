package metal_transaction

import (
	"context"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain"
)

// Repository defines persistence for transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error

	GetByID(ctx context.Context, id id.ID) (*Transaction, error)

	// GetForUpdate loads and locks the row for an edit or delete.
	GetForUpdate(ctx context.Context, id id.ID) (*Transaction, error)

	// Update stores t with optimistic locking on Version.
	Update(ctx context.Context, t *Transaction) error

	// Delete removes the row permanently.
	Delete(ctx context.Context, id id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error)
}
