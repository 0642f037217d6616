package party

import (
	"context"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain"
)

// Repository defines the interface for Party persistence.
// Balance methods run inside the caller's unit of work.
type Repository interface {
	domain.CatalogRepository[*Party]

	// GetForUpdate retrieves the party with its balance rows locked.
	GetForUpdate(ctx context.Context, id id.ID) (*Party, error)

	// IncrementGold adds deltas to the gold balance.
	IncrementGold(ctx context.Context, partyID id.ID, grams types.Grams, value types.Money) error

	// IncrementDraft adds grams to the draft balance.
	IncrementDraft(ctx context.Context, partyID id.ID, grams types.Grams) error

	// EnsureCash creates a zero cash row for currency if it is absent.
	// The row is marked default when currency is the party's own currency.
	EnsureCash(ctx context.Context, partyID id.ID, currency string) error

	// IncrementCash adds amount to an existing cash row.
	IncrementCash(ctx context.Context, partyID id.ID, currency string, amount types.Money) error
}
