package registry

import (
	"context"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/posting"
)

// Repository defines storage for registry rows.
// All writes run inside the caller's unit of work.
type Repository interface {
	// CreateEntries batch inserts rows
	CreateEntries(ctx context.Context, entries []Entry) error

	// ListByTransaction returns rows owned by a transaction in correlation order
	ListByTransaction(ctx context.Context, transactionID id.ID) ([]Entry, error)

	// ListByDraft returns rows created for a draft
	ListByDraft(ctx context.Context, draftID id.ID) ([]Entry, error)

	// DeleteByTransaction removes every row owned by a transaction
	DeleteByTransaction(ctx context.Context, transactionID id.ID) (int64, error)

	// DeleteByDraft removes a draft's rows; onlyDraft limits it to rows still flagged draft
	DeleteByDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error)

	// SetDraftState flips the draft flag and cost center on a draft's rows
	SetDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error)

	// FindOne returns the first row of type t for a transaction and party, or nil
	FindOne(ctx context.Context, transactionID, partyID id.ID, t posting.EntryType) (*Entry, error)
}
