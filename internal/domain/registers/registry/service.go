package registry

import (
	"context"
	"fmt"
	"time"

	appctx "bullionledger/internal/core/context"
	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/posting"
	"bullionledger/pkg/logger"
)

// Service writes and maintains registry rows.
// Transactions are managed by the caller.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new registry service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Record checks that entries balance, stamps voucher metadata and stores them.
func (s *Service) Record(ctx context.Context, v Voucher, entries []posting.Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if err := posting.CheckBalanced(entries); err != nil {
		return nil, err
	}

	rows := FromPosting(v, entries, appctx.ActorID(ctx), s.now())
	if err := s.repo.CreateEntries(ctx, rows); err != nil {
		return nil, fmt.Errorf("create registry entries: %w", err)
	}

	logger.Info(ctx, "recorded registry entries",
		"count", len(rows),
		"reference", v.Reference,
		"draft", v.IsDraft,
	)

	return rows, nil
}

// RemoveTransaction deletes every row a transaction owns.
func (s *Service) RemoveTransaction(ctx context.Context, transactionID id.ID) error {
	n, err := s.repo.DeleteByTransaction(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("delete registry entries: %w", err)
	}

	logger.Info(ctx, "removed registry entries",
		"transaction_id", transactionID,
		"count", n,
	)
	return nil
}

// RemoveDraft deletes a draft's rows. With onlyDraft, confirmed rows are kept.
func (s *Service) RemoveDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error) {
	n, err := s.repo.DeleteByDraft(ctx, draftID, onlyDraft)
	if err != nil {
		return 0, fmt.Errorf("delete draft registry entries: %w", err)
	}
	return n, nil
}

// SetDraftState flips a draft's rows and returns how many changed.
func (s *Service) SetDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error) {
	n, err := s.repo.SetDraftState(ctx, draftID, isDraft, costCenter)
	if err != nil {
		return 0, fmt.Errorf("set draft state: %w", err)
	}
	return n, nil
}

// ByTransaction lists a transaction's rows.
func (s *Service) ByTransaction(ctx context.Context, transactionID id.ID) ([]Entry, error) {
	return s.repo.ListByTransaction(ctx, transactionID)
}

// ByDraft lists a draft's rows.
func (s *Service) ByDraft(ctx context.Context, draftID id.ID) ([]Entry, error) {
	return s.repo.ListByDraft(ctx, draftID)
}

// PurityDifference returns the purity-difference row for a transaction and party, or nil.
func (s *Service) PurityDifference(ctx context.Context, transactionID, partyID id.ID) (*Entry, error) {
	return s.repo.FindOne(ctx, transactionID, partyID, posting.EntryPurityDifference)
}
