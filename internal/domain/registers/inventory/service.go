package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bullionledger/internal/core/apperror"
	appctx "bullionledger/internal/core/context"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/domain/registers/registry"
	"bullionledger/pkg/logger"
)

// StockLookup reads the stock master.
type StockLookup interface {
	GetByID(ctx context.Context, id id.ID) (*stock.Stock, error)
}

// BranchSettings reads per-branch inventory policy.
type BranchSettings interface {
	Settings(ctx context.Context, branchID id.ID) (branch.Settings, error)
}

// PurityDifferenceLookup finds the registry purity-difference row of a transaction.
type PurityDifferenceLookup interface {
	PurityDifference(ctx context.Context, transactionID, partyID id.ID) (*registry.Entry, error)
}

// Service is the Inventory Updater. Transactions are managed by the caller.
type Service struct {
	repo     Repository
	stocks   StockLookup
	branches BranchSettings
	pd       PurityDifferenceLookup
	now      func() time.Time
}

// NewService creates a new inventory service.
func NewService(repo Repository, stocks StockLookup, branches BranchSettings, pd PurityDifferenceLookup) *Service {
	return &Service{
		repo:     repo,
		stocks:   stocks,
		branches: branches,
		pd:       pd,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// batchSettings caches allow-negative lookups for the duration of one batch.
type batchSettings map[id.ID]bool

// Apply records every movement of b. Non-draft movements update the
// inventory row first; each movement appends a log row, plus a zero-weight
// purity-difference row when the line carries one.
func (s *Service) Apply(ctx context.Context, b Batch) error {
	if len(b.Movements) == 0 {
		return nil
	}

	cache := batchSettings{}
	action := entity.ActionFor(b.Direction)
	actor := appctx.ActorID(ctx)
	now := s.now()
	logs := make([]Log, 0, len(b.Movements))

	for i, m := range b.Movements {
		st, err := s.stocks.GetByID(ctx, m.StockID)
		if err != nil {
			return fmt.Errorf("movement %d: %w", i+1, err)
		}

		purity := m.Purity
		if purity.IsZero() {
			purity = types.NormalizePurity(st.Purity)
		}
		pure := types.PureWeight(m.GrossWeight, purity)

		if !b.IsDraft {
			err := s.move(ctx, st, cache, m.Pieces*action.Sign(), action.Signed(m.GrossWeight), action.Signed(pure), true)
			if err != nil {
				return err
			}
		}

		logs = append(logs, Log{
			ID:            id.New(),
			StockID:       m.StockID,
			TransactionID: b.TransactionID,
			DraftID:       b.DraftID,
			PartyID:       id.Ptr(b.PartyID),
			Reference:     b.Reference,
			Action:        action,
			Pieces:        m.Pieces,
			GrossWeight:   m.GrossWeight,
			Purity:        purity,
			PureWeight:    pure,
			IsDraft:       b.IsDraft,
			CostCenter:    b.CostCenter,
			CreatedBy:     actor,
			CreatedAt:     now,
		})

		if m.PurityDifference.IsZero() {
			continue
		}
		pdAction, err := s.purityDifferenceAction(ctx, b, m.PurityDifference)
		if err != nil {
			return err
		}
		logs = append(logs, Log{
			ID:                      id.New(),
			StockID:                 m.StockID,
			TransactionID:           b.TransactionID,
			DraftID:                 b.DraftID,
			PartyID:                 id.Ptr(b.PartyID),
			Reference:               b.Reference,
			Action:                  pdAction,
			GrossWeight:             types.Zero(),
			Purity:                  purity,
			PureWeight:              types.Zero(),
			IsDraft:                 b.IsDraft,
			IsPurityDifferenceEntry: true,
			PurityDifference:        m.PurityDifference.Abs(),
			CostCenter:              b.CostCenter,
			CreatedBy:               actor,
			CreatedAt:               now,
		})
	}

	if err := s.repo.CreateLogs(ctx, logs); err != nil {
		return fmt.Errorf("create inventory logs: %w", err)
	}

	logger.Info(ctx, "applied inventory batch",
		"reference", b.Reference,
		"movements", len(b.Movements),
		"logs", len(logs),
		"draft", b.IsDraft,
	)
	return nil
}

// purityDifferenceAction resolves gain or loss from the registry row of the
// same transaction and party: a gold debit is a gain, a gold credit a loss.
// Without a matching row the sign of pd decides.
func (s *Service) purityDifferenceAction(ctx context.Context, b Batch, pd types.Grams) (entity.Action, error) {
	if b.TransactionID != nil && s.pd != nil {
		row, err := s.pd.PurityDifference(ctx, *b.TransactionID, b.PartyID)
		if err != nil {
			return "", fmt.Errorf("lookup purity difference entry: %w", err)
		}
		if row != nil {
			switch {
			case row.GoldDebit.IsPositive():
				return entity.ActionAdd, nil
			case row.GoldCredit.IsPositive():
				return entity.ActionRemove, nil
			}
		}
	}
	if pd.IsNegative() {
		return entity.ActionRemove, nil
	}
	return entity.ActionAdd, nil
}

// move applies signed deltas to a stock's row. With check set, a result
// below zero is rejected unless the stock's branch allows negative stock.
func (s *Service) move(ctx context.Context, st *stock.Stock, cache batchSettings, pieces int, gross, pure types.Grams, check bool) error {
	if check && (gross.IsNegative() || pieces < 0) {
		inv, err := s.repo.GetForUpdate(ctx, st.ID)
		if err != nil {
			return fmt.Errorf("load inventory %s: %w", st.ID, err)
		}
		if inv.GrossWeight.Add(gross).IsNegative() || inv.Pieces+pieces < 0 {
			allowed, err := s.allowNegative(ctx, st.BranchID, cache)
			if err != nil {
				return err
			}
			if !allowed {
				return apperror.NewInsufficientStock(st.ID.String(), gross.Abs().String(), inv.GrossWeight.String()).
					WithDetail("pieces_requested", -pieces).
					WithDetail("pieces_available", inv.Pieces)
			}
		}
	}

	if err := s.repo.Increment(ctx, st.ID, pieces, gross, pure); err != nil {
		return fmt.Errorf("increment inventory %s: %w", st.ID, err)
	}
	return nil
}

func (s *Service) allowNegative(ctx context.Context, branchID id.ID, cache batchSettings) (bool, error) {
	if v, ok := cache[branchID]; ok {
		return v, nil
	}
	settings, err := s.branches.Settings(ctx, branchID)
	if err != nil {
		return false, fmt.Errorf("branch settings %s: %w", branchID, err)
	}
	cache[branchID] = settings.AllowNegativeStock
	return settings.AllowNegativeStock, nil
}

// unwind reverses the inventory effect of confirmed weight-bearing logs.
// No stock check runs: the movement being undone was already accepted.
func (s *Service) unwind(ctx context.Context, logs []Log) error {
	for _, l := range logs {
		if !l.CountsTowardWeight() {
			continue
		}
		undo := -l.Action.Sign()
		err := s.repo.Increment(ctx, l.StockID, l.Pieces*undo, l.GrossWeight.Mul(types.Sign(undo)), l.PureWeight.Mul(types.Sign(undo)))
		if err != nil {
			return fmt.Errorf("revert inventory %s: %w", l.StockID, err)
		}
	}
	return nil
}

// restock applies the inventory effect of logs that just became confirmed.
func (s *Service) restock(ctx context.Context, logs []Log) error {
	cache := batchSettings{}
	for _, l := range logs {
		if l.IsPurityDifferenceEntry {
			continue
		}
		st, err := s.stocks.GetByID(ctx, l.StockID)
		if err != nil {
			return err
		}
		sign := l.Action.Sign()
		if err := s.move(ctx, st, cache, l.Pieces*sign, l.Action.Signed(l.GrossWeight), l.Action.Signed(l.PureWeight), true); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTransaction reverts and deletes every log row of a transaction.
func (s *Service) RemoveTransaction(ctx context.Context, transactionID id.ID) error {
	logs, err := s.repo.ListLogsByTransaction(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("list inventory logs: %w", err)
	}
	if err := s.unwind(ctx, logs); err != nil {
		return err
	}
	if _, err := s.repo.DeleteLogsByTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("delete inventory logs: %w", err)
	}
	return nil
}

// RemoveDraft deletes a draft's log rows. Without onlyDraft, confirmed rows
// are deleted too and their inventory effect is reverted.
func (s *Service) RemoveDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error) {
	if !onlyDraft {
		logs, err := s.repo.ListLogsByDraft(ctx, draftID)
		if err != nil {
			return 0, fmt.Errorf("list inventory logs: %w", err)
		}
		if err := s.unwind(ctx, logs); err != nil {
			return 0, err
		}
	}
	n, err := s.repo.DeleteLogsByDraft(ctx, draftID, onlyDraft)
	if err != nil {
		return 0, fmt.Errorf("delete inventory logs: %w", err)
	}
	return n, nil
}

// Confirm flips a draft's log rows to confirmed and applies them to inventory.
// It returns the number of rows flipped.
func (s *Service) Confirm(ctx context.Context, draftID id.ID, costCenter string) (int64, error) {
	logs, err := s.repo.ListLogsByDraft(ctx, draftID)
	if err != nil {
		return 0, fmt.Errorf("list inventory logs: %w", err)
	}
	var pending []Log
	for _, l := range logs {
		if l.IsDraft {
			pending = append(pending, l)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	n, err := s.repo.SetLogsDraftState(ctx, draftID, false, costCenter)
	if err != nil {
		return 0, fmt.Errorf("confirm inventory logs: %w", err)
	}
	if err := s.restock(ctx, pending); err != nil {
		return 0, err
	}
	return n, nil
}

// Unconfirm reverts a confirmed draft's inventory effect and flips its
// log rows back to draft.
func (s *Service) Unconfirm(ctx context.Context, draftID id.ID, costCenter string) (int64, error) {
	logs, err := s.repo.ListLogsByDraft(ctx, draftID)
	if err != nil {
		return 0, fmt.Errorf("list inventory logs: %w", err)
	}
	if err := s.unwind(ctx, logs); err != nil {
		return 0, err
	}
	n, err := s.repo.SetLogsDraftState(ctx, draftID, true, costCenter)
	if err != nil {
		return 0, fmt.Errorf("unconfirm inventory logs: %w", err)
	}
	return n, nil
}

// GoldBalanceFromLogs recomputes the pure gold position from the log.
// Draft and purity-difference rows are excluded.
func (s *Service) GoldBalanceFromLogs(ctx context.Context) (GoldBalance, error) {
	rows, err := s.repo.PureGoldByStock(ctx)
	if err != nil {
		return GoldBalance{}, apperror.Persist("sum inventory logs", err)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].StockID.String() < rows[j].StockID.String()
	})

	out := GoldBalance{TotalPureGold: types.Zero(), ByStock: rows}
	for _, r := range rows {
		out.TotalPureGold = out.TotalPureGold.Add(r.PureGold)
	}
	return out, nil
}

// Inventories lists every running inventory row.
func (s *Service) Inventories(ctx context.Context) ([]Inventory, error) {
	return s.repo.List(ctx)
}

// Logs lists a transaction's log rows.
func (s *Service) Logs(ctx context.Context, transactionID id.ID) ([]Log, error) {
	return s.repo.ListLogsByTransaction(ctx, transactionID)
}

// DraftLogs lists a draft's log rows.
func (s *Service) DraftLogs(ctx context.Context, draftID id.ID) ([]Log, error) {
	return s.repo.ListLogsByDraft(ctx, draftID)
}
