package drafting

import (
	"context"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
)

// stake is what a draft currently holds in the ledger, captured by value so
// that later edits to the document cannot change what gets compensated.
type stake struct {
	draftID    id.ID
	reference  string
	partyID    id.ID
	stockID    id.ID
	currency   string
	pieces     int
	gross      types.Grams
	purity     types.Purity
	weight     types.Grams
	confirmed  bool
	costCenter string
}

// stakeEffect records a draft's registry pair, inventory log and balance.
// Pending drafts move the party's draft balance; confirmed ones its gold balance.
type stakeEffect struct {
	svc *Service
	s   stake
}

var _ tx.Compensable = (*stakeEffect)(nil)

// effect returns the ledger footprint of d in its current status, or nil
// when it holds nothing.
func (s *Service) effect(d *Drafting, costCenter string) tx.Compensable {
	st := stake{
		draftID:    d.ID,
		reference:  d.Number,
		partyID:    d.PartyID,
		stockID:    d.StockID,
		currency:   d.Currency,
		pieces:     d.Pieces,
		gross:      d.GrossWeight,
		purity:     d.Purity,
		costCenter: PlaceholderCostCenter,
	}
	switch d.Status {
	case StatusDraft:
		st.weight = d.DraftBalanceWeight
	case StatusConfirmed:
		st.weight = d.ConfirmedWeight
		st.confirmed = true
		st.costCenter = costCenter
	default:
		return nil
	}
	if !st.weight.IsPositive() {
		return nil
	}
	return &stakeEffect{svc: s, s: st}
}

func (e *stakeEffect) Apply(ctx context.Context) error {
	voucher := registry.Voucher{
		DraftID:    &e.s.draftID,
		Reference:  e.s.reference,
		CostCenter: e.s.costCenter,
		IsDraft:    !e.s.confirmed,
	}
	entries := posting.BuildDraft(e.s.partyID, e.s.currency, e.s.weight)
	if _, err := e.svc.registry.Record(ctx, voucher, entries); err != nil {
		return err
	}

	err := e.svc.inventory.Apply(ctx, inventory.Batch{
		DraftID:    &e.s.draftID,
		PartyID:    e.s.partyID,
		Reference:  e.s.reference,
		Direction:  1,
		IsDraft:    !e.s.confirmed,
		CostCenter: e.s.costCenter,
		Movements: []inventory.Movement{{
			StockID:     e.s.stockID,
			Pieces:      e.s.pieces,
			GrossWeight: e.s.gross,
			Purity:      e.s.purity,
		}},
	})
	if err != nil {
		return err
	}

	if e.s.confirmed {
		return e.svc.balances.IncrementGold(ctx, e.s.partyID, e.s.weight, types.Zero())
	}
	return e.svc.balances.IncrementDraft(ctx, e.s.partyID, e.s.weight)
}

func (e *stakeEffect) Compensate(ctx context.Context) error {
	onlyDraft := !e.s.confirmed
	if _, err := e.svc.registry.RemoveDraft(ctx, e.s.draftID, onlyDraft); err != nil {
		return err
	}
	if _, err := e.svc.inventory.RemoveDraft(ctx, e.s.draftID, onlyDraft); err != nil {
		return err
	}

	if e.s.confirmed {
		return e.svc.balances.IncrementGold(ctx, e.s.partyID, e.s.weight.Neg(), types.Zero())
	}
	return e.svc.balances.IncrementDraft(ctx, e.s.partyID, e.s.weight.Neg())
}
