package memory

import (
	"context"
	"sort"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
)

// --- Metal transactions ---

// TransactionRepo stores metal transactions.
type TransactionRepo struct {
	store *Store
}

var _ metal_transaction.Repository = (*TransactionRepo)(nil)

// Transactions returns the metal transaction repository.
func (s *Store) Transactions() *TransactionRepo {
	return &TransactionRepo{store: s}
}

func cloneTransaction(t *metal_transaction.Transaction) *metal_transaction.Transaction {
	c := *t
	c.Stocks = append([]posting.LineItem(nil), t.Stocks...)
	c.OtherCharges = append([]posting.OtherCharge(nil), t.OtherCharges...)
	return &c
}

func (r *TransactionRepo) Create(ctx context.Context, t *metal_transaction.Transaction) error {
	return r.store.view(ctx, func(st *state) error {
		for _, existing := range st.transactions {
			if existing.Number == t.Number {
				return apperror.NewDuplicate("metal_transaction", "number", t.Number)
			}
		}
		st.transactions[t.ID] = cloneTransaction(t)
		return nil
	})
}

func (r *TransactionRepo) GetByID(ctx context.Context, txID id.ID) (*metal_transaction.Transaction, error) {
	var out *metal_transaction.Transaction
	err := r.store.view(ctx, func(st *state) error {
		t, ok := st.transactions[txID]
		if !ok {
			return apperror.NewNotFound("metal_transaction", txID.String())
		}
		out = cloneTransaction(t)
		return nil
	})
	return out, err
}

func (r *TransactionRepo) GetForUpdate(ctx context.Context, txID id.ID) (*metal_transaction.Transaction, error) {
	return r.GetByID(ctx, txID)
}

func (r *TransactionRepo) Update(ctx context.Context, t *metal_transaction.Transaction) error {
	return r.store.view(ctx, func(st *state) error {
		existing, ok := st.transactions[t.ID]
		if !ok {
			return apperror.NewNotFound("metal_transaction", t.ID.String())
		}
		if existing.Version != t.Version {
			return apperror.NewConflict("metal_transaction was modified concurrently").
				WithDetail("id", t.ID.String())
		}
		t.BumpVersion()
		st.transactions[t.ID] = cloneTransaction(t)
		return nil
	})
}

func (r *TransactionRepo) Delete(ctx context.Context, txID id.ID) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.transactions[txID]; !ok {
			return apperror.NewNotFound("metal_transaction", txID.String())
		}
		delete(st.transactions, txID)
		return nil
	})
}

func (r *TransactionRepo) List(ctx context.Context, f metal_transaction.ListFilter) (domain.ListResult[*metal_transaction.Transaction], error) {
	var items []*metal_transaction.Transaction
	err := r.store.view(ctx, func(st *state) error {
		for _, t := range st.transactions {
			switch {
			case f.PartyID != nil && t.PartyID != *f.PartyID:
				continue
			case f.Type != nil && t.Type != *f.Type:
				continue
			case f.DateFrom != nil && t.Date.Before(*f.DateFrom):
				continue
			case f.DateTo != nil && t.Date.After(*f.DateTo):
				continue
			}
			items = append(items, cloneTransaction(t))
		}
		return nil
	})
	if err != nil {
		return domain.ListResult[*metal_transaction.Transaction]{}, err
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].Number > items[j].Number
	})
	return page(items, f.Limit, f.Offset), nil
}

// --- Drafts ---

// DraftRepo stores drafts.
type DraftRepo struct {
	store *Store
}

var _ drafting.Repository = (*DraftRepo)(nil)

// Drafts returns the draft repository.
func (s *Store) Drafts() *DraftRepo {
	return &DraftRepo{store: s}
}

func cloneDraft(d *drafting.Drafting) *drafting.Drafting {
	c := *d
	return &c
}

func (r *DraftRepo) Create(ctx context.Context, d *drafting.Drafting) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.drafts[d.ID]; ok {
			return apperror.NewDuplicate("drafting", "id", d.ID.String())
		}
		st.drafts[d.ID] = cloneDraft(d)
		return nil
	})
}

func (r *DraftRepo) GetByID(ctx context.Context, draftID id.ID) (*drafting.Drafting, error) {
	var out *drafting.Drafting
	err := r.store.view(ctx, func(st *state) error {
		d, ok := st.drafts[draftID]
		if !ok {
			return apperror.NewNotFound("drafting", draftID.String())
		}
		out = cloneDraft(d)
		return nil
	})
	return out, err
}

func (r *DraftRepo) GetForUpdate(ctx context.Context, draftID id.ID) (*drafting.Drafting, error) {
	return r.GetByID(ctx, draftID)
}

func (r *DraftRepo) Update(ctx context.Context, d *drafting.Drafting) error {
	return r.store.view(ctx, func(st *state) error {
		existing, ok := st.drafts[d.ID]
		if !ok {
			return apperror.NewNotFound("drafting", d.ID.String())
		}
		if existing.Version != d.Version {
			return apperror.NewConflict("drafting was modified concurrently").
				WithDetail("id", d.ID.String())
		}
		d.BumpVersion()
		st.drafts[d.ID] = cloneDraft(d)
		return nil
	})
}

func (r *DraftRepo) Delete(ctx context.Context, draftID id.ID) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.drafts[draftID]; !ok {
			return apperror.NewNotFound("drafting", draftID.String())
		}
		delete(st.drafts, draftID)
		return nil
	})
}

func (r *DraftRepo) List(ctx context.Context, f drafting.ListFilter) (domain.ListResult[*drafting.Drafting], error) {
	var items []*drafting.Drafting
	err := r.store.view(ctx, func(st *state) error {
		for _, d := range st.drafts {
			if f.Status != nil && d.Status != *f.Status {
				continue
			}
			if f.PartyID != nil && d.PartyID != *f.PartyID {
				continue
			}
			items = append(items, cloneDraft(d))
		}
		return nil
	})
	if err != nil {
		return domain.ListResult[*drafting.Drafting]{}, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return page(items, f.Limit, f.Offset), nil
}
