package memory

import (
	"context"
	"sort"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
)

func owns(ref *id.ID, target id.ID) bool {
	return ref != nil && *ref == target
}

// --- Registry ---

// RegistryRepo stores registry rows.
type RegistryRepo struct {
	store *Store
}

var _ registry.Repository = (*RegistryRepo)(nil)

// Registry returns the registry repository.
func (s *Store) Registry() *RegistryRepo {
	return &RegistryRepo{store: s}
}

func (r *RegistryRepo) CreateEntries(ctx context.Context, entries []registry.Entry) error {
	return r.store.view(ctx, func(st *state) error {
		st.entries = append(st.entries, entries...)
		return nil
	})
}

func (r *RegistryRepo) filter(ctx context.Context, keep func(registry.Entry) bool) ([]registry.Entry, error) {
	var out []registry.Entry
	err := r.store.view(ctx, func(st *state) error {
		for _, e := range st.entries {
			if keep(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (r *RegistryRepo) ListByTransaction(ctx context.Context, transactionID id.ID) ([]registry.Entry, error) {
	out, err := r.filter(ctx, func(e registry.Entry) bool { return owns(e.TransactionID, transactionID) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CorrelationID < out[j].CorrelationID })
	return out, err
}

func (r *RegistryRepo) ListByDraft(ctx context.Context, draftID id.ID) ([]registry.Entry, error) {
	return r.filter(ctx, func(e registry.Entry) bool { return owns(e.DraftID, draftID) })
}

func (r *RegistryRepo) remove(ctx context.Context, drop func(registry.Entry) bool) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(st *state) error {
		kept := st.entries[:0:0]
		for _, e := range st.entries {
			if drop(e) {
				n++
				continue
			}
			kept = append(kept, e)
		}
		st.entries = kept
		return nil
	})
	return n, err
}

func (r *RegistryRepo) DeleteByTransaction(ctx context.Context, transactionID id.ID) (int64, error) {
	return r.remove(ctx, func(e registry.Entry) bool { return owns(e.TransactionID, transactionID) })
}

func (r *RegistryRepo) DeleteByDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error) {
	return r.remove(ctx, func(e registry.Entry) bool {
		return owns(e.DraftID, draftID) && (!onlyDraft || e.IsDraft)
	})
}

func (r *RegistryRepo) SetDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(st *state) error {
		for i := range st.entries {
			if owns(st.entries[i].DraftID, draftID) {
				st.entries[i].IsDraft = isDraft
				st.entries[i].CostCenter = costCenter
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *RegistryRepo) FindOne(ctx context.Context, transactionID, partyID id.ID, t posting.EntryType) (*registry.Entry, error) {
	var out *registry.Entry
	err := r.store.view(ctx, func(st *state) error {
		for _, e := range st.entries {
			if e.Type == t && owns(e.TransactionID, transactionID) && owns(e.PartyID, partyID) {
				found := e
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

// --- Inventory ---

// InventoryRepo stores inventory rows and their logs.
type InventoryRepo struct {
	store *Store
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// Inventory returns the inventory repository.
func (s *Store) Inventory() *InventoryRepo {
	return &InventoryRepo{store: s}
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, stockID id.ID) (inventory.Inventory, error) {
	var out inventory.Inventory
	err := r.store.view(ctx, func(st *state) error {
		inv, ok := st.inventory[stockID]
		if !ok {
			inv = inventory.Inventory{
				StockID:     stockID,
				GrossWeight: types.Zero(),
				PureWeight:  types.Zero(),
				Purity:      types.Zero(),
			}
		}
		out = inv
		return nil
	})
	return out, err
}

func (r *InventoryRepo) Increment(ctx context.Context, stockID id.ID, pieces int, gross, pure types.Grams) error {
	return r.store.view(ctx, func(st *state) error {
		inv, ok := st.inventory[stockID]
		if !ok {
			inv = inventory.Inventory{StockID: stockID}
		}
		inv.Pieces += pieces
		inv.GrossWeight = inv.GrossWeight.Add(gross)
		inv.PureWeight = inv.PureWeight.Add(pure)
		inv.Purity = types.Zero()
		if !inv.GrossWeight.IsZero() {
			inv.Purity = inv.PureWeight.Div(inv.GrossWeight)
		}
		inv.UpdatedAt = r.store.now()
		st.inventory[stockID] = inv
		return nil
	})
}

func (r *InventoryRepo) List(ctx context.Context) ([]inventory.Inventory, error) {
	var out []inventory.Inventory
	err := r.store.view(ctx, func(st *state) error {
		for _, inv := range st.inventory {
			out = append(out, inv)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StockID.String() < out[j].StockID.String() })
	return out, err
}

func (r *InventoryRepo) CreateLogs(ctx context.Context, logs []inventory.Log) error {
	return r.store.view(ctx, func(st *state) error {
		st.logs = append(st.logs, logs...)
		return nil
	})
}

func (r *InventoryRepo) filter(ctx context.Context, keep func(inventory.Log) bool) ([]inventory.Log, error) {
	var out []inventory.Log
	err := r.store.view(ctx, func(st *state) error {
		for _, l := range st.logs {
			if keep(l) {
				out = append(out, l)
			}
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepo) ListLogsByTransaction(ctx context.Context, transactionID id.ID) ([]inventory.Log, error) {
	return r.filter(ctx, func(l inventory.Log) bool { return owns(l.TransactionID, transactionID) })
}

func (r *InventoryRepo) ListLogsByDraft(ctx context.Context, draftID id.ID) ([]inventory.Log, error) {
	return r.filter(ctx, func(l inventory.Log) bool { return owns(l.DraftID, draftID) })
}

func (r *InventoryRepo) remove(ctx context.Context, drop func(inventory.Log) bool) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(st *state) error {
		kept := st.logs[:0:0]
		for _, l := range st.logs {
			if drop(l) {
				n++
				continue
			}
			kept = append(kept, l)
		}
		st.logs = kept
		return nil
	})
	return n, err
}

func (r *InventoryRepo) DeleteLogsByTransaction(ctx context.Context, transactionID id.ID) (int64, error) {
	return r.remove(ctx, func(l inventory.Log) bool { return owns(l.TransactionID, transactionID) })
}

func (r *InventoryRepo) DeleteLogsByDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error) {
	return r.remove(ctx, func(l inventory.Log) bool {
		return owns(l.DraftID, draftID) && (!onlyDraft || l.IsDraft)
	})
}

func (r *InventoryRepo) SetLogsDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(st *state) error {
		for i := range st.logs {
			if owns(st.logs[i].DraftID, draftID) {
				st.logs[i].IsDraft = isDraft
				st.logs[i].CostCenter = costCenter
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *InventoryRepo) PureGoldByStock(ctx context.Context) ([]inventory.StockGold, error) {
	sums := map[id.ID]types.Grams{}
	err := r.store.view(ctx, func(st *state) error {
		for _, l := range st.logs {
			if !l.CountsTowardWeight() {
				continue
			}
			sums[l.StockID] = sums[l.StockID].Add(l.SignedPure())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]inventory.StockGold, 0, len(sums))
	for stockID, pure := range sums {
		out = append(out, inventory.StockGold{StockID: stockID, PureGold: pure})
	}
	return out, nil
}
