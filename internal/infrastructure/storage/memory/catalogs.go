package memory

import (
	"context"
	"sort"
	"strings"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
)

// catalogTable implements domain.CatalogRepository over one state map.
type catalogTable[T entity.Validatable] struct {
	store *Store
	name  string
	table func(*state) map[id.ID]T
	base  func(T) *entity.BaseCatalog
	clone func(T) T
}

func (c *catalogTable[T]) Create(ctx context.Context, item T) error {
	return c.store.view(ctx, func(st *state) error { return c.create(st, item) })
}

func (c *catalogTable[T]) create(st *state, item T) error {
	b := c.base(item)
	m := c.table(st)
	if _, ok := m[b.ID]; ok {
		return apperror.NewDuplicate(c.name, "id", b.ID.String())
	}
	for _, existing := range m {
		if strings.EqualFold(c.base(existing).Code, b.Code) {
			return apperror.NewDuplicate(c.name, "code", b.Code)
		}
	}
	m[b.ID] = c.clone(item)
	return nil
}

func (c *catalogTable[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	var out T
	err := c.store.view(ctx, func(st *state) error {
		var err error
		out, err = c.get(st, entityID)
		return err
	})
	return out, err
}

func (c *catalogTable[T]) get(st *state, entityID id.ID) (T, error) {
	item, ok := c.table(st)[entityID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(c.name, entityID.String())
	}
	return c.clone(item), nil
}

// Update stores item if its version matches, then bumps the version.
func (c *catalogTable[T]) Update(ctx context.Context, item T) error {
	return c.store.view(ctx, func(st *state) error {
		b := c.base(item)
		m := c.table(st)
		existing, ok := m[b.ID]
		if !ok {
			return apperror.NewNotFound(c.name, b.ID.String())
		}
		if c.base(existing).Version != b.Version {
			return apperror.NewConflict(c.name + " was modified concurrently").
				WithDetail("id", b.ID.String())
		}
		b.BumpVersion()
		m[b.ID] = c.clone(item)
		return nil
	})
}

func (c *catalogTable[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	var items []T
	err := c.store.view(ctx, func(st *state) error {
		ids := map[id.ID]bool{}
		for _, v := range filter.IDs {
			ids[v] = true
		}
		search := strings.ToLower(filter.Search)
		for _, item := range c.table(st) {
			b := c.base(item)
			if filter.OnlyActive && !b.IsActive {
				continue
			}
			if len(ids) > 0 && !ids[b.ID] {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(b.Code), search) &&
				!strings.Contains(strings.ToLower(b.Name), search) {
				continue
			}
			items = append(items, c.clone(item))
		}
		return nil
	})
	if err != nil {
		return domain.ListResult[T]{}, err
	}

	orderBy := strings.TrimPrefix(filter.OrderBy, "-")
	desc := strings.HasPrefix(filter.OrderBy, "-")
	sort.SliceStable(items, func(i, j int) bool {
		a, b := c.base(items[i]), c.base(items[j])
		var less bool
		switch orderBy {
		case "code":
			less = a.Code < b.Code
		case "name":
			less = a.Name < b.Name
		default:
			less = a.ID.String() < b.ID.String()
		}
		if desc {
			return !less
		}
		return less
	})

	return page(items, filter.Limit, filter.Offset), nil
}

// page slices items for limit/offset and reports the unpaged total.
func page[T any](items []T, limit, offset int) domain.ListResult[T] {
	res := domain.ListResult[T]{TotalCount: int64(len(items)), Limit: limit, Offset: offset}
	if offset >= len(items) {
		res.Items = []T{}
		return res
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	res.Items = items[offset:end]
	return res
}

// --- Parties ---

// PartyRepo stores parties with their gold and cash balance rows.
type PartyRepo struct {
	catalogTable[*party.Party]
}

var _ party.Repository = (*PartyRepo)(nil)

// Parties returns the party repository.
func (s *Store) Parties() *PartyRepo {
	return &PartyRepo{catalogTable[*party.Party]{
		store: s,
		name:  "party",
		table: func(st *state) map[id.ID]*party.Party { return st.parties },
		base:  func(p *party.Party) *entity.BaseCatalog { return &p.BaseCatalog },
		clone: func(p *party.Party) *party.Party {
			c := *p
			c.Gold = party.GoldBalance{}
			c.Cash = nil
			return &c
		},
	}}
}

func (r *PartyRepo) Create(ctx context.Context, p *party.Party) error {
	return r.store.view(ctx, func(st *state) error {
		if err := r.create(st, p); err != nil {
			return err
		}
		st.gold[p.ID] = party.GoldBalance{
			TotalGrams:   types.Zero(),
			TotalValue:   types.Zero(),
			DraftBalance: types.Zero(),
		}
		return nil
	})
}

func (r *PartyRepo) GetByID(ctx context.Context, partyID id.ID) (*party.Party, error) {
	var out *party.Party
	err := r.store.view(ctx, func(st *state) error {
		p, err := r.get(st, partyID)
		if err != nil {
			return err
		}
		p.Gold = st.gold[partyID]
		p.Cash = append([]party.CashBalance(nil), st.cash[partyID]...)
		out = p
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID; the store lock already serializes writers.
func (r *PartyRepo) GetForUpdate(ctx context.Context, partyID id.ID) (*party.Party, error) {
	return r.GetByID(ctx, partyID)
}

func (r *PartyRepo) IncrementGold(ctx context.Context, partyID id.ID, grams types.Grams, value types.Money) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.parties[partyID]; !ok {
			return apperror.NewNotFound("party", partyID.String())
		}
		now := r.store.now()
		g := st.gold[partyID]
		g.TotalGrams = g.TotalGrams.Add(grams)
		g.TotalValue = g.TotalValue.Add(value)
		g.LastUpdated = &now
		st.gold[partyID] = g
		return nil
	})
}

func (r *PartyRepo) IncrementDraft(ctx context.Context, partyID id.ID, grams types.Grams) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.parties[partyID]; !ok {
			return apperror.NewNotFound("party", partyID.String())
		}
		now := r.store.now()
		g := st.gold[partyID]
		g.DraftBalance = g.DraftBalance.Add(grams)
		g.LastUpdated = &now
		st.gold[partyID] = g
		return nil
	})
}

func (r *PartyRepo) EnsureCash(ctx context.Context, partyID id.ID, currency string) error {
	return r.store.view(ctx, func(st *state) error {
		p, ok := st.parties[partyID]
		if !ok {
			return apperror.NewNotFound("party", partyID.String())
		}
		for _, c := range st.cash[partyID] {
			if c.Currency == currency {
				return nil
			}
		}
		st.cash[partyID] = append(st.cash[partyID], party.CashBalance{
			Currency:    currency,
			Amount:      types.Zero(),
			IsDefault:   currency == p.Currency,
			LastUpdated: r.store.now(),
		})
		return nil
	})
}

func (r *PartyRepo) IncrementCash(ctx context.Context, partyID id.ID, currency string, amount types.Money) error {
	return r.store.view(ctx, func(st *state) error {
		rows := st.cash[partyID]
		for i := range rows {
			if rows[i].Currency == currency {
				rows[i].Amount = rows[i].Amount.Add(amount)
				rows[i].LastUpdated = r.store.now()
				return nil
			}
		}
		return apperror.NewNotFound("cash balance", partyID.String()+"/"+currency)
	})
}

// --- Branches, stocks, karats ---

// Branches returns the branch repository.
func (s *Store) Branches() branch.Repository {
	return &catalogTable[*branch.Branch]{
		store: s,
		name:  "branch",
		table: func(st *state) map[id.ID]*branch.Branch { return st.branches },
		base:  func(b *branch.Branch) *entity.BaseCatalog { return &b.BaseCatalog },
		clone: func(b *branch.Branch) *branch.Branch { c := *b; return &c },
	}
}

// Stocks returns the stock repository.
func (s *Store) Stocks() stock.Repository {
	return &catalogTable[*stock.Stock]{
		store: s,
		name:  "stock",
		table: func(st *state) map[id.ID]*stock.Stock { return st.stocks },
		base:  func(v *stock.Stock) *entity.BaseCatalog { return &v.BaseCatalog },
		clone: func(v *stock.Stock) *stock.Stock {
			c := *v
			if v.KaratID != nil {
				k := *v.KaratID
				c.KaratID = &k
			}
			return &c
		},
	}
}

// Karats returns the karat repository.
func (s *Store) Karats() stock.KaratRepository {
	return &catalogTable[*stock.Karat]{
		store: s,
		name:  "karat",
		table: func(st *state) map[id.ID]*stock.Karat { return st.karats },
		base:  func(k *stock.Karat) *entity.BaseCatalog { return &k.BaseCatalog },
		clone: func(k *stock.Karat) *stock.Karat { c := *k; return &c },
	}
}
