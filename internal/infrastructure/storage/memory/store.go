// Package memory provides an in-process implementation of every repository,
// with a snapshot-based unit of work. It backs tests and the --memory mode
// of the server.
package memory

import (
	"context"
	"sync"
	"time"

	"bullionledger/internal/app"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/numerator"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/domain/audit"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/events"
	"bullionledger/internal/domain/pricelock"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
)

var _ tx.Manager = (*Store)(nil)

// state is everything a unit of work can roll back. Map values are
// replaced on write, never mutated, so a shallow map copy is a snapshot.
type state struct {
	parties  map[id.ID]*party.Party
	gold     map[id.ID]party.GoldBalance
	cash     map[id.ID][]party.CashBalance
	branches map[id.ID]*branch.Branch
	stocks   map[id.ID]*stock.Stock
	karats   map[id.ID]*stock.Karat

	entries   []registry.Entry
	inventory map[id.ID]inventory.Inventory
	logs      []inventory.Log

	transactions map[id.ID]*metal_transaction.Transaction
	drafts       map[id.ID]*drafting.Drafting

	audit  []audit.Entry
	events []events.Event
}

func newState() *state {
	return &state{
		parties:      map[id.ID]*party.Party{},
		gold:         map[id.ID]party.GoldBalance{},
		cash:         map[id.ID][]party.CashBalance{},
		branches:     map[id.ID]*branch.Branch{},
		stocks:       map[id.ID]*stock.Stock{},
		karats:       map[id.ID]*stock.Karat{},
		inventory:    map[id.ID]inventory.Inventory{},
		transactions: map[id.ID]*metal_transaction.Transaction{},
		drafts:       map[id.ID]*drafting.Drafting{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) snapshot() *state {
	cash := make(map[id.ID][]party.CashBalance, len(s.cash))
	for k, v := range s.cash {
		cash[k] = append([]party.CashBalance(nil), v...)
	}
	return &state{
		parties:      copyMap(s.parties),
		gold:         copyMap(s.gold),
		cash:         cash,
		branches:     copyMap(s.branches),
		stocks:       copyMap(s.stocks),
		karats:       copyMap(s.karats),
		entries:      append([]registry.Entry(nil), s.entries...),
		inventory:    copyMap(s.inventory),
		logs:         append([]inventory.Log(nil), s.logs...),
		transactions: copyMap(s.transactions),
		drafts:       copyMap(s.drafts),
		audit:        append([]audit.Entry(nil), s.audit...),
		events:       append([]events.Event(nil), s.events...),
	}
}

// Store holds the state and serializes units of work.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time

	// price locks are written after commit and are never rolled back
	locksMu sync.Mutex
	locks   []pricelock.Lock
}

// New creates an empty store.
func New() *Store {
	return &Store{
		st:  newState(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// txKey is the context key for an active unit of work.
type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// RunInTransaction runs fn holding the store lock. Every change fn makes is
// discarded if it returns an error or panics. Nested calls reuse the outer
// unit of work.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.st = snap
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}

// view runs fn against the live state, taking the lock unless the caller
// already holds it through a unit of work.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if inTx(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// AuditEntries returns every committed audit entry.
func (s *Store) AuditEntries() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Entry(nil), s.st.audit...)
}

// Events returns every committed outbox event.
func (s *Store) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event(nil), s.st.events...)
}

// Entries returns every registry row.
func (s *Store) Entries() []registry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]registry.Entry(nil), s.st.entries...)
}

// Repositories returns every repository of the store, numbered by gen.
func (s *Store) Repositories(gen numerator.Generator) app.Repositories {
	return app.Repositories{
		TxManager:    s,
		Parties:      s.Parties(),
		Branches:     s.Branches(),
		Stocks:       s.Stocks(),
		Karats:       s.Karats(),
		Registry:     s.Registry(),
		Inventory:    s.Inventory(),
		Transactions: s.Transactions(),
		Drafts:       s.Drafts(),
		PriceLocks:   s.PriceLocks(),
		Audit:        s.Audit(),
		Outbox:       s.Outbox(),
		Numerator:    gen,
	}
}
