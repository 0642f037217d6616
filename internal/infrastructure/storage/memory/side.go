package memory

import (
	"context"

	appctx "bullionledger/internal/core/context"
	"bullionledger/internal/domain/audit"
	"bullionledger/internal/domain/events"
	"bullionledger/internal/domain/pricelock"
)

// AuditRecorder appends audit entries to the store.
type AuditRecorder struct {
	store *Store
}

var _ audit.Recorder = (*AuditRecorder)(nil)

// Audit returns the audit recorder.
func (s *Store) Audit() *AuditRecorder {
	return &AuditRecorder{store: s}
}

func (r *AuditRecorder) Record(ctx context.Context, entry audit.Entry) error {
	if entry.UserID == "" {
		entry.UserID = appctx.ActorID(ctx)
	}
	return r.store.view(ctx, func(st *state) error {
		st.audit = append(st.audit, entry)
		return nil
	})
}

// Outbox appends events to the store.
type Outbox struct {
	store *Store
}

var _ events.Publisher = (*Outbox)(nil)

// Outbox returns the outbox publisher.
func (s *Store) Outbox() *Outbox {
	return &Outbox{store: s}
}

func (o *Outbox) Publish(ctx context.Context, event events.Event) error {
	return o.store.view(ctx, func(st *state) error {
		st.events = append(st.events, event)
		return nil
	})
}

// PriceLockRepo stores price locks outside any unit of work.
type PriceLockRepo struct {
	store *Store
}

var _ pricelock.Repository = (*PriceLockRepo)(nil)

// PriceLocks returns the price lock repository.
func (s *Store) PriceLocks() *PriceLockRepo {
	return &PriceLockRepo{store: s}
}

func (r *PriceLockRepo) Create(_ context.Context, lock pricelock.Lock) error {
	r.store.locksMu.Lock()
	defer r.store.locksMu.Unlock()
	r.store.locks = append(r.store.locks, lock)
	return nil
}

// Locks returns every recorded price lock.
func (r *PriceLockRepo) Locks() []pricelock.Lock {
	r.store.locksMu.Lock()
	defer r.store.locksMu.Unlock()
	return append([]pricelock.Lock(nil), r.store.locks...)
}
