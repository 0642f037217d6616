// Package pricelock records pricing locks for fixed purchases and sales.
//
// A lock is an informational side record. It is written after the
// transaction commits, on its own connection, and a failed write is
// logged and dropped.
package pricelock

import (
	"context"
	"sync"
	"time"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/posting"
	"bullionledger/pkg/logger"
)

// Lock is a price locked against a market rate.
type Lock struct {
	ID            id.ID                   `db:"id" json:"id"`
	TransactionID id.ID                   `db:"transaction_id" json:"transactionId"`
	Reference     string                  `db:"reference" json:"reference"`
	PartyID       id.ID                   `db:"party_id" json:"partyId"`
	Type          posting.TransactionType `db:"type" json:"type"`
	PureWeight    types.Grams             `db:"pure_weight" json:"pureWeight"`
	Rate          types.Money             `db:"rate" json:"rate"`
	Amount        types.Money             `db:"amount" json:"amount"`
	Currency      string                  `db:"currency" json:"currency"`
	CreatedBy     string                  `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time               `db:"created_at" json:"createdAt"`
}

// Repository stores locks.
type Repository interface {
	Create(ctx context.Context, lock Lock) error
}

// Recorder writes locks in the background.
type Recorder struct {
	repo    Repository
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder. A zero timeout defaults to 10s.
func NewRecorder(repo Repository, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Recorder{repo: repo, timeout: timeout}
}

// Record starts writing lock and returns immediately. The write outlives
// the caller's request; its errors are only logged.
func (r *Recorder) Record(ctx context.Context, lock Lock) {
	if id.IsNil(lock.ID) {
		lock.ID = id.New()
	}
	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		defer func() {
			if p := recover(); p != nil {
				logger.Error(ctx, "pricing lock write panicked",
					"transaction_id", lock.TransactionID,
					"panic", p,
				)
			}
		}()

		if err := r.repo.Create(ctx, lock); err != nil {
			logger.Error(ctx, "pricing lock write failed",
				"transaction_id", lock.TransactionID,
				"reference", lock.Reference,
				"error", err,
			)
			return
		}
		logger.Debug(ctx, "pricing lock recorded", "reference", lock.Reference)
	}()
}

// Wait blocks until every in-flight write has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
