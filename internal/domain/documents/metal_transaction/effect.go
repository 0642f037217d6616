package metal_transaction

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bullionledger/internal/core/tx"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/registry"
)

// ledgerEffect is everything a stored transaction contributes to the
// registry, party balances and inventory. Apply and Compensate are derived
// from the same voucher state, so they cancel exactly.
type ledgerEffect struct {
	svc *Service
	doc *Transaction
}

var _ tx.Compensable = (*ledgerEffect)(nil)

func (s *Service) effect(doc *Transaction) *ledgerEffect {
	return &ledgerEffect{svc: s, doc: doc}
}

// project computes the entry set and the balance delta. Both are pure, so
// they run concurrently; the writes that follow share one connection and
// stay sequential.
func (e *ledgerEffect) project(ctx context.Context) ([]posting.Entry, posting.BalanceDelta, error) {
	in := e.doc.PostingInput()

	var (
		entries []posting.Entry
		delta   posting.BalanceDelta
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = posting.Build(in)
		return err
	})
	g.Go(func() error {
		var err error
		delta, err = posting.Delta(in)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, posting.BalanceDelta{}, err
	}
	return entries, delta, nil
}

// Apply writes registry rows, then the balance delta, then inventory.
// Registry goes first so inventory can resolve purity-difference direction.
func (e *ledgerEffect) Apply(ctx context.Context) error {
	entries, delta, err := e.project(ctx)
	if err != nil {
		return err
	}

	voucher := registry.Voucher{
		TransactionID: &e.doc.ID,
		Reference:     e.doc.Number,
		CostCenter:    e.svc.cfg.CostCenter,
	}
	if _, err := e.svc.registry.Record(ctx, voucher, entries); err != nil {
		return err
	}
	if err := e.svc.balances.Apply(ctx, delta); err != nil {
		return err
	}
	return e.svc.inventory.Apply(ctx, e.doc.Batch(e.svc.cfg.CostCenter))
}

// Compensate deletes the transaction's registry rows and inventory logs,
// reverts inventory and reverses the balance delta.
func (e *ledgerEffect) Compensate(ctx context.Context) error {
	delta, err := posting.Delta(e.doc.PostingInput())
	if err != nil {
		return err
	}

	if err := e.svc.registry.RemoveTransaction(ctx, e.doc.ID); err != nil {
		return err
	}
	if err := e.svc.inventory.RemoveTransaction(ctx, e.doc.ID); err != nil {
		return err
	}
	return e.svc.balances.Reverse(ctx, delta)
}
