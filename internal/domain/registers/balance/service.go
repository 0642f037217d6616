// Package balance applies signed deltas to party gold and cash balances.
package balance

import (
	"context"
	"fmt"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/posting"
	"bullionledger/pkg/logger"
)

// Repository is the balance side of the party store.
type Repository interface {
	GetForUpdate(ctx context.Context, id id.ID) (*party.Party, error)
	IncrementGold(ctx context.Context, partyID id.ID, grams types.Grams, value types.Money) error
	IncrementDraft(ctx context.Context, partyID id.ID, grams types.Grams) error
	EnsureCash(ctx context.Context, partyID id.ID, currency string) error
	IncrementCash(ctx context.Context, partyID id.ID, currency string, amount types.Money) error
}

// Config tunes balance behaviour.
type Config struct {
	// GuardNegativeOnReversal rejects reversals that would leave a balance below zero.
	GuardNegativeOnReversal bool
}

// Service is the Balance Updater. Transactions are managed by the caller.
type Service struct {
	repo Repository
	cfg  Config
}

// NewService creates a new balance service.
func NewService(repo Repository, cfg Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// IncrementGold adds grams and value to the confirmed gold balance.
func (s *Service) IncrementGold(ctx context.Context, partyID id.ID, grams types.Grams, value types.Money) error {
	if grams.IsZero() && value.IsZero() {
		return nil
	}
	if err := s.repo.IncrementGold(ctx, partyID, grams, value); err != nil {
		return fmt.Errorf("increment gold balance: %w", err)
	}
	return nil
}

// IncrementDraft adds grams to the draft balance.
func (s *Service) IncrementDraft(ctx context.Context, partyID id.ID, grams types.Grams) error {
	if grams.IsZero() {
		return nil
	}
	if err := s.repo.IncrementDraft(ctx, partyID, grams); err != nil {
		return fmt.Errorf("increment draft balance: %w", err)
	}
	return nil
}

// IncrementCash ensures the currency row exists, then adds amount.
func (s *Service) IncrementCash(ctx context.Context, partyID id.ID, currency string, amount types.Money) error {
	if err := s.repo.EnsureCash(ctx, partyID, currency); err != nil {
		return fmt.Errorf("ensure cash row %s: %w", currency, err)
	}
	if amount.IsZero() {
		return nil
	}
	if err := s.repo.IncrementCash(ctx, partyID, currency, amount); err != nil {
		return fmt.Errorf("increment cash %s: %w", currency, err)
	}
	return nil
}

// Promote moves grams from the draft balance into the confirmed balance.
func (s *Service) Promote(ctx context.Context, partyID id.ID, grams types.Grams) error {
	if err := s.IncrementDraft(ctx, partyID, grams.Neg()); err != nil {
		return err
	}
	return s.IncrementGold(ctx, partyID, grams, types.Zero())
}

// Demote moves grams from the confirmed balance back into the draft balance.
func (s *Service) Demote(ctx context.Context, partyID id.ID, grams types.Grams) error {
	if err := s.IncrementGold(ctx, partyID, grams.Neg(), types.Zero()); err != nil {
		return err
	}
	return s.IncrementDraft(ctx, partyID, grams)
}

// Apply writes a transaction's balance delta.
func (s *Service) Apply(ctx context.Context, d posting.BalanceDelta) error {
	if err := s.IncrementGold(ctx, d.PartyID, d.Gold, d.GoldValue); err != nil {
		return err
	}
	if err := s.IncrementCash(ctx, d.PartyID, d.Currency, d.Cash); err != nil {
		return err
	}
	for _, a := range d.Accounts {
		if err := s.IncrementCash(ctx, a.PartyID, a.Currency, a.Cash); err != nil {
			return err
		}
	}

	logger.Debug(ctx, "applied balance delta",
		"party_id", d.PartyID,
		"gold", d.Gold.String(),
		"cash", d.Cash.String(),
		"accounts", len(d.Accounts),
	)
	return nil
}

// Reverse writes the negation of d. With the guard on, it first checks that
// no touched balance would go below zero.
func (s *Service) Reverse(ctx context.Context, d posting.BalanceDelta) error {
	neg := d.Negate()
	if s.cfg.GuardNegativeOnReversal {
		if err := s.checkNonNegative(ctx, neg); err != nil {
			return err
		}
	}
	return s.Apply(ctx, neg)
}

func (s *Service) checkNonNegative(ctx context.Context, d posting.BalanceDelta) error {
	type key struct {
		party    id.ID
		currency string
	}
	cash := map[key]types.Money{{d.PartyID, d.Currency}: d.Cash}
	for _, a := range d.Accounts {
		k := key{a.PartyID, a.Currency}
		cash[k] = cash[k].Add(a.Cash)
	}

	loaded := map[id.ID]*party.Party{}
	load := func(partyID id.ID) (*party.Party, error) {
		if p, ok := loaded[partyID]; ok {
			return p, nil
		}
		p, err := s.repo.GetForUpdate(ctx, partyID)
		if err != nil {
			return nil, apperror.Persist("load party balance", err)
		}
		loaded[partyID] = p
		return p, nil
	}

	if d.Gold.IsNegative() {
		p, err := load(d.PartyID)
		if err != nil {
			return err
		}
		if p.Gold.TotalGrams.Add(d.Gold).IsNegative() {
			return apperror.NewInsufficientBalance(d.PartyID.String(), "gold",
				p.Gold.TotalGrams.String(), d.Gold.String())
		}
	}

	for k, delta := range cash {
		if !delta.IsNegative() {
			continue
		}
		p, err := load(k.party)
		if err != nil {
			return err
		}
		current := p.CashIn(k.currency)
		if current.Add(delta).IsNegative() {
			return apperror.NewInsufficientBalance(k.party.String(), "cash:"+k.currency,
				current.String(), delta.String())
		}
	}
	return nil
}
