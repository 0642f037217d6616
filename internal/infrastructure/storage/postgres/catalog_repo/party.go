package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const (
	partyTable = "cat_parties"
	goldTable  = "party_gold_balances"
	cashTable  = "party_cash_balances"
)

// PartyRepo implements party.Repository. Balances live in their own tables
// keyed by party and are attached on every read.
type PartyRepo struct {
	*BaseCatalogRepo[*party.Party]
}

var _ party.Repository = (*PartyRepo)(nil)

// NewPartyRepo creates a new party repository.
func NewPartyRepo(txManager *postgres.TxManager) *PartyRepo {
	return &PartyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager, partyTable, "party",
			postgres.ExtractDBColumns[party.Party](),
			func() *party.Party { return &party.Party{} },
			func(p *party.Party) *entity.BaseCatalog { return &p.BaseCatalog },
		),
	}
}

// Create inserts the party and its zero gold balance row.
func (r *PartyRepo) Create(ctx context.Context, p *party.Party) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Create(ctx, p); err != nil {
			return err
		}
		_, err := r.querier(ctx).Exec(ctx, `
			INSERT INTO `+goldTable+` (party_id, total_grams, total_value, draft_balance)
			VALUES ($1, 0, 0, 0)
		`, p.ID)
		if err != nil {
			return fmt.Errorf("insert gold balance: %w", err)
		}
		return nil
	})
}

// GetByID retrieves the party with its balances.
func (r *PartyRepo) GetByID(ctx context.Context, partyID id.ID) (*party.Party, error) {
	p, err := r.BaseCatalogRepo.GetByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	return p, r.attachBalances(ctx, p, false)
}

// GetForUpdate locks the party row and its balance rows.
func (r *PartyRepo) GetForUpdate(ctx context.Context, partyID id.ID) (*party.Party, error) {
	p, err := r.BaseCatalogRepo.GetForUpdate(ctx, partyID)
	if err != nil {
		return nil, err
	}
	return p, r.attachBalances(ctx, p, true)
}

func (r *PartyRepo) attachBalances(ctx context.Context, p *party.Party, lock bool) error {
	goldQ := r.Builder().
		Select(
			"total_grams AS gold_total_grams",
			"total_value AS gold_total_value",
			"draft_balance AS gold_draft_balance",
			"last_updated AS gold_last_updated",
		).
		From(goldTable).
		Where(squirrel.Eq{"party_id": p.ID})
	if lock {
		goldQ = goldQ.Suffix("FOR UPDATE")
	}
	sql, args, err := goldQ.ToSql()
	if err != nil {
		return fmt.Errorf("build gold balance query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.querier(ctx), &p.Gold, sql, args...); err != nil {
		if !pgxscan.NotFound(err) {
			return fmt.Errorf("get gold balance: %w", err)
		}
		p.Gold = party.GoldBalance{TotalGrams: types.Zero(), TotalValue: types.Zero(), DraftBalance: types.Zero()}
	}

	cashQ := r.Builder().
		Select("currency", "amount", "is_default", "last_updated").
		From(cashTable).
		Where(squirrel.Eq{"party_id": p.ID}).
		OrderBy("is_default DESC", "currency")
	if lock {
		cashQ = cashQ.Suffix("FOR UPDATE")
	}
	sql, args, err = cashQ.ToSql()
	if err != nil {
		return fmt.Errorf("build cash balance query: %w", err)
	}
	p.Cash = nil
	if err := pgxscan.Select(ctx, r.querier(ctx), &p.Cash, sql, args...); err != nil {
		return fmt.Errorf("list cash balances: %w", err)
	}
	return nil
}

// IncrementGold adds deltas to the gold balance.
func (r *PartyRepo) IncrementGold(ctx context.Context, partyID id.ID, grams types.Grams, value types.Money) error {
	tag, err := r.querier(ctx).Exec(ctx, `
		UPDATE `+goldTable+`
		SET total_grams = total_grams + $2,
		    total_value = total_value + $3,
		    last_updated = $4
		WHERE party_id = $1
	`, partyID, grams, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment gold balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("party", partyID.String())
	}
	return nil
}

// IncrementDraft adds grams to the draft balance.
func (r *PartyRepo) IncrementDraft(ctx context.Context, partyID id.ID, grams types.Grams) error {
	tag, err := r.querier(ctx).Exec(ctx, `
		UPDATE `+goldTable+`
		SET draft_balance = draft_balance + $2,
		    last_updated = $3
		WHERE party_id = $1
	`, partyID, grams, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment draft balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("party", partyID.String())
	}
	return nil
}

// EnsureCash creates a zero cash row for currency if it is absent.
func (r *PartyRepo) EnsureCash(ctx context.Context, partyID id.ID, currency string) error {
	tag, err := r.querier(ctx).Exec(ctx, `
		INSERT INTO `+cashTable+` (party_id, currency, amount, is_default, last_updated)
		SELECT p.id, $2, 0, p.currency = $2, $3
		FROM `+partyTable+` p
		WHERE p.id = $1
		ON CONFLICT (party_id, currency) DO NOTHING
	`, partyID, currency, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ensure cash balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.querier(ctx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM `+partyTable+` WHERE id = $1)`, partyID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check party: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("party", partyID.String())
		}
	}
	return nil
}

// IncrementCash adds amount to an existing cash row.
func (r *PartyRepo) IncrementCash(ctx context.Context, partyID id.ID, currency string, amount types.Money) error {
	tag, err := r.querier(ctx).Exec(ctx, `
		UPDATE `+cashTable+`
		SET amount = amount + $3,
		    last_updated = $4
		WHERE party_id = $1 AND currency = $2
	`, partyID, currency, amount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment cash balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("cash balance", partyID.String()+"/"+currency)
	}
	return nil
}
