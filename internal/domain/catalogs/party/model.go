// Package party provides the Party catalog: customers, suppliers and
// other-charge accounts, with their gold and cash balances embedded.
package party

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/types"
)

// Kind classifies a party.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
	KindAccount  Kind = "account" // other-charge ledger account
)

// GoldBalance is the party's metal position.
type GoldBalance struct {
	// TotalGrams is the confirmed pure-gold balance
	TotalGrams types.Grams `db:"gold_total_grams" json:"totalGrams"`

	// TotalValue is the priced value of TotalGrams
	TotalValue types.Money `db:"gold_total_value" json:"totalValue"`

	// DraftBalance holds weight parked by unconfirmed drafts
	DraftBalance types.Grams `db:"gold_draft_balance" json:"draftBalance"`

	LastUpdated *time.Time `db:"gold_last_updated" json:"lastUpdated,omitempty"`
}

// CashBalance is one currency row. At most one row per currency.
type CashBalance struct {
	Currency    string      `db:"currency" json:"currency"`
	Amount      types.Money `db:"amount" json:"amount"`
	IsDefault   bool        `db:"is_default" json:"isDefault"`
	LastUpdated time.Time   `db:"last_updated" json:"lastUpdated"`
}

// Party is a trading counterparty or an internal account.
type Party struct {
	entity.BaseCatalog

	Kind Kind `db:"kind" json:"kind"`

	// Currency is the default settlement currency (ISO 4217)
	Currency string `db:"currency" json:"currency"`

	Gold GoldBalance `db:"-" json:"gold"`

	Cash []CashBalance `db:"-" json:"cash"`
}

// NewParty creates an active party.
func NewParty(code, name string, kind Kind, currency string) *Party {
	return &Party{
		BaseCatalog: entity.NewBaseCatalog(code, name),
		Kind:        kind,
		Currency:    strings.ToUpper(currency),
		Gold: GoldBalance{
			TotalGrams:   decimal.Zero,
			TotalValue:   decimal.Zero,
			DraftBalance: decimal.Zero,
		},
	}
}

// Validate implements entity.Validatable interface.
func (p *Party) Validate(ctx context.Context) error {
	if err := p.BaseCatalog.Validate(ctx); err != nil {
		return err
	}

	switch p.Kind {
	case KindCustomer, KindSupplier, KindAccount:
	default:
		return apperror.NewValidation("invalid party kind").
			WithDetail("field", "kind").
			WithDetail("value", string(p.Kind))
	}

	if len(p.Currency) != 3 {
		return apperror.NewValidation("currency must be a 3-letter code").
			WithDetail("field", "currency")
	}
	return nil
}

// CashIn returns the balance in currency, zero if the row does not exist.
func (p *Party) CashIn(currency string) types.Money {
	for _, c := range p.Cash {
		if c.Currency == currency {
			return c.Amount
		}
	}
	return decimal.Zero
}
