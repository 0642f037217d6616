// Package drafting provides staged metal receipts whose ledger effects stay
// segregated in the party's draft balance until they are confirmed.
package drafting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// Status is the lifecycle state of a draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// PlaceholderCostCenter marks registry and log rows that are still in draft.
const PlaceholderCostCenter = "DRAFT"

// Drafting is a staged receipt of metal from a party.
type Drafting struct {
	entity.Document

	Status Status `db:"status" json:"status"`

	PartyID  id.ID  `db:"party_id" json:"partyId"`
	StockID  id.ID  `db:"stock_id" json:"stockId"`
	Currency string `db:"currency" json:"currency"`

	Pieces      int         `db:"pieces" json:"pieces"`
	GrossWeight types.Grams `db:"gross_weight" json:"grossWeight"`

	// Purity as a fraction; zero when not entered
	Purity types.Purity `db:"purity" json:"purity"`

	// PurityPercent is the percent-style fallback (e.g. 91.6)
	PurityPercent decimal.Decimal `db:"purity_percent" json:"purityPercent"`

	PureWeight types.Grams `db:"pure_weight" json:"pureWeight"`

	// DraftBalanceWeight is the weight currently parked in the party's draft balance
	DraftBalanceWeight types.Grams `db:"draft_balance_weight" json:"draftBalanceWeight"`

	// ConfirmedWeight is the weight currently in the party's gold balance
	ConfirmedWeight types.Grams `db:"confirmed_weight" json:"confirmedWeight"`

	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	RejectedAt  *time.Time `db:"rejected_at" json:"rejectedAt,omitempty"`
}

// Validate implements entity.Validatable.
func (d *Drafting) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(d.PartyID) {
		return apperror.NewValidation("party is required").WithDetail("field", "partyId")
	}
	if id.IsNil(d.StockID) {
		return apperror.NewValidation("stock is required").WithDetail("field", "stockId")
	}
	if !d.GrossWeight.IsPositive() {
		return apperror.NewValidation("gross weight must be positive").WithDetail("field", "grossWeight")
	}
	if d.Pieces < 0 {
		return apperror.NewValidation("pieces cannot be negative").WithDetail("field", "pieces")
	}
	if !d.Purity.IsZero() && !types.ValidPurity(d.Purity) {
		return apperror.NewValidation("purity must be in (0, 1]").WithDetail("field", "purity")
	}
	return nil
}

// ResolvePurity returns the first usable purity among the draft's own value,
// its percent field and the given stock fallbacks. Each candidate is
// normalized from percent to fraction; zero means none was usable.
func (d *Drafting) ResolvePurity(fallbacks ...types.Purity) types.Purity {
	candidates := append([]types.Purity{d.Purity, d.PurityPercent}, fallbacks...)
	for _, c := range candidates {
		if p := types.NormalizePurity(c); types.ValidPurity(p) {
			return p
		}
	}
	return decimal.Zero
}

// transition checks that action is allowed from the current status.
func (d *Drafting) transition(action string, allowed ...Status) error {
	for _, s := range allowed {
		if d.Status == s {
			return nil
		}
	}
	return apperror.NewInvalidState("draft", string(d.Status), action)
}
