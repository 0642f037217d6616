package posting

import (
	"github.com/shopspring/decimal"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// MetalRate is the rate applied to an item's pure weight.
type MetalRate struct {
	Rate   types.Money `json:"rate"`
	Amount types.Money `json:"amount"`
}

// ChargeSpec is a making-charge specification.
type ChargeSpec struct {
	Rate   types.Money `json:"rate"`
	Amount types.Money `json:"amount"`
}

// PremiumSpec carries a signed premium: positive is a premium, negative a discount.
type PremiumSpec struct {
	Rate   types.Money `json:"rate"`
	Amount types.Money `json:"amount"`
}

// VATSpec is a tax specification. Percentage is in percent (5 = 5%).
type VATSpec struct {
	Percentage decimal.Decimal `json:"percentage"`
	Amount     types.Money     `json:"amount"`
}

// LineItem is one stock line of a metal transaction.
type LineItem struct {
	StockID            id.ID        `json:"stockId" validate:"required"`
	Description        string       `json:"description,omitempty"`
	Pieces             int          `json:"pieces" validate:"gte=0"`
	GrossWeight        types.Grams  `json:"grossWeight"`
	Purity             types.Purity `json:"purity"`
	PureWeight         types.Grams  `json:"pureWeight"`
	StandardPurity     types.Purity `json:"standardPurity"`
	StandardPureWeight types.Grams  `json:"standardPureWeight"`
	PurityDifference   types.Grams  `json:"purityDifference"`
	PassPurityDiff     bool         `json:"passPurityDiff"`
	MetalRate          MetalRate    `json:"metalRate"`
	MakingCharges      ChargeSpec   `json:"makingCharges"`
	Premium            PremiumSpec  `json:"premium"`
	VAT                VATSpec      `json:"vat"`
}

// EffectivePureWeight is the pure weight credited to the party for this line.
//
// The standard-purity weight is used only when the line passes the purity
// difference through, no difference exists and a standard weight is present.
// Otherwise the as-entered pure weight applies, derived from gross × purity
// when it was left empty.
func (li LineItem) EffectivePureWeight() types.Grams {
	if li.PassPurityDiff && li.PurityDifference.IsZero() && !li.StandardPureWeight.IsZero() {
		return li.StandardPureWeight
	}
	if !li.PureWeight.IsZero() {
		return li.PureWeight
	}
	return types.PureWeight(li.GrossWeight, li.Purity)
}

// PhysicalPureWeight is the metal content that physically moves: gross × purity.
func (li LineItem) PhysicalPureWeight() types.Grams {
	return types.PureWeight(li.GrossWeight, li.Purity)
}

// GoldValue is the priced value of the line's metal.
func (li LineItem) GoldValue() types.Money {
	if !li.MetalRate.Amount.IsZero() {
		return li.MetalRate.Amount
	}
	return li.MetalRate.Rate.Mul(li.EffectivePureWeight())
}

// OtherCharge is a pass-through charge between two accounts (parties).
type OtherCharge struct {
	Description     string      `json:"description,omitempty"`
	DebitAccountID  id.ID       `json:"debitAccountId" validate:"required"`
	CreditAccountID id.ID       `json:"creditAccountId" validate:"required"`
	Amount          types.Money `json:"amount"`
	VAT             VATSpec     `json:"vat"`
}

// VATAmount resolves the charge's VAT: the explicit amount, else the percentage of Amount.
func (oc OtherCharge) VATAmount() types.Money {
	if !oc.VAT.Amount.IsZero() {
		return oc.VAT.Amount
	}
	return types.Percent(oc.Amount, oc.VAT.Percentage)
}

// VATPolicy controls the transaction-level VAT pair.
type VATPolicy struct {
	// OnMaking bases percentage VAT on making charges instead of gold value
	OnMaking bool `json:"vatOnMaking"`
	// Exclude suppresses the VAT pair entirely
	Exclude bool `json:"excludeVat"`
	// Percentage applies when items carry no VAT amounts
	Percentage decimal.Decimal `json:"vatPercentage"`
}

// Summary holds the figures entered for the whole transaction.
type Summary struct {
	TotalAmount types.Money `json:"totalAmount"`
	FXGainLoss  types.Money `json:"fxGainLoss"`
}
