// Package metal_transaction provides the metal transaction voucher and the
// orchestrator that keeps the registry, party balances and inventory in step with it.
package metal_transaction

import (
	"context"
	"fmt"
	"strings"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/numerator"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/inventory"
)

// Transaction is a metal purchase, sale or return voucher.
type Transaction struct {
	entity.Document

	Type  posting.TransactionType `db:"type" json:"type"`
	Fixed bool                    `db:"fixed" json:"fixed"`
	Unfix bool                    `db:"unfix" json:"unfix"`

	PartyID       id.ID  `db:"party_id" json:"partyId"`
	PartyCurrency string `db:"party_currency" json:"partyCurrency"`

	// Table parts, stored as jsonb
	Stocks       []posting.LineItem    `db:"stocks" json:"stocks"`
	OtherCharges []posting.OtherCharge `db:"other_charges" json:"otherCharges"`

	VAT     posting.VATPolicy `db:"vat" json:"vat"`
	Summary posting.Summary   `db:"summary" json:"summary"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// Variant returns the (type, mode) combination of the voucher.
func (t *Transaction) Variant() posting.Variant {
	return posting.NewVariant(t.Type, t.Fixed, t.Unfix)
}

// Totals aggregates the stock lines.
func (t *Transaction) Totals() posting.Totals {
	return posting.Aggregate(t.Stocks, t.Summary)
}

// PostingInput is the entry builder input for the voucher's current state.
func (t *Transaction) PostingInput() posting.Input {
	return posting.Input{
		Variant:      t.Variant(),
		PartyID:      t.PartyID,
		Currency:     t.PartyCurrency,
		Totals:       t.Totals(),
		VAT:          t.VAT,
		OtherCharges: t.OtherCharges,
	}
}

// Batch is the inventory movement batch for the voucher.
func (t *Transaction) Batch(costCenter string) inventory.Batch {
	b := inventory.Batch{
		TransactionID: &t.ID,
		PartyID:       t.PartyID,
		Reference:     t.Number,
		Direction:     t.Type.Direction(),
		CostCenter:    costCenter,
		Movements:     make([]inventory.Movement, 0, len(t.Stocks)),
	}
	for _, li := range t.Stocks {
		b.Movements = append(b.Movements, inventory.Movement{
			StockID:          li.StockID,
			Pieces:           li.Pieces,
			GrossWeight:      li.GrossWeight,
			Purity:           li.Purity,
			PurityDifference: li.PurityDifference,
		})
	}
	return b
}

// Prefix is the voucher number prefix for the transaction type.
func (t *Transaction) Prefix() string {
	switch t.Type {
	case posting.TypeSale:
		return numerator.PrefixSale
	case posting.TypePurchaseReturn:
		return numerator.PrefixPurchaseReturn
	case posting.TypeSaleReturn:
		return numerator.PrefixSaleReturn
	default:
		return numerator.PrefixPurchase
	}
}

// normalize upper-cases the currency and converts percent purities to fractions.
func (t *Transaction) normalize() {
	t.PartyCurrency = strings.ToUpper(strings.TrimSpace(t.PartyCurrency))
	for i := range t.Stocks {
		t.Stocks[i].Purity = types.NormalizePurity(t.Stocks[i].Purity)
		t.Stocks[i].StandardPurity = types.NormalizePurity(t.Stocks[i].StandardPurity)
	}
}

// Validate implements entity.Validatable.
func (t *Transaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	if !t.Type.Valid() {
		return apperror.NewValidation("invalid transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t.Type))
	}

	if id.IsNil(t.PartyID) {
		return apperror.NewValidation("party is required").
			WithDetail("field", "partyId")
	}

	if len(t.PartyCurrency) != 3 {
		return apperror.NewValidation("party currency must be a 3-letter code").
			WithDetail("field", "partyCurrency")
	}

	if len(t.Stocks) == 0 {
		return apperror.NewValidation("at least one stock line is required").
			WithDetail("field", "stocks")
	}

	for i, li := range t.Stocks {
		field := fmt.Sprintf("stocks[%d]", i)
		if id.IsNil(li.StockID) {
			return apperror.NewValidation("stock is required").
				WithDetail("field", field+".stockId")
		}
		if !li.GrossWeight.IsPositive() {
			return apperror.NewValidation("gross weight must be positive").
				WithDetail("field", field+".grossWeight")
		}
		if !types.ValidPurity(li.Purity) {
			return apperror.NewValidation("purity must be in (0, 1]").
				WithDetail("field", field+".purity").
				WithDetail("value", li.Purity.String())
		}
		if !li.StandardPurity.IsZero() && !types.ValidPurity(li.StandardPurity) {
			return apperror.NewValidation("standard purity must be in (0, 1]").
				WithDetail("field", field+".standardPurity")
		}
		if li.PureWeight.IsNegative() || li.Pieces < 0 {
			return apperror.NewValidation("weights and pieces cannot be negative").
				WithDetail("field", field)
		}
	}

	for i, oc := range t.OtherCharges {
		field := fmt.Sprintf("otherCharges[%d]", i)
		if id.IsNil(oc.DebitAccountID) || id.IsNil(oc.CreditAccountID) {
			return apperror.NewValidation("debit and credit accounts are required").
				WithDetail("field", field)
		}
		if oc.DebitAccountID == oc.CreditAccountID {
			return apperror.NewValidation("debit and credit accounts must differ").
				WithDetail("field", field)
		}
		if oc.Amount.IsNegative() {
			return apperror.NewValidation("charge amount cannot be negative").
				WithDetail("field", field+".amount")
		}
	}

	return nil
}

// clone copies the voucher deeply enough for an edit to leave the original untouched.
func (t *Transaction) clone() *Transaction {
	c := *t
	c.Stocks = append([]posting.LineItem(nil), t.Stocks...)
	c.OtherCharges = append([]posting.OtherCharge(nil), t.OtherCharges...)
	return &c
}
