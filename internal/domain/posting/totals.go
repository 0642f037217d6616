package posting

import (
	"github.com/shopspring/decimal"

	"bullionledger/internal/core/types"
)

// Totals is the aggregate of a transaction's line items.
type Totals struct {
	PureWeight            types.Grams `json:"pureWeight"`
	GrossWeight           types.Grams `json:"grossWeight"`
	PhysicalPureWeight    types.Grams `json:"physicalPureWeight"`
	Pieces                int         `json:"pieces"`
	Making                types.Money `json:"making"`
	Premium               types.Money `json:"premium"`
	Discount              types.Money `json:"discount"`
	VAT                   types.Money `json:"vat"`
	GoldValue             types.Money `json:"goldValue"`
	PurityDifference      types.Grams `json:"purityDifference"`
	PurityDifferenceValue types.Money `json:"purityDifferenceValue"`
	FXGainLoss            types.Money `json:"fxGainLoss"`
	TotalAmount           types.Money `json:"totalAmount"`
}

// Aggregate reduces line items and the summary into Totals.
func Aggregate(items []LineItem, summary Summary) Totals {
	t := Totals{
		FXGainLoss:  summary.FXGainLoss,
		TotalAmount: summary.TotalAmount,
	}

	for _, li := range items {
		t.PureWeight = t.PureWeight.Add(li.EffectivePureWeight())
		t.GrossWeight = t.GrossWeight.Add(li.GrossWeight)
		t.PhysicalPureWeight = t.PhysicalPureWeight.Add(li.PhysicalPureWeight())
		t.Pieces += li.Pieces
		t.Making = t.Making.Add(li.MakingCharges.Amount)
		t.VAT = t.VAT.Add(li.VAT.Amount)
		t.GoldValue = t.GoldValue.Add(li.GoldValue())

		switch p := li.Premium.Amount; {
		case p.IsPositive():
			t.Premium = t.Premium.Add(p)
		case p.IsNegative():
			t.Discount = t.Discount.Add(p.Abs())
		}

		t.PurityDifference = t.PurityDifference.Add(li.PurityDifference)
		t.PurityDifferenceValue = t.PurityDifferenceValue.Add(li.PurityDifference.Mul(li.MetalRate.Rate))
	}

	return t
}

// EffectiveVAT is the VAT booked for the transaction.
// It is shared by the entry builder and the balance projection.
func EffectiveVAT(t Totals, p VATPolicy) types.Money {
	if p.Exclude {
		return decimal.Zero
	}
	if !t.VAT.IsZero() {
		return t.VAT
	}
	if p.Percentage.IsZero() {
		return decimal.Zero
	}
	base := t.GoldValue
	if p.OnMaking {
		base = t.Making
	}
	return types.Percent(base, p.Percentage)
}
