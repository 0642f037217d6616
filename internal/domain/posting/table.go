package posting

import (
	"github.com/shopspring/decimal"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// Effect holds the signed multipliers a variant applies to the party balance
// for each aggregate component. Positive means the house owes the party more.
type Effect struct {
	Gold        int
	GoldValue   int
	Making      int
	Premium     int
	Discount    int
	VAT         int
	FX          int
	TotalAmount int
}

type variantDef struct {
	build  func(*ledger)
	effect Effect
}

var (
	openInbound  = Effect{Gold: 1, GoldValue: 1, Making: 1, Premium: 1, Discount: -1, VAT: 1, FX: -1}
	openOutbound = Effect{Gold: -1, GoldValue: -1, Making: -1, Premium: -1, Discount: 1, VAT: -1, FX: -1}
)

// table is the single source of truth for both projections of a variant:
// the registry routine and the balance effect. Keep rows paired.
var table = map[Variant]variantDef{
	{TypePurchase, ModeUnfix}:       {purchaseUnfixed, openInbound},
	{TypePurchase, ModeFix}:         {purchaseFixed, Effect{TotalAmount: 1}},
	{TypeSale, ModeUnfix}:           {saleUnfixed, openOutbound},
	{TypeSale, ModeFix}:             {saleFixed, Effect{TotalAmount: -1}},
	{TypePurchaseReturn, ModeUnfix}: {purchaseReturnUnfixed, openOutbound},
	{TypePurchaseReturn, ModeFix}:   {purchaseReturnFixed, Effect{TotalAmount: -1}},
	{TypeSaleReturn, ModeUnfix}:     {saleReturnUnfixed, openInbound},
	{TypeSaleReturn, ModeFix}:       {saleReturnFixed, Effect{TotalAmount: 1}},
}

// EffectOf returns the balance effect row for v.
func EffectOf(v Variant) (Effect, bool) {
	def, ok := table[v]
	return def.effect, ok
}

// AccountDelta is a cash movement on an other-charge account.
type AccountDelta struct {
	PartyID  id.ID
	Currency string
	Cash     types.Money
}

// BalanceDelta is the signed change a transaction applies to party balances.
type BalanceDelta struct {
	PartyID   id.ID
	Currency  string
	Gold      types.Grams
	GoldValue types.Money
	Cash      types.Money
	Accounts  []AccountDelta
}

// Negate returns the delta that undoes d.
func (d BalanceDelta) Negate() BalanceDelta {
	out := BalanceDelta{
		PartyID:   d.PartyID,
		Currency:  d.Currency,
		Gold:      d.Gold.Neg(),
		GoldValue: d.GoldValue.Neg(),
		Cash:      d.Cash.Neg(),
	}
	for _, a := range d.Accounts {
		out.Accounts = append(out.Accounts, AccountDelta{PartyID: a.PartyID, Currency: a.Currency, Cash: a.Cash.Neg()})
	}
	return out
}

// Delta projects the effect table over in. Components the builder would
// suppress are left out here as well, so both projections agree row for row.
func Delta(in Input) (BalanceDelta, error) {
	def, ok := table[in.Variant]
	if !ok {
		return BalanceDelta{}, apperror.NewValidation("unsupported transaction variant").
			WithDetail("variant", in.Variant.String())
	}
	e := def.effect
	t := in.Totals

	d := BalanceDelta{PartyID: in.PartyID, Currency: in.Currency}

	if t.PureWeight.IsPositive() {
		d.Gold = times(e.Gold, t.PureWeight)
		d.GoldValue = times(e.GoldValue, t.GoldValue)
	}

	d.Cash = times(e.Making, positive(t.Making)).
		Add(times(e.Premium, positive(t.Premium))).
		Add(times(e.Discount, positive(t.Discount))).
		Add(times(e.VAT, positive(EffectiveVAT(t, in.VAT)))).
		Add(times(e.FX, t.FXGainLoss)).
		Add(times(e.TotalAmount, positive(t.TotalAmount)))

	for _, oc := range in.OtherCharges {
		amt := positive(oc.Amount).Add(positive(oc.VATAmount()))
		if amt.IsZero() {
			continue
		}
		d.Accounts = append(d.Accounts,
			AccountDelta{PartyID: oc.DebitAccountID, Currency: in.Currency, Cash: amt.Neg()},
			AccountDelta{PartyID: oc.CreditAccountID, Currency: in.Currency, Cash: amt},
		)
	}

	return d, nil
}

func times(m int, v decimal.Decimal) decimal.Decimal {
	switch m {
	case 0:
		return decimal.Zero
	case 1:
		return v
	case -1:
		return v.Neg()
	}
	return v.Mul(decimal.NewFromInt(int64(m)))
}

func positive(v decimal.Decimal) decimal.Decimal {
	if v.IsPositive() {
		return v
	}
	return decimal.Zero
}
