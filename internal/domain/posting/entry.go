package posting

import (
	"github.com/shopspring/decimal"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// EntryType is the category code of a registry entry.
type EntryType string

// Party-side entry types. Rows of these types move the referenced party's balance.
const (
	EntryPartyGoldBalance EntryType = "PARTY_GOLD_BALANCE"
	EntryPartyCashBalance EntryType = "PARTY_CASH_BALANCE"
	EntryPartyMaking      EntryType = "PARTY_MAKING_CHARGES"
	EntryPartyPremium     EntryType = "PARTY_PREMIUM"
	EntryPartyDiscount    EntryType = "PARTY_DISCOUNT"
	EntryPartyVAT         EntryType = "PARTY_VAT"
	EntryPartyFX          EntryType = "PARTY_FX"
	EntryOtherCharges     EntryType = "OTHER_CHARGES"
	EntryOtherChargesVAT  EntryType = "OTHER_CHARGES_VAT"
)

// House-side entry types.
const (
	EntryGoldStock           EntryType = "GOLD_STOCK"
	EntryMaking              EntryType = "MAKING_CHARGES"
	EntryPremium             EntryType = "PREMIUM"
	EntryDiscount            EntryType = "DISCOUNT"
	EntryVAT                 EntryType = "VAT_AMOUNT"
	EntryFXGain              EntryType = "FX_GAIN"
	EntryFXLoss              EntryType = "FX_LOSS"
	EntryPurityDifference    EntryType = "PURITY_DIFFERENCE"
	EntryGoldStockAdjustment EntryType = "GOLD_STOCK_ADJUSTMENT"
	EntryStockLedger         EntryType = "STOCK_LEDGER"
	EntryStockLedgerClearing EntryType = "STOCK_LEDGER_CLEARING"
)

// Fix-mode entry types. Fixing rows reference the party but do not move its balance.
const (
	EntryPurchaseFixing       EntryType = "PURCHASE_FIXING"
	EntrySaleFixing           EntryType = "SALE_FIXING"
	EntryPurchaseReturnFixing EntryType = "PURCHASE_RETURN_FIXING"
	EntrySaleReturnFixing     EntryType = "SALE_RETURN_FIXING"
	EntryGoldPurchase         EntryType = "GOLD_PURCHASE"
	EntryGoldSale             EntryType = "GOLD_SALE"
	EntryPurchaseReturn       EntryType = "PURCHASE_RETURN"
	EntrySaleReturn           EntryType = "SALE_RETURN"
)

// IsPartyLeg reports whether rows of this type affect the referenced party's balance.
func (t EntryType) IsPartyLeg() bool {
	switch t {
	case EntryPartyGoldBalance, EntryPartyCashBalance, EntryPartyMaking, EntryPartyPremium,
		EntryPartyDiscount, EntryPartyVAT, EntryPartyFX, EntryOtherCharges, EntryOtherChargesVAT:
		return true
	}
	return false
}

// Entry is one generated registry row before voucher metadata is attached.
type Entry struct {
	Type        EntryType
	Description string
	// PartyID is set on party-referenced rows and nil on house rows.
	PartyID    id.ID
	IsBullion  bool
	CashDebit  types.Money
	CashCredit types.Money
	GoldDebit  types.Grams
	GoldCredit types.Grams
	Value      types.Money
	Currency   string
}

// IsDebit reports whether the row sits on the debit side.
func (e Entry) IsDebit() bool {
	return e.CashDebit.IsPositive() || e.GoldDebit.IsPositive()
}

// LegacyDebit is the single-column debit kept for older readers.
func (e Entry) LegacyDebit() types.Money {
	if e.IsBullion {
		if e.GoldDebit.IsPositive() {
			return e.Value
		}
		return decimal.Zero
	}
	return e.CashDebit
}

// LegacyCredit is the single-column credit kept for older readers.
func (e Entry) LegacyCredit() types.Money {
	if e.IsBullion {
		if e.GoldCredit.IsPositive() {
			return e.Value
		}
		return decimal.Zero
	}
	return e.CashCredit
}

// CheckBalanced verifies Σ goldDebit = Σ goldCredit and, per currency, Σ cashDebit = Σ cashCredit.
func CheckBalanced(entries []Entry) error {
	var goldDr, goldCr decimal.Decimal
	cashDr := map[string]decimal.Decimal{}
	cashCr := map[string]decimal.Decimal{}

	for _, e := range entries {
		goldDr = goldDr.Add(e.GoldDebit)
		goldCr = goldCr.Add(e.GoldCredit)
		cashDr[e.Currency] = cashDr[e.Currency].Add(e.CashDebit)
		cashCr[e.Currency] = cashCr[e.Currency].Add(e.CashCredit)
	}

	if !goldDr.Equal(goldCr) {
		return apperror.NewUnbalanced("gold", goldDr.String(), goldCr.String())
	}
	for ccy, dr := range cashDr {
		if cr := cashCr[ccy]; !dr.Equal(cr) {
			return apperror.NewUnbalanced("cash:"+ccy, dr.String(), cr.String())
		}
	}
	return nil
}

// leg names one side of a pair. A zero party marks a house row.
type leg struct {
	typ   EntryType
	party id.ID
	desc  string
}

func house(t EntryType, desc string) leg {
	return leg{typ: t, desc: desc}
}

// ledger accumulates entries for one build.
type ledger struct {
	in      Input
	vat     types.Money
	entries []Entry
}

func (l *ledger) party(t EntryType, desc string) leg {
	return leg{typ: t, party: l.in.PartyID, desc: desc}
}

// cashPair books amount on the cash axis. Amounts ≤ 0 are suppressed.
func (l *ledger) cashPair(amount types.Money, debit, credit leg) {
	if !amount.IsPositive() {
		return
	}
	l.entries = append(l.entries,
		Entry{Type: debit.typ, Description: debit.desc, PartyID: debit.party,
			CashDebit: amount, Value: amount, Currency: l.in.Currency},
		Entry{Type: credit.typ, Description: credit.desc, PartyID: credit.party,
			CashCredit: amount, Value: amount, Currency: l.in.Currency},
	)
}

// goldPair books grams on the gold axis with value as the priced amount.
// Pairs are emitted whenever weight moves, even at zero value.
func (l *ledger) goldPair(grams types.Grams, value types.Money, debit, credit leg) {
	if !grams.IsPositive() {
		return
	}
	l.entries = append(l.entries,
		Entry{Type: debit.typ, Description: debit.desc, PartyID: debit.party, IsBullion: true,
			GoldDebit: grams, Value: value, Currency: l.in.Currency},
		Entry{Type: credit.typ, Description: credit.desc, PartyID: credit.party, IsBullion: true,
			GoldCredit: grams, Value: value, Currency: l.in.Currency},
	)
}
