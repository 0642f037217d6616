package posting

import (
	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// Input is everything the entry builder needs for one transaction.
type Input struct {
	Variant      Variant
	PartyID      id.ID
	Currency     string
	Totals       Totals
	VAT          VATPolicy
	OtherCharges []OtherCharge
}

// Build emits the ordered registry entries for in.
// The variant routine runs first, followed by the entries every variant shares:
// other charges, purity difference and the gross-weight stock ledger.
func Build(in Input) ([]Entry, error) {
	def, ok := table[in.Variant]
	if !ok {
		return nil, apperror.NewValidation("unsupported transaction variant").
			WithDetail("variant", in.Variant.String())
	}

	l := &ledger{in: in, vat: EffectiveVAT(in.Totals, in.VAT)}
	def.build(l)
	l.otherCharges()
	l.purityDifference()
	l.stockLedger()

	return l.entries, nil
}

func (l *ledger) inbound() bool {
	return l.in.Variant.Type.Direction() > 0
}

// cashFlow debits a and credits b for inbound metal; outbound swaps the sides.
func (l *ledger) cashFlow(amount types.Money, a, b leg) {
	if l.inbound() {
		l.cashPair(amount, a, b)
		return
	}
	l.cashPair(amount, b, a)
}

// goldFlow is cashFlow on the gold axis.
func (l *ledger) goldFlow(grams types.Grams, value types.Money, a, b leg) {
	if l.inbound() {
		l.goldPair(grams, value, a, b)
		return
	}
	l.goldPair(grams, value, b, a)
}

func (l *ledger) otherCharges() {
	for _, oc := range l.in.OtherCharges {
		desc := oc.Description
		if desc == "" {
			desc = "Other charges"
		}
		dr := leg{typ: EntryOtherCharges, party: oc.DebitAccountID, desc: desc}
		cr := leg{typ: EntryOtherCharges, party: oc.CreditAccountID, desc: desc}
		l.cashPair(oc.Amount, dr, cr)

		dr.typ, cr.typ = EntryOtherChargesVAT, EntryOtherChargesVAT
		dr.desc, cr.desc = desc+" VAT", desc+" VAT"
		l.cashPair(oc.VATAmount(), dr, cr)
	}
}

// purityDifference books the gain (positive) or loss (negative) against stock adjustment.
func (l *ledger) purityDifference() {
	pd := l.in.Totals.PurityDifference
	value := l.in.Totals.PurityDifferenceValue.Abs()
	diff := l.party(EntryPurityDifference, "Purity difference")
	adj := house(EntryGoldStockAdjustment, "Gold stock adjustment")

	switch {
	case pd.IsPositive():
		l.goldPair(pd, value, diff, adj)
	case pd.IsNegative():
		l.goldPair(pd.Abs(), value, adj, diff)
	}
}

func (l *ledger) stockLedger() {
	l.goldFlow(l.in.Totals.GrossWeight, types.Zero(),
		house(EntryStockLedger, "Stock ledger gross weight"),
		house(EntryStockLedgerClearing, "Stock ledger clearing"))
}

// BuildDraft emits the gold pair for a staged receipt of grams from a party:
// gold stock debited, party gold balance credited, no price attached.
func BuildDraft(partyID id.ID, currency string, grams types.Grams) []Entry {
	l := &ledger{in: Input{PartyID: partyID, Currency: currency}}
	l.goldPair(grams, types.Zero(),
		house(EntryGoldStock, "Draft gold receipt"),
		l.party(EntryPartyGoldBalance, "Draft gold receipt"))
	return l.entries
}
