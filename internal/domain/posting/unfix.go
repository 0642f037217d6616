package posting

// Open-price routines. The party carries the weight and every charge component
// until the position is fixed later.

func purchaseUnfixed(l *ledger) {
	l.unfixedGold("Gold purchase (unfixed)")
	l.unfixedCharges("Purchase")
	l.unfixedFX("Purchase")
}

func saleUnfixed(l *ledger) {
	l.unfixedGold("Gold sale (unfixed)")
	l.unfixedCharges("Sale")
	l.unfixedFX("Sale")
}

func purchaseReturnUnfixed(l *ledger) {
	l.unfixedGold("Purchase return (unfixed)")
	l.unfixedCharges("Purchase return")
	l.unfixedFX("Purchase return")
}

func saleReturnUnfixed(l *ledger) {
	l.unfixedGold("Sale return (unfixed)")
	l.unfixedCharges("Sale return")
	l.unfixedFX("Sale return")
}

func (l *ledger) unfixedGold(label string) {
	t := l.in.Totals
	l.goldFlow(t.PureWeight, t.GoldValue,
		house(EntryGoldStock, label),
		l.party(EntryPartyGoldBalance, label))
}

func (l *ledger) unfixedCharges(label string) {
	t := l.in.Totals
	l.cashFlow(t.Making,
		house(EntryMaking, label+" making charges"),
		l.party(EntryPartyMaking, label+" making charges"))
	l.cashFlow(t.Premium,
		house(EntryPremium, label+" premium"),
		l.party(EntryPartyPremium, label+" premium"))
	l.cashFlow(t.Discount,
		l.party(EntryPartyDiscount, label+" discount"),
		house(EntryDiscount, label+" discount"))
	l.cashFlow(l.vat,
		house(EntryVAT, label+" VAT"),
		l.party(EntryPartyVAT, label+" VAT"))
}

// unfixedFX charges a gain to the party and credits a loss, whatever the direction.
func (l *ledger) unfixedFX(label string) {
	fx := l.in.Totals.FXGainLoss
	party := l.party(EntryPartyFX, label+" FX")
	switch {
	case fx.IsPositive():
		l.cashPair(fx, party, house(EntryFXGain, label+" FX gain"))
	case fx.IsNegative():
		l.cashPair(fx.Abs(), house(EntryFXLoss, label+" FX loss"), party)
	}
}
