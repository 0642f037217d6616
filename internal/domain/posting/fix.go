package posting

// Fixed-price routines. The party is settled in cash for the summary total;
// the weight moves against a fixing row and charge components are reclassified
// between house accounts.

func purchaseFixed(l *ledger) {
	clearing := house(EntryGoldPurchase, "Gold purchase")
	l.fixing(EntryPurchaseFixing, "Purchase fixing")
	l.settle(clearing, "Gold purchase (fixed)")
	l.reclassify(clearing, "Purchase")
}

func saleFixed(l *ledger) {
	clearing := house(EntryGoldSale, "Gold sale")
	l.fixing(EntrySaleFixing, "Sale fixing")
	l.settle(clearing, "Gold sale (fixed)")
	l.reclassify(clearing, "Sale")
}

func purchaseReturnFixed(l *ledger) {
	clearing := house(EntryPurchaseReturn, "Purchase return")
	l.fixing(EntryPurchaseReturnFixing, "Purchase return fixing")
	l.settle(clearing, "Purchase return (fixed)")
	l.reclassify(clearing, "Purchase return")
}

func saleReturnFixed(l *ledger) {
	clearing := house(EntrySaleReturn, "Sale return")
	l.fixing(EntrySaleReturnFixing, "Sale return fixing")
	l.settle(clearing, "Sale return (fixed)")
	l.reclassify(clearing, "Sale return")
}

// fixing books the weight against a party-referenced fixing row.
// It is emitted at zero value whenever weight moves.
func (l *ledger) fixing(t EntryType, label string) {
	totals := l.in.Totals
	l.goldFlow(totals.PureWeight, totals.GoldValue,
		house(EntryGoldStock, label),
		l.party(t, label))
}

func (l *ledger) settle(clearing leg, label string) {
	l.cashFlow(l.in.Totals.TotalAmount, clearing, l.party(EntryPartyCashBalance, label))
}

func (l *ledger) reclassify(clearing leg, label string) {
	t := l.in.Totals
	l.cashFlow(t.Making, house(EntryMaking, label+" making charges"), clearing)
	l.cashFlow(t.Premium, house(EntryPremium, label+" premium"), clearing)
	l.cashFlow(t.Discount, clearing, house(EntryDiscount, label+" discount"))
	l.cashFlow(l.vat, house(EntryVAT, label+" VAT"), clearing)

	fx := t.FXGainLoss
	switch {
	case fx.IsPositive():
		l.cashPair(fx, clearing, house(EntryFXGain, label+" FX gain"))
	case fx.IsNegative():
		l.cashPair(fx.Abs(), house(EntryFXLoss, label+" FX loss"), clearing)
	}
}
