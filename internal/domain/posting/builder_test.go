package posting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/id"
)

var (
	partyID  = id.MustParse("0190a1b2-0000-7000-8000-000000000001")
	freightA = id.MustParse("0190a1b2-0000-7000-8000-000000000002")
	freightB = id.MustParse("0190a1b2-0000-7000-8000-000000000003")
)

func fullInput(v Variant, fx string) Input {
	items := []LineItem{
		{
			GrossWeight:      d("100"),
			Purity:           d("0.995"),
			PureWeight:       d("99.5"),
			Pieces:           4,
			PurityDifference: d("-0.3"),
			MetalRate:        MetalRate{Rate: d("250")},
			MakingCharges:    ChargeSpec{Amount: d("120")},
			Premium:          PremiumSpec{Amount: d("30")},
		},
		{
			GrossWeight:   d("20"),
			Purity:        d("0.999"),
			PureWeight:    d("19.98"),
			MetalRate:     MetalRate{Rate: d("250")},
			MakingCharges: ChargeSpec{Amount: d("15")},
			Premium:       PremiumSpec{Amount: d("-7")},
		},
	}
	return Input{
		Variant:  v,
		PartyID:  partyID,
		Currency: "AED",
		Totals:   Aggregate(items, Summary{TotalAmount: d("30100"), FXGainLoss: d(fx)}),
		VAT:      VATPolicy{Percentage: d("5"), OnMaking: true},
		OtherCharges: []OtherCharge{
			{Description: "Freight", DebitAccountID: freightA, CreditAccountID: freightB, Amount: d("40"), VAT: VATSpec{Percentage: d("5")}},
			{DebitAccountID: partyID, CreditAccountID: freightB, Amount: d("0")},
		},
	}
}

type partyTotals struct {
	gold, value, cash decimal.Decimal
}

// projectEntries sums party legs per referenced party: credits add, debits subtract.
func projectEntries(entries []Entry) map[id.ID]partyTotals {
	out := map[id.ID]partyTotals{}
	for _, e := range entries {
		if !e.Type.IsPartyLeg() || id.IsNil(e.PartyID) {
			continue
		}
		p := out[e.PartyID]
		p.gold = p.gold.Add(e.GoldCredit).Sub(e.GoldDebit)
		p.cash = p.cash.Add(e.CashCredit).Sub(e.CashDebit)
		if e.IsBullion {
			if e.GoldCredit.IsPositive() {
				p.value = p.value.Add(e.Value)
			} else {
				p.value = p.value.Sub(e.Value)
			}
		}
		out[e.PartyID] = p
	}
	return out
}

func projectDelta(delta BalanceDelta) map[id.ID]partyTotals {
	out := map[id.ID]partyTotals{}
	p := out[delta.PartyID]
	p.gold, p.value, p.cash = delta.Gold, delta.GoldValue, delta.Cash
	out[delta.PartyID] = p
	for _, a := range delta.Accounts {
		p := out[a.PartyID]
		p.cash = p.cash.Add(a.Cash)
		out[a.PartyID] = p
	}
	return out
}

func TestBuild_EveryVariantBalances(t *testing.T) {
	for _, v := range Variants() {
		for _, fx := range []string{"12.5", "-8", "0"} {
			t.Run(v.String()+"/fx="+fx, func(t *testing.T) {
				entries, err := Build(fullInput(v, fx))
				require.NoError(t, err)
				require.NotEmpty(t, entries)
				assert.NoError(t, CheckBalanced(entries))
			})
		}
	}
}

func TestBuild_PartyLegsMatchBalanceDelta(t *testing.T) {
	for _, v := range Variants() {
		for _, fx := range []string{"12.5", "-8", "0"} {
			t.Run(v.String()+"/fx="+fx, func(t *testing.T) {
				in := fullInput(v, fx)
				entries, err := Build(in)
				require.NoError(t, err)
				delta, err := Delta(in)
				require.NoError(t, err)

				fromEntries := projectEntries(entries)
				fromDelta := projectDelta(delta)

				for pid, want := range fromDelta {
					got := fromEntries[pid]
					assert.True(t, want.gold.Equal(got.gold), "gold %s: delta %s entries %s", pid, want.gold, got.gold)
					assert.True(t, want.value.Equal(got.value), "value %s: delta %s entries %s", pid, want.value, got.value)
					assert.True(t, want.cash.Equal(got.cash), "cash %s: delta %s entries %s", pid, want.cash, got.cash)
				}
				for pid := range fromEntries {
					_, ok := fromDelta[pid]
					assert.True(t, ok, "entries move party %s the delta does not", pid)
				}
			})
		}
	}
}

func TestBuild_UnfixedPurchaseWithoutCharges(t *testing.T) {
	items := []LineItem{{GrossWeight: d("100"), Purity: d("0.999")}}
	in := Input{
		Variant:  NewVariant(TypePurchase, false, false),
		PartyID:  partyID,
		Currency: "AED",
		Totals:   Aggregate(items, Summary{}),
	}

	entries, err := Build(in)
	require.NoError(t, err)

	counts := map[EntryType]int{}
	for _, e := range entries {
		counts[e.Type]++
	}
	assert.Equal(t, 1, counts[EntryPartyGoldBalance])
	assert.Equal(t, 1, counts[EntryGoldStock])
	assert.Zero(t, counts[EntryVAT]+counts[EntryPartyVAT])
	assert.Zero(t, counts[EntryPremium]+counts[EntryPartyPremium])
	assert.Zero(t, counts[EntryDiscount]+counts[EntryPartyDiscount])
	assert.Zero(t, counts[EntryPartyCashBalance])

	for _, e := range entries {
		if e.Type == EntryPartyGoldBalance {
			assertDec(t, "99.9", e.GoldCredit)
			assert.Equal(t, partyID, e.PartyID)
		}
	}

	delta, err := Delta(in)
	require.NoError(t, err)
	assertDec(t, "99.9", delta.Gold)
	assertDec(t, "0", delta.Cash)
}

func TestBuild_FixedPurchaseReplacesGoldMovement(t *testing.T) {
	items := []LineItem{{GrossWeight: d("100"), Purity: d("0.999")}}
	in := Input{
		Variant:  NewVariant(TypePurchase, true, false),
		PartyID:  partyID,
		Currency: "AED",
		Totals:   Aggregate(items, Summary{TotalAmount: d("24975")}),
	}

	entries, err := Build(in)
	require.NoError(t, err)

	var fixing, goldBalance int
	for _, e := range entries {
		switch e.Type {
		case EntryPurchaseFixing:
			fixing++
			assert.Equal(t, partyID, e.PartyID)
			assertDec(t, "99.9", e.GoldCredit)
			// whitelisted at zero value
			assertDec(t, "0", e.Value)
		case EntryPartyGoldBalance:
			goldBalance++
		case EntryPartyCashBalance:
			assertDec(t, "24975", e.CashCredit)
		}
	}
	assert.Equal(t, 1, fixing)
	assert.Zero(t, goldBalance)

	delta, err := Delta(in)
	require.NoError(t, err)
	assert.True(t, delta.Gold.IsZero())
	assertDec(t, "24975", delta.Cash)
}

func TestBuild_SuppressesNonPositiveAmounts(t *testing.T) {
	in := fullInput(Variant{TypeSale, ModeUnfix}, "0")
	in.VAT = VATPolicy{Exclude: true}

	entries, err := Build(in)
	require.NoError(t, err)

	for _, e := range entries {
		assert.NotEqual(t, EntryPartyVAT, e.Type)
		assert.NotEqual(t, EntryPartyFX, e.Type)
		if !e.IsBullion {
			assert.True(t, e.CashDebit.Add(e.CashCredit).IsPositive(), "zero cash row %s", e.Type)
		}
	}
}

func TestBuild_PurityDifferenceSide(t *testing.T) {
	in := fullInput(Variant{TypePurchase, ModeUnfix}, "0")
	entries, err := Build(in)
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if e.Type == EntryPurityDifference {
			found = true
			// negative difference is a loss: credited on the party-referenced row
			assertDec(t, "0.3", e.GoldCredit)
			assert.True(t, e.GoldDebit.IsZero())
			assertDec(t, "75", e.Value)
		}
	}
	assert.True(t, found)
}

func TestBuild_OtherChargesMoveAccounts(t *testing.T) {
	in := fullInput(Variant{TypePurchase, ModeFix}, "0")
	delta, err := Delta(in)
	require.NoError(t, err)

	require.Len(t, delta.Accounts, 2)
	assert.Equal(t, freightA, delta.Accounts[0].PartyID)
	assertDec(t, "-42", delta.Accounts[0].Cash)
	assert.Equal(t, freightB, delta.Accounts[1].PartyID)
	assertDec(t, "42", delta.Accounts[1].Cash)

	neg := delta.Negate()
	assertDec(t, "42", neg.Accounts[0].Cash)
	assertDec(t, "-30100", neg.Cash)
}

func TestBuild_UnknownVariant(t *testing.T) {
	_, err := Build(Input{Variant: Variant{Type: "barter", Mode: ModeFix}})
	assert.Error(t, err)
	_, err = Delta(Input{Variant: Variant{Type: "barter", Mode: ModeFix}})
	assert.Error(t, err)
}

func TestCheckBalanced_DetectsMismatch(t *testing.T) {
	err := CheckBalanced([]Entry{
		{Type: EntryGoldStock, GoldDebit: d("10"), Currency: "AED"},
		{Type: EntryPartyGoldBalance, GoldCredit: d("9"), Currency: "AED"},
	})
	assert.Error(t, err)

	err = CheckBalanced([]Entry{
		{Type: EntryMaking, CashDebit: d("5"), Currency: "AED"},
		{Type: EntryPartyMaking, CashCredit: d("5"), Currency: "USD"},
	})
	assert.Error(t, err)
}

func TestBuildDraft(t *testing.T) {
	entries := BuildDraft(partyID, "AED", d("50"))

	require.Len(t, entries, 2)
	require.NoError(t, CheckBalanced(entries))
	assert.Equal(t, EntryGoldStock, entries[0].Type)
	assert.True(t, id.IsNil(entries[0].PartyID))
	assert.Equal(t, EntryPartyGoldBalance, entries[1].Type)
	assert.Equal(t, partyID, entries[1].PartyID)
	assertDec(t, "50", entries[1].GoldCredit)

	assert.Empty(t, BuildDraft(partyID, "AED", decimal.Zero))
}
