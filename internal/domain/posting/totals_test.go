package posting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bullionledger/internal/core/types"
)

func d(s string) decimal.Decimal { return types.MustMoney(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestEffectivePureWeight(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want string
	}{
		{
			name: "standard weight when passing and no difference",
			item: LineItem{GrossWeight: d("100"), PureWeight: d("99.9"), StandardPureWeight: d("99.5"), PassPurityDiff: true},
			want: "99.5",
		},
		{
			name: "entered weight when a difference exists",
			item: LineItem{GrossWeight: d("100"), PureWeight: d("99.9"), StandardPureWeight: d("99.5"), PassPurityDiff: true, PurityDifference: d("0.4")},
			want: "99.9",
		},
		{
			name: "entered weight when not passing",
			item: LineItem{GrossWeight: d("100"), PureWeight: d("99.9"), StandardPureWeight: d("99.5")},
			want: "99.9",
		},
		{
			name: "entered weight when standard weight is missing",
			item: LineItem{GrossWeight: d("100"), PureWeight: d("99.9"), PassPurityDiff: true},
			want: "99.9",
		},
		{
			name: "derived from gross and purity when pure weight is empty",
			item: LineItem{GrossWeight: d("100"), Purity: d("0.999")},
			want: "99.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDec(t, tt.want, tt.item.EffectivePureWeight())
		})
	}
}

func TestAggregate(t *testing.T) {
	items := []LineItem{
		{
			GrossWeight:      d("100"),
			Purity:           d("0.995"),
			PureWeight:       d("99.5"),
			Pieces:           2,
			PurityDifference: d("0.2"),
			MetalRate:        MetalRate{Rate: d("250")},
			MakingCharges:    ChargeSpec{Amount: d("120")},
			Premium:          PremiumSpec{Amount: d("30")},
			VAT:              VATSpec{Amount: d("6")},
		},
		{
			GrossWeight:   d("50"),
			Purity:        d("0.9167"),
			PureWeight:    d("45.835"),
			Pieces:        1,
			MetalRate:     MetalRate{Rate: d("250"), Amount: d("11000")},
			MakingCharges: ChargeSpec{Amount: d("80")},
			Premium:       PremiumSpec{Amount: d("-12.5")},
		},
	}

	got := Aggregate(items, Summary{TotalAmount: d("36000"), FXGainLoss: d("-4")})

	assertDec(t, "145.335", got.PureWeight)
	assertDec(t, "150", got.GrossWeight)
	assertDec(t, "145.335", got.PhysicalPureWeight)
	assert.Equal(t, 3, got.Pieces)
	assertDec(t, "200", got.Making)
	assertDec(t, "30", got.Premium)
	assertDec(t, "12.5", got.Discount)
	assertDec(t, "6", got.VAT)
	// 99.5 × 250 for the first line, explicit amount for the second
	assertDec(t, "35875", got.GoldValue)
	assertDec(t, "0.2", got.PurityDifference)
	assertDec(t, "50", got.PurityDifferenceValue)
	assertDec(t, "-4", got.FXGainLoss)
	assertDec(t, "36000", got.TotalAmount)
}

func TestEffectiveVAT(t *testing.T) {
	base := Totals{GoldValue: d("10000"), Making: d("200")}

	assertDec(t, "500", EffectiveVAT(base, VATPolicy{Percentage: d("5")}))
	assertDec(t, "10", EffectiveVAT(base, VATPolicy{Percentage: d("5"), OnMaking: true}))
	assertDec(t, "0", EffectiveVAT(base, VATPolicy{Percentage: d("5"), Exclude: true}))
	assertDec(t, "0", EffectiveVAT(base, VATPolicy{}))

	withItems := base
	withItems.VAT = d("42")
	assertDec(t, "42", EffectiveVAT(withItems, VATPolicy{Percentage: d("5")}))
}

func TestDeriveMode(t *testing.T) {
	assert.Equal(t, ModeFix, DeriveMode(true, false))
	assert.Equal(t, ModeUnfix, DeriveMode(true, true))
	assert.Equal(t, ModeUnfix, DeriveMode(false, true))
	assert.Equal(t, ModeUnfix, DeriveMode(false, false))
}

func TestVariantLocksPrice(t *testing.T) {
	assert.True(t, Variant{TypePurchase, ModeFix}.LocksPrice())
	assert.True(t, Variant{TypeSale, ModeFix}.LocksPrice())
	assert.False(t, Variant{TypeSaleReturn, ModeFix}.LocksPrice())
	assert.False(t, Variant{TypePurchase, ModeUnfix}.LocksPrice())
	assert.Len(t, Variants(), 8)
}
