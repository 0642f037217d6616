package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/entity"
	mt "bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/testkit"
)

func TestGoldBalanceFromLogs_MatchesInventory(t *testing.T) {
	f := testkit.New(t)
	fine := f.NewStock(t, "GRAIN", "0.9999")
	svc := f.Svc.Transactions

	create := func(typ posting.TransactionType, items ...posting.LineItem) {
		t.Helper()
		_, err := svc.Create(f.Ctx, mt.CreateInput{Type: typ, Unfix: true, PartyID: f.Customer.ID, Stocks: items})
		require.NoError(t, err)
	}
	create(posting.TypePurchase,
		posting.LineItem{StockID: f.Stock.ID, Pieces: 2, GrossWeight: testkit.Dec("100"), Purity: testkit.Dec("0.999")},
		posting.LineItem{StockID: fine.ID, GrossWeight: testkit.Dec("10"), Purity: testkit.Dec("0.9999")},
	)
	create(posting.TypeSale,
		posting.LineItem{StockID: f.Stock.ID, Pieces: 1, GrossWeight: testkit.Dec("40"), Purity: testkit.Dec("0.999")},
	)

	gb, err := f.Svc.Inventory.GoldBalanceFromLogs(f.Ctx)
	require.NoError(t, err)

	invs, err := f.Svc.Inventory.Inventories(f.Ctx)
	require.NoError(t, err)
	require.Len(t, invs, 2)
	require.Len(t, gb.ByStock, 2)

	byStock := map[string]string{}
	for _, s := range gb.ByStock {
		byStock[s.StockID.String()] = s.PureGold.String()
	}
	for _, inv := range invs {
		testkit.RequireDec(t, byStock[inv.StockID.String()], inv.PureWeight, inv.StockID)
	}
	testkit.RequireDec(t, "59.94", f.Gross(t, f.Stock.ID).Mul(testkit.Dec("0.999")))
	testkit.RequireDec(t, "69.93900", gb.TotalPureGold)
}

func TestApply_PurityDifferenceLogCarriesNoWeight(t *testing.T) {
	f := testkit.New(t)

	doc, err := f.Svc.Transactions.Create(f.Ctx, mt.CreateInput{
		Type:    posting.TypePurchase,
		Unfix:   true,
		PartyID: f.Customer.ID,
		Stocks: []posting.LineItem{{
			StockID:          f.Stock.ID,
			GrossWeight:      testkit.Dec("100"),
			Purity:           testkit.Dec("0.999"),
			PurityDifference: testkit.Dec("-0.4"),
			MetalRate:        posting.MetalRate{Rate: testkit.Dec("250")},
		}},
	})
	require.NoError(t, err)

	logs, err := f.Svc.Inventory.Logs(f.Ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	pd := logs[1]
	assert.True(t, pd.IsPurityDifferenceEntry)
	assert.True(t, pd.GrossWeight.IsZero())
	assert.False(t, pd.CountsTowardWeight())
	testkit.RequireDec(t, "0.4", pd.PurityDifference)
	// a negative difference is booked as a gold credit, so stock loses it
	assert.Equal(t, entity.ActionRemove, pd.Action)

	gb, err := f.Svc.Inventory.GoldBalanceFromLogs(f.Ctx)
	require.NoError(t, err)
	testkit.RequireDec(t, "99.9", gb.TotalPureGold)
}

func TestApply_RejectsNegativeStock(t *testing.T) {
	f := testkit.New(t)

	_, err := f.Svc.Transactions.Create(f.Ctx, mt.CreateInput{
		Type:    posting.TypeSale,
		Unfix:   true,
		PartyID: f.Customer.ID,
		Stocks:  []posting.LineItem{{StockID: f.Stock.ID, Pieces: 1, GrossWeight: testkit.Dec("1"), Purity: testkit.Dec("0.999")}},
	})
	require.Error(t, err)

	invs, err := f.Svc.Inventory.Inventories(f.Ctx)
	require.NoError(t, err)
	assert.Empty(t, invs)
}
