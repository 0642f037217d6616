package metal_transaction_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/domain/catalogs/party"
	mt "bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/registry"
	"bullionledger/internal/testkit"
)

func purchase(f *testkit.Fixture, gross, purity string) mt.CreateInput {
	return mt.CreateInput{
		Type:    posting.TypePurchase,
		Unfix:   true,
		PartyID: f.Customer.ID,
		Stocks: []posting.LineItem{{
			StockID:     f.Stock.ID,
			Pieces:      1,
			GrossWeight: testkit.Dec(gross),
			Purity:      testkit.Dec(purity),
		}},
	}
}

func countTypes(rows []registry.Entry) map[posting.EntryType]int {
	out := map[posting.EntryType]int{}
	for _, r := range rows {
		out[r.Type]++
	}
	return out
}

func TestCreate_UnfixedPurchaseCreditsGold(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	doc, err := svc.Create(f.Ctx, purchase(f, "100", "0.999"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Number, "PUR-"), doc.Number)
	assert.Equal(t, "AED", doc.PartyCurrency)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "99.9", p.Gold.TotalGrams)
	testkit.RequireDec(t, "0", p.CashIn("AED"))
	testkit.RequireDec(t, "100", f.Gross(t, f.Stock.ID))

	rows, err := svc.Entries(f.Ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, posting.CheckBalanced(registry.ToPosting(rows)))

	counts := countTypes(rows)
	assert.Equal(t, 1, counts[posting.EntryPartyGoldBalance])
	assert.Equal(t, 1, counts[posting.EntryGoldStock])
	assert.Zero(t, counts[posting.EntryVAT]+counts[posting.EntryPartyVAT])
	assert.Zero(t, counts[posting.EntryPremium]+counts[posting.EntryDiscount])

	logs, err := f.Svc.Inventory.Logs(f.Ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "MAIN", logs[0].CostCenter)

	require.Len(t, f.Store.Events(), 1)
	assert.Equal(t, "metal_transaction.created", f.Store.Events()[0].EventType)
	require.Len(t, f.Store.AuditEntries(), 1)
	assert.Equal(t, testkit.Actor, f.Store.AuditEntries()[0].UserID)

	f.Svc.PriceLocks.Wait()
	assert.Empty(t, f.Store.PriceLocks().Locks())
}

func TestUpdate_SwitchToFixedReplacesGoldWithCash(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	doc, err := svc.Create(f.Ctx, purchase(f, "100", "0.999"))
	require.NoError(t, err)

	fixed, unfix := true, false
	summary := posting.Summary{TotalAmount: testkit.Dec("24975")}
	updated, err := svc.Update(f.Ctx, doc.ID, mt.Patch{Fixed: &fixed, Unfix: &unfix, Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, posting.ModeFix, updated.Variant().Mode)
	assert.Equal(t, 2, updated.Version)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", p.Gold.TotalGrams)
	testkit.RequireDec(t, "24975", p.CashIn("AED"))
	// inventory is reapplied, not doubled
	testkit.RequireDec(t, "100", f.Gross(t, f.Stock.ID))

	rows, err := svc.Entries(f.Ctx, doc.ID)
	require.NoError(t, err)
	counts := countTypes(rows)
	assert.Equal(t, 1, counts[posting.EntryPurchaseFixing])
	assert.Zero(t, counts[posting.EntryPartyGoldBalance])
	assert.Equal(t, 1, counts[posting.EntryPartyCashBalance])

	f.Svc.PriceLocks.Wait()
	locks := f.Store.PriceLocks().Locks()
	require.Len(t, locks, 1)
	assert.Equal(t, doc.ID, locks[0].TransactionID)
	testkit.RequireDec(t, "24975", locks[0].Amount)
}

func TestUpdate_EmptyPatchIsIdempotent(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	in := purchase(f, "100", "0.999")
	in.OtherCharges = []posting.OtherCharge{{
		Description:     "Freight",
		DebitAccountID:  f.AccountA.ID,
		CreditAccountID: f.AccountB.ID,
		Amount:          testkit.Dec("40"),
		VAT:             posting.VATSpec{Percentage: testkit.Dec("5")},
	}}
	doc, err := svc.Create(f.Ctx, in)
	require.NoError(t, err)

	before, err := svc.Entries(f.Ctx, doc.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Update(f.Ctx, doc.ID, mt.Patch{})
		require.NoError(t, err)
	}

	after, err := svc.Entries(f.Ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, countTypes(before), countTypes(after))

	testkit.RequireDec(t, "99.9", f.Party(t, f.Customer.ID).Gold.TotalGrams)
	testkit.RequireDec(t, "-42", f.Party(t, f.AccountA.ID).CashIn("AED"))
	testkit.RequireDec(t, "42", f.Party(t, f.AccountB.ID).CashIn("AED"))
	testkit.RequireDec(t, "100", f.Gross(t, f.Stock.ID))
}

func TestDelete_RestoresEveryStore(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	in := purchase(f, "100", "0.999")
	in.Stocks[0].PurityDifference = testkit.Dec("0.5")
	in.Stocks[0].MetalRate = posting.MetalRate{Rate: testkit.Dec("250")}
	in.OtherCharges = []posting.OtherCharge{{
		DebitAccountID:  f.AccountA.ID,
		CreditAccountID: f.AccountB.ID,
		Amount:          testkit.Dec("10"),
	}}
	doc, err := svc.Create(f.Ctx, in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(f.Ctx, doc.ID))

	for _, p := range []*party.Party{f.Customer, f.AccountA, f.AccountB} {
		got := f.Party(t, p.ID)
		testkit.RequireDec(t, "0", got.Gold.TotalGrams, p.Code)
		testkit.RequireDec(t, "0", got.Gold.TotalValue, p.Code)
		testkit.RequireDec(t, "0", got.CashIn("AED"), p.Code)
	}
	testkit.RequireDec(t, "0", f.Gross(t, f.Stock.ID))
	assert.Empty(t, f.Store.Entries())

	logs, err := f.Svc.Inventory.Logs(f.Ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	_, err = svc.Get(f.Ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_RejectsEmptyLineItems(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	doc, err := svc.Create(f.Ctx, purchase(f, "100", "0.999"))
	require.NoError(t, err)

	empty := []posting.LineItem{}
	_, err = svc.Update(f.Ctx, doc.ID, mt.Patch{Stocks: &empty})
	assert.True(t, apperror.HasCode(err, apperror.CodeMinimumLineItemsRequired), err)

	testkit.RequireDec(t, "99.9", f.Party(t, f.Customer.ID).Gold.TotalGrams)
}

func TestCreate_ValidationBeforeWrites(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	_, err := svc.Create(f.Ctx, purchase(f, "100", "0"))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), err)

	in := purchase(f, "100", "0.999")
	in.Stocks = nil
	_, err = svc.Create(f.Ctx, in)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), err)

	assert.Empty(t, f.Store.Entries())
	assert.Empty(t, f.Store.Events())
}

func TestCreate_InactivePartyRejected(t *testing.T) {
	f := testkit.New(t)

	p := f.Party(t, f.Customer.ID)
	p.IsActive = false
	require.NoError(t, f.Svc.Parties.Update(f.Ctx, p))

	_, err := f.Svc.Transactions.Create(f.Ctx, purchase(f, "100", "0.999"))
	assert.True(t, apperror.HasCode(err, apperror.CodePartyNotFoundOrInactive), err)
	assert.Empty(t, f.Store.Entries())
}

func TestCreate_SaleBeyondStockRollsBack(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions

	_, err := svc.Create(f.Ctx, purchase(f, "30", "0.999"))
	require.NoError(t, err)

	sale := purchase(f, "50", "0.999")
	sale.Type = posting.TypeSale
	_, err = svc.Create(f.Ctx, sale)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock), err)

	testkit.RequireDec(t, "30", f.Gross(t, f.Stock.ID))
	testkit.RequireDec(t, "29.97", f.Party(t, f.Customer.ID).Gold.TotalGrams)

	res, err := svc.List(f.Ctx, mt.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.TotalCount)
}

func TestCreate_NegativeStockAllowedByBranch(t *testing.T) {
	f := testkit.New(t, testkit.AllowNegativeStock())

	sale := purchase(f, "10", "0.999")
	sale.Type = posting.TypeSale
	_, err := f.Svc.Transactions.Create(f.Ctx, sale)
	require.NoError(t, err)

	testkit.RequireDec(t, "-10", f.Gross(t, f.Stock.ID))
	testkit.RequireDec(t, "-9.99", f.Party(t, f.Customer.ID).Gold.TotalGrams)
}

func TestUpdate_PartyChangeMovesBalances(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Transactions
	other := f.NewParty(t, "CUST-2", party.KindCustomer)

	in := purchase(f, "100", "0.999")
	in.Stocks[0].PurityDifference = testkit.Dec("0.5")
	in.Stocks[0].MakingCharges = posting.ChargeSpec{Amount: testkit.Dec("10")}
	doc, err := svc.Create(f.Ctx, in)
	require.NoError(t, err)
	testkit.RequireDec(t, "99.9", f.Party(t, f.Customer.ID).Gold.TotalGrams)

	fixed, unfix := true, false
	summary := posting.Summary{TotalAmount: testkit.Dec("500")}
	updated, err := svc.Update(f.Ctx, doc.ID, mt.Patch{
		PartyID: &other.ID,
		Fixed:   &fixed,
		Unfix:   &unfix,
		Summary: &summary,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.PartyID)

	old := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", old.Gold.TotalGrams)
	testkit.RequireDec(t, "0", old.CashIn("AED"))

	moved := f.Party(t, other.ID)
	testkit.RequireDec(t, "0", moved.Gold.TotalGrams)
	testkit.RequireDec(t, "500", moved.CashIn("AED"))
	testkit.RequireDec(t, "100", f.Gross(t, f.Stock.ID))

	logs, err := f.Svc.Inventory.Logs(f.Ctx, doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	for _, l := range logs {
		require.NotNil(t, l.PartyID)
		assert.Equal(t, other.ID, *l.PartyID)
	}

	require.NoError(t, svc.Delete(f.Ctx, doc.ID))
	moved = f.Party(t, other.ID)
	testkit.RequireDec(t, "0", moved.Gold.TotalGrams)
	testkit.RequireDec(t, "0", moved.CashIn("AED"))
	testkit.RequireDec(t, "0", f.Gross(t, f.Stock.ID))
}

func TestCreate_InvalidInputTakesNoNumber(t *testing.T) {
	fresh := testkit.New(t)
	want, err := fresh.Svc.Transactions.Create(fresh.Ctx, purchase(fresh, "10", "0.999"))
	require.NoError(t, err)

	f := testkit.New(t)
	svc := f.Svc.Transactions
	for i := 0; i < 3; i++ {
		_, err := svc.Create(f.Ctx, purchase(f, "10", "0"))
		require.True(t, apperror.HasCode(err, apperror.CodeValidation), err)
	}

	got, err := svc.Create(f.Ctx, purchase(f, "10", "0.999"))
	require.NoError(t, err)
	assert.Equal(t, want.Number, got.Number)
}
