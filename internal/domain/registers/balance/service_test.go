package balance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/apperror"
	mt "bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/testkit"
)

func line(f *testkit.Fixture, gross string) []posting.LineItem {
	return []posting.LineItem{{StockID: f.Stock.ID, GrossWeight: testkit.Dec(gross), Purity: testkit.Dec("0.999")}}
}

// purchaseThenSale leaves the customer at 49.95g after the purchase is
// partly offset by a sale.
func purchaseThenSale(t *testing.T, f *testkit.Fixture) *mt.Transaction {
	t.Helper()
	svc := f.Svc.Transactions

	purchase, err := svc.Create(f.Ctx, mt.CreateInput{
		Type: posting.TypePurchase, Unfix: true, PartyID: f.Customer.ID, Stocks: line(f, "100"),
	})
	require.NoError(t, err)
	_, err = svc.Create(f.Ctx, mt.CreateInput{
		Type: posting.TypeSale, Unfix: true, PartyID: f.Customer.ID, Stocks: line(f, "50"),
	})
	require.NoError(t, err)

	testkit.RequireDec(t, "49.95", f.Party(t, f.Customer.ID).Gold.TotalGrams)
	return purchase
}

func TestReverse_GuardRejectsNegativeGold(t *testing.T) {
	f := testkit.New(t, testkit.GuardNegativeOnReversal())
	purchase := purchaseThenSale(t, f)

	err := f.Svc.Transactions.Delete(f.Ctx, purchase.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance), err)

	testkit.RequireDec(t, "49.95", f.Party(t, f.Customer.ID).Gold.TotalGrams)
}

func TestReverse_UnguardedAllowsNegative(t *testing.T) {
	f := testkit.New(t)
	purchase := purchaseThenSale(t, f)

	require.NoError(t, f.Svc.Transactions.Delete(f.Ctx, purchase.ID))
	testkit.RequireDec(t, "-49.95", f.Party(t, f.Customer.ID).Gold.TotalGrams)
}

func TestApply_CreatesCashRowsPerCurrency(t *testing.T) {
	f := testkit.New(t)

	err := f.Store.RunInTransaction(f.Ctx, func(ctx context.Context) error {
		return f.Svc.Balances.Apply(ctx, posting.BalanceDelta{
			PartyID:  f.Customer.ID,
			Currency: "USD",
			Cash:     testkit.Dec("15"),
			Accounts: []posting.AccountDelta{
				{PartyID: f.AccountA.ID, Currency: "USD", Cash: testkit.Dec("-3")},
				{PartyID: f.AccountB.ID, Currency: "USD", Cash: testkit.Dec("3")},
			},
		})
	})
	require.NoError(t, err)

	p := f.Party(t, f.Customer.ID)
	require.Len(t, p.Cash, 1)
	assert.Equal(t, "USD", p.Cash[0].Currency)
	// the party settles in AED, so a USD row is not its default
	assert.False(t, p.Cash[0].IsDefault)
	testkit.RequireDec(t, "15", p.CashIn("USD"))
	testkit.RequireDec(t, "-3", f.Party(t, f.AccountA.ID).CashIn("USD"))
}

func TestPromoteDemote(t *testing.T) {
	f := testkit.New(t)
	balances := f.Svc.Balances

	err := f.Store.RunInTransaction(f.Ctx, func(ctx context.Context) error {
		if err := balances.IncrementDraft(ctx, f.Customer.ID, testkit.Dec("12")); err != nil {
			return err
		}
		return balances.Promote(ctx, f.Customer.ID, testkit.Dec("12"))
	})
	require.NoError(t, err)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", p.Gold.DraftBalance)
	testkit.RequireDec(t, "12", p.Gold.TotalGrams)

	err = f.Store.RunInTransaction(f.Ctx, func(ctx context.Context) error {
		return balances.Demote(ctx, f.Customer.ID, testkit.Dec("12"))
	})
	require.NoError(t, err)

	p = f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "12", p.Gold.DraftBalance)
	testkit.RequireDec(t, "0", p.Gold.TotalGrams)
}
