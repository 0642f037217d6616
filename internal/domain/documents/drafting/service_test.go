package drafting_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/testkit"
)

func eventTypes(f *testkit.Fixture) []string {
	var out []string
	for _, e := range f.Store.Events() {
		out = append(out, e.EventType)
	}
	return out
}

func TestReject_ReleasesDraftBalanceOnly(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Drafting

	d, err := svc.Create(f.Ctx, drafting.CreateInput{
		PartyID:     f.Customer.ID,
		StockID:     f.Stock.ID,
		GrossWeight: testkit.Dec("50"),
		Purity:      testkit.Dec("1"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.Number, "DRF-"), d.Number)
	testkit.RequireDec(t, "50", d.PureWeight)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "50", p.Gold.DraftBalance)
	testkit.RequireDec(t, "0", p.Gold.TotalGrams)

	rows, err := svc.Entries(f.Ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.True(t, r.IsDraft)
		assert.Equal(t, drafting.PlaceholderCostCenter, r.CostCenter)
	}
	logs, err := f.Svc.Inventory.DraftLogs(f.Ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	// pending drafts never touch inventory
	testkit.RequireDec(t, "0", f.Gross(t, f.Stock.ID))

	rejected, err := svc.Reject(f.Ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, drafting.StatusRejected, rejected.Status)
	assert.NotNil(t, rejected.RejectedAt)

	p = f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", p.Gold.DraftBalance)
	testkit.RequireDec(t, "0", p.Gold.TotalGrams)
	assert.Empty(t, f.Store.Entries())
	logs, err = f.Svc.Inventory.DraftLogs(f.Ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	assert.Equal(t, []string{"drafting.created", "drafting.rejected"}, eventTypes(f))
}

func TestConfirmRevert_RoundTrip(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Drafting

	d, err := svc.Create(f.Ctx, drafting.CreateInput{
		PartyID:       f.Customer.ID,
		StockID:       f.Stock.ID,
		Pieces:        2,
		GrossWeight:   testkit.Dec("100"),
		PurityPercent: testkit.Dec("91.6"),
	})
	require.NoError(t, err)
	testkit.RequireDec(t, "0.916", d.Purity)
	testkit.RequireDec(t, "91.6", d.PureWeight)

	confirmed, err := svc.Confirm(f.Ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, drafting.StatusConfirmed, confirmed.Status)
	testkit.RequireDec(t, "91.6", confirmed.ConfirmedWeight)
	testkit.RequireDec(t, "0", confirmed.DraftBalanceWeight)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", p.Gold.DraftBalance)
	testkit.RequireDec(t, "91.6", p.Gold.TotalGrams)
	testkit.RequireDec(t, "100", f.Gross(t, f.Stock.ID))

	rows, err := svc.Entries(f.Ctx, d.ID)
	require.NoError(t, err)
	for _, r := range rows {
		assert.False(t, r.IsDraft)
		assert.Equal(t, "MAIN", r.CostCenter)
	}
	gb, err := f.Svc.Inventory.GoldBalanceFromLogs(f.Ctx)
	require.NoError(t, err)
	testkit.RequireDec(t, "91.6", gb.TotalPureGold)

	reverted, err := svc.Revert(f.Ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, drafting.StatusDraft, reverted.Status)
	assert.Nil(t, reverted.ConfirmedAt)

	p = f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "91.6", p.Gold.DraftBalance)
	testkit.RequireDec(t, "0", p.Gold.TotalGrams)
	testkit.RequireDec(t, "0", f.Gross(t, f.Stock.ID))

	rows, err = svc.Entries(f.Ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.True(t, r.IsDraft)
		assert.Equal(t, drafting.PlaceholderCostCenter, r.CostCenter)
	}
	gb, err = f.Svc.Inventory.GoldBalanceFromLogs(f.Ctx)
	require.NoError(t, err)
	testkit.RequireDec(t, "0", gb.TotalPureGold)

	// a reverted draft can be confirmed again
	_, err = svc.Confirm(f.Ctx, d.ID)
	require.NoError(t, err)
	testkit.RequireDec(t, "91.6", f.Party(t, f.Customer.ID).Gold.TotalGrams)

	assert.Equal(t, []string{
		"drafting.created", "drafting.confirmed", "drafting.reverted", "drafting.confirmed",
	}, eventTypes(f))
}

func TestCreate_PurityFallsBackToKarat(t *testing.T) {
	f := testkit.New(t)

	d, err := f.Svc.Drafting.Create(f.Ctx, drafting.CreateInput{
		PartyID:     f.Customer.ID,
		StockID:     f.Stock.ID,
		GrossWeight: testkit.Dec("10"),
	})
	require.NoError(t, err)
	testkit.RequireDec(t, "0.999", d.Purity)
	testkit.RequireDec(t, "9.99", d.PureWeight)
	assert.Equal(t, "AED", d.Currency)
}

func TestCreate_RejectsUnknownParty(t *testing.T) {
	f := testkit.New(t)

	stranger := f.NewParty(t, "GONE", "customer")
	p := f.Party(t, stranger.ID)
	p.IsActive = false
	require.NoError(t, f.Svc.Parties.Update(f.Ctx, p))

	_, err := f.Svc.Drafting.Create(f.Ctx, drafting.CreateInput{
		PartyID:     stranger.ID,
		StockID:     f.Stock.ID,
		GrossWeight: testkit.Dec("10"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodePartyNotFoundOrInactive), err)
	assert.Empty(t, f.Store.Entries())
}

func TestTransitions_Guarded(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Drafting

	d, err := svc.Create(f.Ctx, drafting.CreateInput{
		PartyID:     f.Customer.ID,
		StockID:     f.Stock.ID,
		GrossWeight: testkit.Dec("10"),
	})
	require.NoError(t, err)

	_, err = svc.Revert(f.Ctx, d.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState), err)

	_, err = svc.Confirm(f.Ctx, d.ID)
	require.NoError(t, err)

	_, err = svc.Reject(f.Ctx, d.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState), err)
	_, err = svc.Confirm(f.Ctx, d.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState), err)
}

func TestDelete_CompensatesByStatus(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Drafting

	create := func() *drafting.Drafting {
		d, err := svc.Create(f.Ctx, drafting.CreateInput{
			PartyID:     f.Customer.ID,
			StockID:     f.Stock.ID,
			GrossWeight: testkit.Dec("20"),
			Purity:      testkit.Dec("0.5"),
		})
		require.NoError(t, err)
		return d
	}

	pending := create()
	confirmed := create()
	_, err := svc.Confirm(f.Ctx, confirmed.ID)
	require.NoError(t, err)
	rejected := create()
	_, err = svc.Reject(f.Ctx, rejected.ID)
	require.NoError(t, err)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "10", p.Gold.DraftBalance)
	testkit.RequireDec(t, "10", p.Gold.TotalGrams)

	for _, d := range []*drafting.Drafting{pending, confirmed, rejected} {
		require.NoError(t, svc.Delete(f.Ctx, d.ID))
		_, err := svc.Get(f.Ctx, d.ID)
		assert.True(t, apperror.IsNotFound(err))
	}

	p = f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", p.Gold.DraftBalance)
	testkit.RequireDec(t, "0", p.Gold.TotalGrams)
	testkit.RequireDec(t, "0", f.Gross(t, f.Stock.ID))
	assert.Empty(t, f.Store.Entries())

	res, err := svc.List(f.Ctx, drafting.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestCreate_UnresolvedPurityStagesNothing(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Drafting
	bare := f.NewStock(t, "SCRAP", "0")

	d, err := svc.Create(f.Ctx, drafting.CreateInput{
		PartyID:     f.Customer.ID,
		StockID:     bare.ID,
		GrossWeight: testkit.Dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, drafting.StatusDraft, d.Status)
	testkit.RequireDec(t, "0", d.PureWeight)
	testkit.RequireDec(t, "0", d.DraftBalanceWeight)

	testkit.RequireDec(t, "0", f.Party(t, f.Customer.ID).Gold.DraftBalance)
	assert.Empty(t, f.Store.Entries())
	logs, err := f.Svc.Inventory.DraftLogs(f.Ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	// still nothing to resolve from
	_, err = svc.Confirm(f.Ctx, d.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), err)

	require.NoError(t, svc.Delete(f.Ctx, d.ID))
	assert.Empty(t, f.Store.Entries())
}

func TestConfirm_UnstagedDraftPostsFreshRows(t *testing.T) {
	f := testkit.New(t)
	svc := f.Svc.Drafting
	bare := f.NewStock(t, "SCRAP", "0")

	d, err := svc.Create(f.Ctx, drafting.CreateInput{
		PartyID:     f.Customer.ID,
		StockID:     bare.ID,
		Pieces:      1,
		GrossWeight: testkit.Dec("10"),
	})
	require.NoError(t, err)

	bare.Purity = testkit.Dec("0.75")
	require.NoError(t, f.Svc.Stocks.Update(f.Ctx, bare))

	confirmed, err := svc.Confirm(f.Ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, drafting.StatusConfirmed, confirmed.Status)
	testkit.RequireDec(t, "0.75", confirmed.Purity)
	testkit.RequireDec(t, "7.5", confirmed.PureWeight)
	testkit.RequireDec(t, "7.5", confirmed.ConfirmedWeight)

	p := f.Party(t, f.Customer.ID)
	testkit.RequireDec(t, "0", p.Gold.DraftBalance)
	testkit.RequireDec(t, "7.5", p.Gold.TotalGrams)
	testkit.RequireDec(t, "10", f.Gross(t, bare.ID))

	rows, err := svc.Entries(f.Ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.IsDraft)
		assert.Equal(t, "MAIN", r.CostCenter)
	}
	logs, err := f.Svc.Inventory.DraftLogs(f.Ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].IsDraft)

	require.NoError(t, svc.Delete(f.Ctx, d.ID))
	testkit.RequireDec(t, "0", f.Party(t, f.Customer.ID).Gold.TotalGrams)
	testkit.RequireDec(t, "0", f.Gross(t, bare.ID))
}
