// Package testkit builds a fully wired in-memory ledger for service tests.
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/app"
	appctx "bullionledger/internal/core/context"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/numerator"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/infrastructure/storage/memory"
)

// Actor is the user id every fixture context carries.
const Actor = "tester"

// Fixture is a seeded ledger: one branch, a 24K karat, one stock of it,
// a customer and two other-charge accounts.
type Fixture struct {
	Ctx   context.Context
	Store *memory.Store
	Svc   *app.Services

	Branch   *branch.Branch
	Karat    *stock.Karat
	Stock    *stock.Stock
	Customer *party.Party
	AccountA *party.Party
	AccountB *party.Party
}

// Option adjusts fixture construction.
type Option func(*options)

type options struct {
	settings branch.Settings
	cfg      app.Config
}

// AllowNegativeStock lets the fixture branch go below zero.
func AllowNegativeStock() Option {
	return func(o *options) { o.settings.AllowNegativeStock = true }
}

// GuardNegativeOnReversal turns on the reversal guard in the balance updater.
func GuardNegativeOnReversal() Option {
	return func(o *options) { o.cfg.Balance.GuardNegativeOnReversal = true }
}

// New builds and seeds a fixture.
func New(t testing.TB, opts ...Option) *Fixture {
	t.Helper()

	o := options{cfg: app.Config{
		Transactions:     metal_transaction.Config{CostCenter: "MAIN"},
		PriceLockTimeout: time.Second,
	}}
	o.cfg.Drafting.DefaultCostCenter = "MAIN"
	for _, opt := range opts {
		opt(&o)
	}

	store := memory.New()
	svc := app.New(store.Repositories(numerator.NewMemory()), o.cfg)
	ctx := appctx.WithActor(context.Background(), Actor)

	f := &Fixture{Ctx: ctx, Store: store, Svc: svc}

	f.Branch = branch.NewBranch("HQ", "Head office", o.settings)
	require.NoError(t, svc.Branches.Create(ctx, f.Branch))

	f.Karat = stock.NewKarat("24K", "24 karat", decimal.RequireFromString("0.999"))
	require.NoError(t, svc.Stocks.Karats().Create(ctx, f.Karat))

	f.Stock = stock.NewStock("BAR-1KG", "Kilo bar", f.Branch.ID, decimal.RequireFromString("0.999"))
	f.Stock.KaratID = &f.Karat.ID
	require.NoError(t, svc.Stocks.Create(ctx, f.Stock))

	f.Customer = f.NewParty(t, "CUST-1", party.KindCustomer)
	f.AccountA = f.NewParty(t, "ACC-FREIGHT", party.KindAccount)
	f.AccountB = f.NewParty(t, "ACC-PAYABLE", party.KindAccount)

	return f
}

// NewParty creates an active AED party.
func (f *Fixture) NewParty(t testing.TB, code string, kind party.Kind) *party.Party {
	t.Helper()
	p := party.NewParty(code, code, kind, "aed")
	require.NoError(t, f.Svc.Parties.Create(f.Ctx, p))
	return p
}

// NewStock creates another stock in the fixture branch.
func (f *Fixture) NewStock(t testing.TB, code string, purity string) *stock.Stock {
	t.Helper()
	st := stock.NewStock(code, code, f.Branch.ID, decimal.RequireFromString(purity))
	require.NoError(t, f.Svc.Stocks.Create(f.Ctx, st))
	return st
}

// Party reloads a party with its balances.
func (f *Fixture) Party(t testing.TB, partyID id.ID) *party.Party {
	t.Helper()
	p, err := f.Svc.Parties.GetByID(f.Ctx, partyID)
	require.NoError(t, err)
	return p
}

// Gross returns the stock's inventory gross weight.
func (f *Fixture) Gross(t testing.TB, stockID id.ID) decimal.Decimal {
	t.Helper()
	invs, err := f.Svc.Inventory.Inventories(f.Ctx)
	require.NoError(t, err)
	for _, inv := range invs {
		if inv.StockID == stockID {
			return inv.GrossWeight
		}
	}
	return decimal.Zero
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// RequireDec asserts that got equals the decimal literal want.
func RequireDec(t testing.TB, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, Dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
