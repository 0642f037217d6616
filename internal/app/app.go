// Package app assembles domain services from a set of repositories.
package app

import (
	"time"

	"bullionledger/internal/core/numerator"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/domain/audit"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/events"
	"bullionledger/internal/domain/pricelock"
	"bullionledger/internal/domain/registers/balance"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
)

// Repositories is the storage a backend provides.
type Repositories struct {
	TxManager    tx.Manager
	Parties      party.Repository
	Branches     branch.Repository
	Stocks       stock.Repository
	Karats       stock.KaratRepository
	Registry     registry.Repository
	Inventory    inventory.Repository
	Transactions metal_transaction.Repository
	Drafts       drafting.Repository
	PriceLocks   pricelock.Repository
	Audit        audit.Recorder
	Outbox       events.Publisher
	Numerator    numerator.Generator

	// BranchSettings overrides the branch catalog as the settings source,
	// e.g. with a cache in front of it.
	BranchSettings inventory.BranchSettings
}

// Config tunes the assembled services.
type Config struct {
	Balance          balance.Config
	Transactions     metal_transaction.Config
	Drafting         drafting.Config
	PriceLockTimeout time.Duration
}

// Services are the assembled domain services.
type Services struct {
	Parties      *party.Service
	Branches     *branch.Service
	Stocks       *stock.Service
	Registry     *registry.Service
	Balances     *balance.Service
	Inventory    *inventory.Service
	Transactions *metal_transaction.Service
	Drafting     *drafting.Service
	PriceLocks   *pricelock.Recorder
}

// New wires services over repos.
func New(repos Repositories, cfg Config) *Services {
	parties := party.NewService(repos.Parties, repos.TxManager)
	branches := branch.NewService(repos.Branches, repos.TxManager)
	stocks := stock.NewService(repos.Stocks, repos.Karats, repos.TxManager)
	reg := registry.NewService(repos.Registry)
	balances := balance.NewService(repos.Parties, cfg.Balance)

	var settings inventory.BranchSettings = branches
	if repos.BranchSettings != nil {
		settings = repos.BranchSettings
	}
	inv := inventory.NewService(repos.Inventory, stocks, settings, reg)
	locks := pricelock.NewRecorder(repos.PriceLocks, cfg.PriceLockTimeout)

	transactions := metal_transaction.NewService(metal_transaction.Deps{
		Repo:      repos.Transactions,
		Parties:   parties,
		Stocks:    stocks,
		Registry:  reg,
		Balances:  balances,
		Inventory: inv,
		Numerator: repos.Numerator,
		TxManager: repos.TxManager,
		Outbox:    repos.Outbox,
		Audit:     repos.Audit,
		Locks:     locks,
	}, cfg.Transactions)

	drafts := drafting.NewService(drafting.Deps{
		Repo:      repos.Drafts,
		Parties:   parties,
		Stocks:    stocks,
		Registry:  reg,
		Balances:  balances,
		Inventory: inv,
		Numerator: repos.Numerator,
		TxManager: repos.TxManager,
		Outbox:    repos.Outbox,
		Audit:     repos.Audit,
	}, cfg.Drafting)

	return &Services{
		Parties:      parties,
		Branches:     branches,
		Stocks:       stocks,
		Registry:     reg,
		Balances:     balances,
		Inventory:    inv,
		Transactions: transactions,
		Drafting:     drafts,
		PriceLocks:   locks,
	}
}
