package dto

import (
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
)

// TransactionResponse is a voucher with its computed totals.
type TransactionResponse struct {
	*metal_transaction.Transaction
	Totals posting.Totals `json:"totals"`
}

// FromTransaction creates TransactionResponse from a voucher.
func FromTransaction(t *metal_transaction.Transaction) TransactionResponse {
	return TransactionResponse{Transaction: t, Totals: t.Totals()}
}

// EntriesResponse lists the registry rows and inventory logs of a voucher.
type EntriesResponse struct {
	Entries []registry.Entry `json:"entries"`
	Logs    []inventory.Log  `json:"inventoryLogs"`
}

// NewEntriesResponse never renders null lists.
func NewEntriesResponse(entries []registry.Entry, logs []inventory.Log) EntriesResponse {
	if entries == nil {
		entries = []registry.Entry{}
	}
	if logs == nil {
		logs = []inventory.Log{}
	}
	return EntriesResponse{Entries: entries, Logs: logs}
}
