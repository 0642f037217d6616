package metal_transaction

import "bullionledger/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Metal transactions are accounting vouchers, so numbers must not skip.
	NumeratorStrategy = numerator.StrategyStrict

	entityName = "metal_transaction"
)

// Config tunes the orchestrator.
type Config struct {
	// CostCenter is stamped on registry and inventory rows of transactions
	CostCenter string
}
