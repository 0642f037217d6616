package drafting

import "bullionledger/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for drafts.
	// Drafts are staging records, so gaps are acceptable.
	NumeratorStrategy = numerator.StrategyCached

	entityName = "drafting"
)

// Config tunes the draft workflow.
type Config struct {
	// DefaultCostCenter is used on confirmation when the stock has none
	DefaultCostCenter string
}
