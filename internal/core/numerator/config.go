// Package numerator provides contracts for voucher auto-numbering.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict takes one number per round trip. No gaps.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges in memory. Gaps appear after a restart.
	StrategyCached
)

// Voucher prefixes.
const (
	PrefixPurchase       = "PUR"
	PrefixSale           = "SAL"
	PrefixPurchaseReturn = "PRT"
	PrefixSaleReturn     = "SRT"
	PrefixDraft          = "DRF"
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "PUR", "DRF")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}
