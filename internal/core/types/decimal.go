// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Grams is a metal weight in grams.
type Grams = decimal.Decimal

// Purity is a metal fineness in the (0, 1] range (0.999 for 24K).
type Purity = decimal.Decimal

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustGrams is MustMoney for weights.
func MustGrams(s string) Grams {
	return MustMoney(s)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// NormalizePurity converts a percentage-style purity (99.9) to a fraction (0.999).
// Values already in (0, 1] are returned unchanged.
func NormalizePurity(p decimal.Decimal) Purity {
	if p.GreaterThan(one) {
		return p.Div(hundred)
	}
	return p
}

// ValidPurity reports whether p lies in (0, 1].
func ValidPurity(p Purity) bool {
	return p.IsPositive() && p.LessThanOrEqual(one)
}

// PureWeight returns gross × purity.
func PureWeight(gross Grams, purity Purity) Grams {
	return gross.Mul(purity)
}

// Percent returns base × pct / 100.
func Percent(base Money, pct decimal.Decimal) Money {
	return base.Mul(pct).Div(hundred)
}

// Sign returns -1, 0 or +1 as a decimal multiplier.
func Sign(n int) decimal.Decimal {
	switch {
	case n > 0:
		return one
	case n < 0:
		return one.Neg()
	default:
		return decimal.Zero
	}
}
