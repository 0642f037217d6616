// Package posting turns a metal transaction into registry entries and balance deltas.
//
// Everything here is pure: the same input always yields the same entries, so the
// orchestrator can rebuild them after an edit instead of patching stored rows.
package posting

import (
	"fmt"
)

// TransactionType is the business event being recorded.
type TransactionType string

const (
	TypePurchase       TransactionType = "purchase"
	TypeSale           TransactionType = "sale"
	TypePurchaseReturn TransactionType = "purchaseReturn"
	TypeSaleReturn     TransactionType = "saleReturn"
)

// TransactionTypes lists every supported type.
var TransactionTypes = []TransactionType{TypePurchase, TypeSale, TypePurchaseReturn, TypeSaleReturn}

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypePurchase, TypeSale, TypePurchaseReturn, TypeSaleReturn:
		return true
	}
	return false
}

// Direction is +1 when metal flows into the house and -1 when it leaves.
func (t TransactionType) Direction() int {
	switch t {
	case TypePurchase, TypeSaleReturn:
		return 1
	case TypeSale, TypePurchaseReturn:
		return -1
	}
	return 0
}

// Mode is the pricing mode of a transaction.
type Mode string

const (
	// ModeFix means the price is locked against a market rate.
	ModeFix Mode = "fix"
	// ModeUnfix means weight is recorded and the price stays open.
	ModeUnfix Mode = "unfix"
)

// DeriveMode resolves the stored flags into a mode.
// Only fixed=true with unfix=false is fix; every other combination is unfix.
func DeriveMode(fixed, unfix bool) Mode {
	if fixed && !unfix {
		return ModeFix
	}
	return ModeUnfix
}

// Variant is one of the eight (type, mode) combinations.
type Variant struct {
	Type TransactionType
	Mode Mode
}

// NewVariant builds the variant for a transaction's stored flags.
func NewVariant(t TransactionType, fixed, unfix bool) Variant {
	return Variant{Type: t, Mode: DeriveMode(fixed, unfix)}
}

func (v Variant) String() string {
	return fmt.Sprintf("%s/%s", v.Type, v.Mode)
}

// LocksPrice reports whether committing this variant records a pricing lock.
func (v Variant) LocksPrice() bool {
	return v.Mode == ModeFix && (v.Type == TypePurchase || v.Type == TypeSale)
}

// Variants returns all eight variants in a stable order.
func Variants() []Variant {
	out := make([]Variant, 0, len(TransactionTypes)*2)
	for _, t := range TransactionTypes {
		out = append(out, Variant{t, ModeUnfix}, Variant{t, ModeFix})
	}
	return out
}
