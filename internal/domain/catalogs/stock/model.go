// Package stock provides the Stock catalog (metal items) and the Karat catalog.
package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// Karat is a purity grade (e.g. 22K = 0.916).
type Karat struct {
	entity.BaseCatalog

	// StandardPurity as a fraction in (0, 1]
	StandardPurity types.Purity `db:"standard_purity" json:"standardPurity"`
}

// NewKarat creates an active karat.
func NewKarat(code, name string, standardPurity types.Purity) *Karat {
	return &Karat{
		BaseCatalog:    entity.NewBaseCatalog(code, name),
		StandardPurity: types.NormalizePurity(standardPurity),
	}
}

// Validate implements entity.Validatable interface.
func (k *Karat) Validate(ctx context.Context) error {
	if err := k.BaseCatalog.Validate(ctx); err != nil {
		return err
	}
	if !types.ValidPurity(k.StandardPurity) {
		return apperror.NewValidation("standard purity must be in (0, 1]").
			WithDetail("field", "standardPurity")
	}
	return nil
}

// Stock is a metal item held at a branch.
type Stock struct {
	entity.BaseCatalog

	BranchID id.ID  `db:"branch_id" json:"branchId"`
	KaratID  *id.ID `db:"karat_id" json:"karatId,omitempty"`

	// Purity is the item's generic purity; zero when unknown
	Purity types.Purity `db:"purity" json:"purity"`

	// StandardPurity overrides the karat's standard purity; zero when unset
	StandardPurity types.Purity `db:"standard_purity" json:"standardPurity"`

	// CostCenter is stamped on confirmed registry and inventory rows
	CostCenter string `db:"cost_center" json:"costCenter,omitempty"`
}

// NewStock creates an active stock item.
func NewStock(code, name string, branchID id.ID, purity types.Purity) *Stock {
	return &Stock{
		BaseCatalog:    entity.NewBaseCatalog(code, name),
		BranchID:       branchID,
		Purity:         types.NormalizePurity(purity),
		StandardPurity: decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (s *Stock) Validate(ctx context.Context) error {
	if err := s.BaseCatalog.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(s.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}
	if !s.Purity.IsZero() && !types.ValidPurity(types.NormalizePurity(s.Purity)) {
		return apperror.NewValidation("purity must be in (0, 1]").
			WithDetail("field", "purity")
	}
	return nil
}
