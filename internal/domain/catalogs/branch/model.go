// Package branch provides the Branch catalog (trading locations).
package branch

import (
	"context"

	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/domain"
)

// Settings holds per-branch inventory policy.
type Settings struct {
	// AllowNegativeStock lets movements drive inventory below zero
	AllowNegativeStock bool `db:"allow_negative_stock" json:"allowNegativeStock"`
}

// Branch is a trading location that owns stock.
type Branch struct {
	entity.BaseCatalog
	Settings
}

// NewBranch creates an active branch.
func NewBranch(code, name string, settings Settings) *Branch {
	return &Branch{
		BaseCatalog: entity.NewBaseCatalog(code, name),
		Settings:    settings,
	}
}

// Validate implements entity.Validatable interface.
func (b *Branch) Validate(ctx context.Context) error {
	return b.BaseCatalog.Validate(ctx)
}

// Repository defines the interface for Branch persistence.
type Repository interface {
	domain.CatalogRepository[*Branch]
}

// Service provides business logic for the Branch catalog.
type Service struct {
	*domain.CatalogService[*Branch]
	repo Repository
}

// NewService creates a new Branch service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Branch](repo, txManager, "branch"),
		repo:           repo,
	}
}

// Settings returns a branch's inventory policy.
func (s *Service) Settings(ctx context.Context, branchID id.ID) (Settings, error) {
	b, err := s.GetByID(ctx, branchID)
	if err != nil {
		return Settings{}, err
	}
	return b.Settings, nil
}
