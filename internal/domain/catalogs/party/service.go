package party

import (
	"context"
	"strings"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/domain"
)

// Service provides business logic for the Party catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Party]
	repo Repository
}

// NewService creates a new Party service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Party](repo, txManager, "party")

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.normalize)
	base.Hooks().On(domain.BeforeUpdate, svc.normalize)

	return svc
}

func (s *Service) normalize(_ context.Context, p *Party) error {
	p.Currency = strings.ToUpper(p.Currency)
	p.Code = strings.TrimSpace(p.Code)
	return nil
}

// GetActive loads a party and fails unless it exists and is active.
// Must run inside a unit of work; the row is locked for the balance writes that follow.
func (s *Service) GetActive(ctx context.Context, partyID id.ID) (*Party, error) {
	p, err := s.repo.GetForUpdate(ctx, partyID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewPartyNotFoundOrInactive(partyID.String())
		}
		return nil, apperror.Persist("load party", err)
	}
	if !p.IsActive {
		return nil, apperror.NewPartyNotFoundOrInactive(partyID.String())
	}
	return p, nil
}
