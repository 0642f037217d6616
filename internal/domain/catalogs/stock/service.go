package stock

import (
	"context"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain"
)

// Service provides business logic for the Stock catalog.
type Service struct {
	*domain.CatalogService[*Stock]
	repo   Repository
	karats *domain.CatalogService[*Karat]
}

// NewService creates a new Stock service.
func NewService(repo Repository, karats KaratRepository, txManager tx.Manager) *Service {
	svc := &Service{
		CatalogService: domain.NewCatalogService[*Stock](repo, txManager, "stock"),
		repo:           repo,
		karats:         domain.NewCatalogService[*Karat](karats, txManager, "karat"),
	}

	svc.Hooks().On(domain.BeforeCreate, svc.checkKarat)
	svc.Hooks().On(domain.BeforeUpdate, svc.checkKarat)

	return svc
}

// Karats exposes CRUD for the karat catalog.
func (s *Service) Karats() *domain.CatalogService[*Karat] {
	return s.karats
}

func (s *Service) checkKarat(ctx context.Context, st *Stock) error {
	if st.KaratID == nil {
		return nil
	}
	if _, err := s.karats.GetByID(ctx, *st.KaratID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("unknown karat").
				WithDetail("field", "karatId").
				WithDetail("value", st.KaratID.String())
		}
		return err
	}
	return nil
}

// Resolved is a stock with its karat standard purity loaded.
type Resolved struct {
	*Stock
	KaratPurity types.Purity
}

// Resolve loads a stock and its karat. Missing stock is NotFound.
func (s *Service) Resolve(ctx context.Context, stockID id.ID) (Resolved, error) {
	st, err := s.GetByID(ctx, stockID)
	if err != nil {
		return Resolved{}, err
	}
	out := Resolved{Stock: st}
	if st.KaratID != nil {
		k, err := s.karats.GetByID(ctx, *st.KaratID)
		if err != nil && !apperror.IsNotFound(err) {
			return Resolved{}, err
		}
		if k != nil {
			out.KaratPurity = k.StandardPurity
		}
	}
	return out, nil
}

// Purities returns the purity fallbacks in resolution order: karat
// standard purity, the stock's own standard purity, its generic purity.
func (r Resolved) Purities() []types.Purity {
	return []types.Purity{r.KaratPurity, r.StandardPurity, r.Purity}
}
