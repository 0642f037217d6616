package drafting

import (
	"context"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain"
)

// Repository defines persistence for drafts.
type Repository interface {
	Create(ctx context.Context, d *Drafting) error
	GetByID(ctx context.Context, id id.ID) (*Drafting, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Drafting, error)
	Update(ctx context.Context, d *Drafting) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Drafting], error)
}
