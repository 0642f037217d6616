package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bullionledger/internal/core/entity"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const draftingTable = "doc_draftings"

// DraftingRepo implements drafting.Repository.
type DraftingRepo struct {
	*BaseDocumentRepo[*drafting.Drafting]
}

var _ drafting.Repository = (*DraftingRepo)(nil)

// NewDraftingRepo creates a new drafting repository.
func NewDraftingRepo(txManager *postgres.TxManager) *DraftingRepo {
	return &DraftingRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager, draftingTable, "draft",
			postgres.ExtractDBColumns[drafting.Drafting](),
			func() *drafting.Drafting { return &drafting.Drafting{} },
			func(d *drafting.Drafting) *entity.Document { return &d.Document },
		),
	}
}

// List returns drafts newest first.
func (r *DraftingRepo) List(ctx context.Context, filter drafting.ListFilter) (domain.ListResult[*drafting.Drafting], error) {
	q := r.baseSelect()
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.PartyID != nil {
		q = q.Where(squirrel.Eq{"party_id": *filter.PartyID})
	}
	return r.page(ctx, q, filter.Limit, filter.Offset, "created_at DESC", "id")
}
