package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bullionledger/internal/core/entity"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const transactionTable = "doc_metal_transactions"

// TransactionRepo implements metal_transaction.Repository.
// Line items, other charges, VAT policy and summary are stored as jsonb.
type TransactionRepo struct {
	*BaseDocumentRepo[*metal_transaction.Transaction]
}

var _ metal_transaction.Repository = (*TransactionRepo)(nil)

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager, transactionTable, "transaction",
			postgres.ExtractDBColumns[metal_transaction.Transaction](),
			func() *metal_transaction.Transaction { return &metal_transaction.Transaction{} },
			func(t *metal_transaction.Transaction) *entity.Document { return &t.Document },
		),
	}
}

// List returns transactions newest first.
func (r *TransactionRepo) List(ctx context.Context, filter metal_transaction.ListFilter) (domain.ListResult[*metal_transaction.Transaction], error) {
	return r.page(ctx, r.filter(filter), filter.Limit, filter.Offset, "date DESC", "number")
}

func (r *TransactionRepo) filter(f metal_transaction.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if f.PartyID != nil {
		q = q.Where(squirrel.Eq{"party_id": *f.PartyID})
	}
	if f.Type != nil {
		q = q.Where(squirrel.Eq{"type": *f.Type})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}
	return q
}
