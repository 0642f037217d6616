// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/registry"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const registryTable = "reg_registry_entries"

var registryColumns = postgres.ExtractDBColumns[registry.Entry]()

// RegistryRepo implements registry.Repository.
type RegistryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ registry.Repository = (*RegistryRepo)(nil)

// NewRegistryRepo creates a new registry repository.
func NewRegistryRepo(txManager *postgres.TxManager) *RegistryRepo {
	return &RegistryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateEntries copies rows in with the COPY protocol.
func (r *RegistryRepo) CreateEntries(ctx context.Context, entries []registry.Entry) error {
	_, err := postgres.CopyRows(ctx, r.txManager, registryTable, registryColumns, entries, func(e registry.Entry) []any {
		m := postgres.StructToMap(e)
		row := make([]any, len(registryColumns))
		for i, col := range registryColumns {
			row[i] = m[col]
		}
		return row
	})
	return err
}

func (r *RegistryRepo) list(ctx context.Context, where squirrel.Sqlizer) ([]registry.Entry, error) {
	sql, args, err := r.builder.
		Select(registryColumns...).
		From(registryTable).
		Where(where).
		OrderBy("correlation_id", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []registry.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select registry entries: %w", err)
	}
	return out, nil
}

// ListByTransaction returns rows owned by a transaction in correlation order.
func (r *RegistryRepo) ListByTransaction(ctx context.Context, transactionID id.ID) ([]registry.Entry, error) {
	return r.list(ctx, squirrel.Eq{"transaction_id": transactionID})
}

// ListByDraft returns rows created for a draft.
func (r *RegistryRepo) ListByDraft(ctx context.Context, draftID id.ID) ([]registry.Entry, error) {
	return r.list(ctx, squirrel.Eq{"draft_id": draftID})
}

func (r *RegistryRepo) exec(ctx context.Context, q squirrel.Sqlizer, op string) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByTransaction removes every row owned by a transaction.
func (r *RegistryRepo) DeleteByTransaction(ctx context.Context, transactionID id.ID) (int64, error) {
	return r.exec(ctx, r.builder.Delete(registryTable).
		Where(squirrel.Eq{"transaction_id": transactionID}), "delete registry entries")
}

// DeleteByDraft removes a draft's rows; onlyDraft keeps rows already confirmed.
func (r *RegistryRepo) DeleteByDraft(ctx context.Context, draftID id.ID, onlyDraft bool) (int64, error) {
	q := r.builder.Delete(registryTable).Where(squirrel.Eq{"draft_id": draftID})
	if onlyDraft {
		q = q.Where(squirrel.Eq{"is_draft": true})
	}
	return r.exec(ctx, q, "delete draft registry entries")
}

// SetDraftState flips the draft flag and cost center on a draft's rows.
func (r *RegistryRepo) SetDraftState(ctx context.Context, draftID id.ID, isDraft bool, costCenter string) (int64, error) {
	return r.exec(ctx, r.builder.Update(registryTable).
		Set("is_draft", isDraft).
		Set("cost_center", costCenter).
		Where(squirrel.Eq{"draft_id": draftID}), "set registry draft state")
}

// FindOne returns the first row of type t for a transaction and party, or nil.
func (r *RegistryRepo) FindOne(ctx context.Context, transactionID, partyID id.ID, t posting.EntryType) (*registry.Entry, error) {
	sql, args, err := r.builder.
		Select(registryColumns...).
		From(registryTable).
		Where(squirrel.Eq{
			"transaction_id": transactionID,
			"party_id":       partyID,
			"type":           t,
		}).
		OrderBy("correlation_id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e registry.Entry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find registry entry: %w", err)
	}
	return &e, nil
}
