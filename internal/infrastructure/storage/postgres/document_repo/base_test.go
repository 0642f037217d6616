package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
)

func TestTransactionColumns(t *testing.T) {
	repo := NewTransactionRepo(nil)

	assert.Equal(t, []string{
		"id", "version", "created_at", "updated_at", "created_by", "updated_by",
		"number", "date", "notes",
		"type", "fixed", "unfix", "party_id", "party_currency",
		"stocks", "other_charges", "vat", "summary", "is_active",
	}, repo.selectCols)
}

func TestTransactionFilter(t *testing.T) {
	repo := NewTransactionRepo(nil)
	partyID := id.New()
	saleType := posting.TypeSale
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.filter(metal_transaction.ListFilter{
		PartyID:  &partyID,
		Type:     &saleType,
		DateFrom: &from,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM doc_metal_transactions WHERE party_id = $1 AND type = $2 AND date >= $3")
	assert.Equal(t, []any{partyID, saleType, from}, args)
}

func TestTransactionFilterEmpty(t *testing.T) {
	repo := NewTransactionRepo(nil)

	sql, args, err := repo.filter(metal_transaction.ListFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}
