package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/domain"
)

func TestApplyFilter(t *testing.T) {
	repo := NewKaratRepo(nil)
	ids := []id.ID{id.New()}

	tests := []struct {
		name     string
		filter   domain.ListFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter",
			filter:  domain.ListFilter{},
			wantSQL: "SELECT id, version, code, name, is_active, standard_purity FROM cat_karats",
		},
		{
			name:     "active only",
			filter:   domain.ListFilter{OnlyActive: true},
			wantSQL:  "SELECT id, version, code, name, is_active, standard_purity FROM cat_karats WHERE is_active = $1",
			wantArgs: []any{true},
		},
		{
			name:     "ids",
			filter:   domain.ListFilter{IDs: ids},
			wantSQL:  "SELECT id, version, code, name, is_active, standard_purity FROM cat_karats WHERE id IN ($1)",
			wantArgs: []any{ids[0]},
		},
		{
			name:     "search",
			filter:   domain.ListFilter{Search: " 22k "},
			wantSQL:  "SELECT id, version, code, name, is_active, standard_purity FROM cat_karats WHERE (name ILIKE $1 OR code ILIKE $2)",
			wantArgs: []any{"%22k%", "%22k%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.applyFilter(repo.baseSelect(), tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := NewStockRepo(nil)

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	got, err = repo.parseOrderBy("-code")
	require.NoError(t, err)
	assert.Equal(t, "code DESC", got)

	got, err = repo.parseOrderBy("+purity")
	require.NoError(t, err)
	assert.Equal(t, "purity ASC", got)

	_, err = repo.parseOrderBy("name; DROP TABLE cat_stocks")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
