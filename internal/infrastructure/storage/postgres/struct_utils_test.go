package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
)

func TestExtractDBColumns_SkipsBalanceFields(t *testing.T) {
	cols := ExtractDBColumns[*party.Party]()

	assert.Equal(t, []string{"id", "version", "code", "name", "is_active", "kind", "currency"}, cols)
}

func TestExtractDBColumns_EmbeddedAndPointerFields(t *testing.T) {
	cols := ExtractDBColumns[stock.Stock]()

	for _, want := range []string{"id", "version", "code", "branch_id", "karat_id", "purity", "standard_purity", "cost_center"} {
		assert.Contains(t, cols, want)
	}
}

func TestStructToMap(t *testing.T) {
	p := party.NewParty("C-001", "Acme Bullion", party.KindCustomer, "aed")

	m := StructToMap(p)

	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "C-001", m["code"])
	assert.Equal(t, "AED", m["currency"])
	assert.Equal(t, party.KindCustomer, m["kind"])
	assert.Len(t, m, 7)

	// second call is served from the type cache
	assert.Equal(t, m, StructToMap(p))
}

func TestStructToMap_NilAndNonStruct(t *testing.T) {
	var p *party.Party
	assert.Nil(t, StructToMap(p))
	assert.Nil(t, StructToMap(id.New()))
}
