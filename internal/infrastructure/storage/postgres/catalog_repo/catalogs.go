package catalog_repo

import (
	"bullionledger/internal/core/entity"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/infrastructure/storage/postgres"
)

const (
	branchTable = "cat_branches"
	stockTable  = "cat_stocks"
	karatTable  = "cat_karats"
)

// BranchRepo implements branch.Repository.
type BranchRepo struct {
	*BaseCatalogRepo[*branch.Branch]
}

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txManager *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager, branchTable, "branch",
			postgres.ExtractDBColumns[branch.Branch](),
			func() *branch.Branch { return &branch.Branch{} },
			func(b *branch.Branch) *entity.BaseCatalog { return &b.BaseCatalog },
		),
	}
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	*BaseCatalogRepo[*stock.Stock]
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager, stockTable, "stock",
			postgres.ExtractDBColumns[stock.Stock](),
			func() *stock.Stock { return &stock.Stock{} },
			func(s *stock.Stock) *entity.BaseCatalog { return &s.BaseCatalog },
		),
	}
}

// KaratRepo implements stock.KaratRepository.
type KaratRepo struct {
	*BaseCatalogRepo[*stock.Karat]
}

// NewKaratRepo creates a new karat repository.
func NewKaratRepo(txManager *postgres.TxManager) *KaratRepo {
	return &KaratRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager, karatTable, "karat",
			postgres.ExtractDBColumns[stock.Karat](),
			func() *stock.Karat { return &stock.Karat{} },
			func(k *stock.Karat) *entity.BaseCatalog { return &k.BaseCatalog },
		),
	}
}

var (
	_ branch.Repository     = (*BranchRepo)(nil)
	_ stock.Repository      = (*StockRepo)(nil)
	_ stock.KaratRepository = (*KaratRepo)(nil)
)
