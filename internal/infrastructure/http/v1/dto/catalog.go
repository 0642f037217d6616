package dto

import (
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
)

// --- Party ---

// PartyResponse includes the party's balances.
type PartyResponse struct {
	CatalogResponse
	Kind     party.Kind          `json:"kind"`
	Currency string              `json:"currency"`
	Gold     party.GoldBalance   `json:"gold"`
	Cash     []party.CashBalance `json:"cash"`
}

// FromParty creates PartyResponse from party.Party.
func FromParty(p *party.Party) any {
	cash := p.Cash
	if cash == nil {
		cash = []party.CashBalance{}
	}
	return PartyResponse{
		CatalogResponse: FromCatalog(p.BaseCatalog),
		Kind:            p.Kind,
		Currency:        p.Currency,
		Gold:            p.Gold,
		Cash:            cash,
	}
}

// CreatePartyRequest for creating parties.
type CreatePartyRequest struct {
	CreateCatalogRequest
	Kind     party.Kind `json:"kind" binding:"required,oneof=customer supplier account"`
	Currency string     `json:"currency" binding:"required,len=3"`
}

// ToParty maps the request to a new party.
func (r CreatePartyRequest) ToParty() *party.Party {
	return party.NewParty(r.Code, r.Name, r.Kind, r.Currency)
}

// UpdatePartyRequest for updating parties. Balances are not editable.
type UpdatePartyRequest struct {
	UpdateCatalogRequest
	Kind     *party.Kind `json:"kind"`
	Currency *string     `json:"currency"`
}

// ApplyTo copies set fields onto p.
func (r UpdatePartyRequest) ApplyTo(p *party.Party) *party.Party {
	r.UpdateCatalogRequest.ApplyTo(&p.BaseCatalog)
	if r.Kind != nil {
		p.Kind = *r.Kind
	}
	if r.Currency != nil {
		p.Currency = *r.Currency
	}
	return p
}

// --- Branch ---

// BranchResponse for branches.
type BranchResponse struct {
	CatalogResponse
	branch.Settings
}

// FromBranch creates BranchResponse from branch.Branch.
func FromBranch(b *branch.Branch) any {
	return BranchResponse{
		CatalogResponse: FromCatalog(b.BaseCatalog),
		Settings:        b.Settings,
	}
}

// CreateBranchRequest for creating branches.
type CreateBranchRequest struct {
	CreateCatalogRequest
	AllowNegativeStock bool `json:"allowNegativeStock"`
}

// ToBranch maps the request to a new branch.
func (r CreateBranchRequest) ToBranch() *branch.Branch {
	return branch.NewBranch(r.Code, r.Name, branch.Settings{AllowNegativeStock: r.AllowNegativeStock})
}

// UpdateBranchRequest for updating branches.
type UpdateBranchRequest struct {
	UpdateCatalogRequest
	AllowNegativeStock *bool `json:"allowNegativeStock"`
}

// ApplyTo copies set fields onto b.
func (r UpdateBranchRequest) ApplyTo(b *branch.Branch) *branch.Branch {
	r.UpdateCatalogRequest.ApplyTo(&b.BaseCatalog)
	if r.AllowNegativeStock != nil {
		b.AllowNegativeStock = *r.AllowNegativeStock
	}
	return b
}

// --- Karat ---

// KaratResponse for karats.
type KaratResponse struct {
	CatalogResponse
	StandardPurity types.Purity `json:"standardPurity"`
}

// FromKarat creates KaratResponse from stock.Karat.
func FromKarat(k *stock.Karat) any {
	return KaratResponse{
		CatalogResponse: FromCatalog(k.BaseCatalog),
		StandardPurity:  k.StandardPurity,
	}
}

// CreateKaratRequest for creating karats.
type CreateKaratRequest struct {
	CreateCatalogRequest
	StandardPurity types.Purity `json:"standardPurity"`
}

// ToKarat maps the request to a new karat.
func (r CreateKaratRequest) ToKarat() *stock.Karat {
	return stock.NewKarat(r.Code, r.Name, r.StandardPurity)
}

// UpdateKaratRequest for updating karats.
type UpdateKaratRequest struct {
	UpdateCatalogRequest
	StandardPurity *types.Purity `json:"standardPurity"`
}

// ApplyTo copies set fields onto k.
func (r UpdateKaratRequest) ApplyTo(k *stock.Karat) *stock.Karat {
	r.UpdateCatalogRequest.ApplyTo(&k.BaseCatalog)
	if r.StandardPurity != nil {
		k.StandardPurity = types.NormalizePurity(*r.StandardPurity)
	}
	return k
}

// --- Stock ---

// StockResponse for stock items.
type StockResponse struct {
	CatalogResponse
	BranchID       id.ID        `json:"branchId"`
	KaratID        *id.ID       `json:"karatId,omitempty"`
	Purity         types.Purity `json:"purity"`
	StandardPurity types.Purity `json:"standardPurity"`
	CostCenter     string       `json:"costCenter,omitempty"`
}

// FromStock creates StockResponse from stock.Stock.
func FromStock(s *stock.Stock) any {
	return StockResponse{
		CatalogResponse: FromCatalog(s.BaseCatalog),
		BranchID:        s.BranchID,
		KaratID:         s.KaratID,
		Purity:          s.Purity,
		StandardPurity:  s.StandardPurity,
		CostCenter:      s.CostCenter,
	}
}

// CreateStockRequest for creating stock items.
type CreateStockRequest struct {
	CreateCatalogRequest
	BranchID       id.ID        `json:"branchId" binding:"required"`
	KaratID        *id.ID       `json:"karatId"`
	Purity         types.Purity `json:"purity"`
	StandardPurity types.Purity `json:"standardPurity"`
	CostCenter     string       `json:"costCenter" binding:"max=50"`
}

// ToStock maps the request to a new stock item.
func (r CreateStockRequest) ToStock() *stock.Stock {
	s := stock.NewStock(r.Code, r.Name, r.BranchID, r.Purity)
	s.KaratID = r.KaratID
	if !r.StandardPurity.IsZero() {
		s.StandardPurity = types.NormalizePurity(r.StandardPurity)
	}
	s.CostCenter = r.CostCenter
	return s
}

// UpdateStockRequest for updating stock items.
type UpdateStockRequest struct {
	UpdateCatalogRequest
	KaratID        *id.ID        `json:"karatId"`
	Purity         *types.Purity `json:"purity"`
	StandardPurity *types.Purity `json:"standardPurity"`
	CostCenter     *string       `json:"costCenter"`
}

// ApplyTo copies set fields onto s.
func (r UpdateStockRequest) ApplyTo(s *stock.Stock) *stock.Stock {
	r.UpdateCatalogRequest.ApplyTo(&s.BaseCatalog)
	if r.KaratID != nil {
		s.KaratID = r.KaratID
	}
	if r.Purity != nil {
		s.Purity = types.NormalizePurity(*r.Purity)
	}
	if r.StandardPurity != nil {
		s.StandardPurity = types.NormalizePurity(*r.StandardPurity)
	}
	if r.CostCenter != nil {
		s.CostCenter = *r.CostCenter
	}
	return s
}
