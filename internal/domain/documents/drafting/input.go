package drafting

import (
	"time"

	"github.com/shopspring/decimal"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// CreateInput is the payload for a new draft.
type CreateInput struct {
	PartyID       id.ID           `json:"partyId" validate:"required"`
	StockID       id.ID           `json:"stockId" validate:"required"`
	Currency      string          `json:"currency" validate:"omitempty,len=3"`
	Pieces        int             `json:"pieces" validate:"gte=0"`
	GrossWeight   types.Grams     `json:"grossWeight"`
	Purity        types.Purity    `json:"purity"`
	PurityPercent decimal.Decimal `json:"purityPercent"`
	Date          *time.Time      `json:"voucherDate,omitempty"`
	Notes         string          `json:"notes,omitempty" validate:"max=2000"`
}

// ListFilter narrows draft lists.
type ListFilter struct {
	Status  *Status
	PartyID *id.ID
	Limit   int
	Offset  int
}
