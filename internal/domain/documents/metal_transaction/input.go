package metal_transaction

import (
	"time"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/posting"
)

// CreateInput is the payload for a new transaction.
type CreateInput struct {
	Type         posting.TransactionType `json:"type" validate:"required,oneof=purchase sale purchaseReturn saleReturn"`
	Fixed        bool                    `json:"fixed"`
	Unfix        bool                    `json:"unfix"`
	PartyID      id.ID                   `json:"partyId" validate:"required"`
	Currency     string                  `json:"partyCurrency" validate:"omitempty,len=3"`
	Number       string                  `json:"voucherNumber,omitempty" validate:"max=40"`
	Date         *time.Time              `json:"voucherDate,omitempty"`
	Stocks       []posting.LineItem      `json:"stocks" validate:"required,min=1,dive"`
	OtherCharges []posting.OtherCharge   `json:"otherCharges" validate:"dive"`
	VAT          posting.VATPolicy       `json:"vat"`
	Summary      posting.Summary         `json:"summary"`
	Notes        string                  `json:"notes,omitempty" validate:"max=2000"`
}

// Patch carries the fields of an edit. Nil fields are left unchanged.
type Patch struct {
	Type         *posting.TransactionType `json:"type,omitempty" validate:"omitempty,oneof=purchase sale purchaseReturn saleReturn"`
	Fixed        *bool                    `json:"fixed,omitempty"`
	Unfix        *bool                    `json:"unfix,omitempty"`
	PartyID      *id.ID                   `json:"partyId,omitempty"`
	Currency     *string                  `json:"partyCurrency,omitempty" validate:"omitempty,len=3"`
	Date         *time.Time               `json:"voucherDate,omitempty"`
	Stocks       *[]posting.LineItem      `json:"stocks,omitempty"`
	OtherCharges *[]posting.OtherCharge   `json:"otherCharges,omitempty"`
	VAT          *posting.VATPolicy       `json:"vat,omitempty"`
	Summary      *posting.Summary         `json:"summary,omitempty"`
	Notes        *string                  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// applyTo copies set fields onto t.
func (p Patch) applyTo(t *Transaction) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Fixed != nil {
		t.Fixed = *p.Fixed
	}
	if p.Unfix != nil {
		t.Unfix = *p.Unfix
	}
	if p.PartyID != nil {
		t.PartyID = *p.PartyID
	}
	if p.Currency != nil {
		t.PartyCurrency = *p.Currency
	}
	if p.Date != nil {
		t.Date = p.Date.UTC()
	}
	if p.Stocks != nil {
		t.Stocks = append([]posting.LineItem(nil), (*p.Stocks)...)
	}
	if p.OtherCharges != nil {
		t.OtherCharges = append([]posting.OtherCharge(nil), (*p.OtherCharges)...)
	}
	if p.VAT != nil {
		t.VAT = *p.VAT
	}
	if p.Summary != nil {
		t.Summary = *p.Summary
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}

// ListFilter narrows transaction lists.
type ListFilter struct {
	PartyID  *id.ID
	Type     *posting.TransactionType
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
