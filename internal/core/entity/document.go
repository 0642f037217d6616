package entity

import (
	"context"
	"time"

	"bullionledger/internal/core/apperror"
)

// Document is the base type for vouchers (metal transactions, drafts).
type Document struct {
	BaseDocument

	// Number is the voucher number (auto-generated, unique within prefix+year)
	Number string `db:"number" json:"number"`

	// Date is the business date of the voucher
	Date time.Time `db:"date" json:"date"`

	// Notes is an optional user comment
	Notes string `db:"notes" json:"notes,omitempty"`
}

// NewDocument creates a new Document dated now.
func NewDocument(actor string) Document {
	return Document{
		BaseDocument: NewBaseDocument(actor),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
