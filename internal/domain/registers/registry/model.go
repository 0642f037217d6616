// Package registry provides the double-entry audit ledger.
//
// Rows are append-only. A transaction edit deletes every row it owns and
// regenerates them; rows are never negated in place.
package registry

import (
	"fmt"
	"time"

	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain/posting"
)

// Entry is one registry row.
type Entry struct {
	ID            id.ID             `db:"id" json:"id"`
	TransactionID *id.ID            `db:"transaction_id" json:"transactionId,omitempty"`
	DraftID       *id.ID            `db:"draft_id" json:"draftId,omitempty"`
	CorrelationID string            `db:"correlation_id" json:"correlationId"`
	Type          posting.EntryType `db:"type" json:"type"`
	Description   string            `db:"description" json:"description"`
	PartyID       *id.ID            `db:"party_id" json:"partyId,omitempty"`
	IsBullion     bool              `db:"is_bullion" json:"isBullion"`
	CashDebit     types.Money       `db:"cash_debit" json:"cashDebit"`
	CashCredit    types.Money       `db:"cash_credit" json:"cashCredit"`
	GoldDebit     types.Grams       `db:"gold_debit" json:"goldDebit"`
	GoldCredit    types.Grams       `db:"gold_credit" json:"goldCredit"`
	Debit         types.Money       `db:"debit" json:"debit"`
	Credit        types.Money       `db:"credit" json:"credit"`
	Value         types.Money       `db:"value" json:"value"`
	Currency      string            `db:"currency" json:"currency"`
	Reference     string            `db:"reference" json:"reference"`
	CostCenter    string            `db:"cost_center" json:"costCenter,omitempty"`
	IsDraft       bool              `db:"is_draft" json:"isDraft"`
	CreatedBy     string            `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
}

// Voucher is the metadata stamped onto every row of one recording.
type Voucher struct {
	TransactionID *id.ID
	DraftID       *id.ID
	Reference     string
	CostCenter    string
	IsDraft       bool
}

// FromPosting converts generated entries into registry rows.
// Correlation ids are "<reference>-NN" in generation order.
func FromPosting(v Voucher, entries []posting.Entry, actor string, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		out = append(out, Entry{
			ID:            id.New(),
			TransactionID: v.TransactionID,
			DraftID:       v.DraftID,
			CorrelationID: fmt.Sprintf("%s-%02d", v.Reference, i+1),
			Type:          e.Type,
			Description:   e.Description,
			PartyID:       id.Ptr(e.PartyID),
			IsBullion:     e.IsBullion,
			CashDebit:     e.CashDebit,
			CashCredit:    e.CashCredit,
			GoldDebit:     e.GoldDebit,
			GoldCredit:    e.GoldCredit,
			Debit:         e.LegacyDebit(),
			Credit:        e.LegacyCredit(),
			Value:         e.Value,
			Currency:      e.Currency,
			Reference:     v.Reference,
			CostCenter:    v.CostCenter,
			IsDraft:       v.IsDraft,
			CreatedBy:     actor,
			CreatedAt:     now,
		})
	}
	return out
}

// ToPosting strips voucher metadata, for balance checks over stored rows.
func ToPosting(rows []Entry) []posting.Entry {
	out := make([]posting.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, posting.Entry{
			Type:        r.Type,
			Description: r.Description,
			PartyID:     id.Deref(r.PartyID),
			IsBullion:   r.IsBullion,
			CashDebit:   r.CashDebit,
			CashCredit:  r.CashCredit,
			GoldDebit:   r.GoldDebit,
			GoldCredit:  r.GoldCredit,
			Value:       r.Value,
			Currency:    r.Currency,
		})
	}
	return out
}
