// Package inventory provides the physical inventory register: one running
// row per stock plus an immutable log of every movement.
package inventory

import (
	"time"

	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
)

// Inventory is the running position of one stock.
type Inventory struct {
	StockID     id.ID        `db:"stock_id" json:"stockId"`
	GrossWeight types.Grams  `db:"gross_weight" json:"grossWeight"`
	Pieces      int          `db:"pieces" json:"pieces"`
	PureWeight  types.Grams  `db:"pure_weight" json:"pureWeight"`
	Purity      types.Purity `db:"purity" json:"purity"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// Log is one immutable movement row.
//
// Purity-difference rows carry zero weight and exist for gain/loss
// reporting only; every weight aggregation must skip them.
type Log struct {
	ID                      id.ID         `db:"id" json:"id"`
	StockID                 id.ID         `db:"stock_id" json:"stockId"`
	TransactionID           *id.ID        `db:"transaction_id" json:"transactionId,omitempty"`
	DraftID                 *id.ID        `db:"draft_id" json:"draftId,omitempty"`
	PartyID                 *id.ID        `db:"party_id" json:"partyId,omitempty"`
	Reference               string        `db:"reference" json:"reference"`
	Action                  entity.Action `db:"action" json:"action"`
	Pieces                  int           `db:"pieces" json:"pieces"`
	GrossWeight             types.Grams   `db:"gross_weight" json:"grossWeight"`
	Purity                  types.Purity  `db:"purity" json:"purity"`
	PureWeight              types.Grams   `db:"pure_weight" json:"pureWeight"`
	IsDraft                 bool          `db:"is_draft" json:"isDraft"`
	IsPurityDifferenceEntry bool          `db:"is_purity_difference_entry" json:"isPurityDifferenceEntry"`
	PurityDifference        types.Grams   `db:"purity_difference" json:"purityDifference"`
	CostCenter              string        `db:"cost_center" json:"costCenter,omitempty"`
	CreatedBy               string        `db:"created_by" json:"createdBy"`
	CreatedAt               time.Time     `db:"created_at" json:"createdAt"`
}

// CountsTowardWeight reports whether the row belongs in weight totals.
func (l Log) CountsTowardWeight() bool {
	return !l.IsDraft && !l.IsPurityDifferenceEntry
}

// SignedPure returns action sign × gross × purity.
func (l Log) SignedPure() types.Grams {
	return l.Action.Signed(types.PureWeight(l.GrossWeight, l.Purity))
}

// Movement is one line of a batch, in unsigned quantities.
type Movement struct {
	StockID     id.ID
	Pieces      int
	GrossWeight types.Grams
	// Purity of the line; zero falls back to the stock's purity
	Purity           types.Purity
	PurityDifference types.Grams
}

// Batch is every movement of one voucher.
type Batch struct {
	TransactionID *id.ID
	DraftID       *id.ID
	PartyID       id.ID
	Reference     string
	// Direction is +1 for stock coming in, -1 for stock going out
	Direction  int
	IsDraft    bool
	CostCenter string
	Movements  []Movement
}

// StockGold is the log-derived pure gold of one stock.
type StockGold struct {
	StockID  id.ID       `db:"stock_id" json:"stockId"`
	PureGold types.Grams `db:"pure_gold" json:"pureGold"`
}

// GoldBalance is the log-derived pure gold position.
type GoldBalance struct {
	TotalPureGold types.Grams `json:"totalPureGold"`
	ByStock       []StockGold `json:"breakdownByStock"`
}
