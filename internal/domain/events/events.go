// Package events defines domain events written to the transactional outbox.
package events

import (
	"context"

	"bullionledger/internal/core/id"
)

// Aggregate types.
const (
	AggregateMetalTransaction = "metal_transaction"
	AggregateDrafting         = "drafting"
)

// Event represents an event to be published via outbox.
type Event struct {
	AggregateType string
	AggregateID   id.ID
	EventType     string
	Payload       any
}

// Publisher writes events inside the caller's unit of work, so an event
// exists if and only if the change that produced it was committed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
