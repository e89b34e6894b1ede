package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies an entry in the order event log.
type EventType string

const (
	// EventOrderFullyPaid records that the order's total was collected in full.
	EventOrderFullyPaid EventType = "order_fully_paid"
)

// Actor is the authenticated principal driving a state transition.
type Actor struct {
	UserID int64
	AppID  *int64
}

// Event is an append-only order log entry; never mutated or deleted.
type Event struct {
	ID        uuid.UUID
	OrderID   int64
	Type      EventType
	UserID    int64
	AppID     *int64
	CreatedAt time.Time
}

// NewOrderFullyPaid builds the payment-finalization log entry for an order.
func NewOrderFullyPaid(orderID int64, actor Actor, now time.Time) Event {
	return Event{
		ID:        uuid.New(),
		OrderID:   orderID,
		Type:      EventOrderFullyPaid,
		UserID:    actor.UserID,
		AppID:     actor.AppID,
		CreatedAt: now,
	}
}
