// Package types holds the use-case inputs and results of the orders context.
package types

import (
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
)

// FinalizePaymentInput identifies the order to finalize and the actor paying it.
type FinalizePaymentInput struct {
	OrderID int64
	Actor   domain.Actor
}

// IntentResult reports the post-commit gateway outcome for one order.
// A non-empty Error never implies a rollback of the finalized orders.
type IntentResult struct {
	OrderID   int64
	Reference string
	Signature string
	Nonce     string
	Timestamp int64
	Error     string
}

// FinalizationResult is the committed outcome of a payment finalization.
type FinalizationResult struct {
	// Orders holds the single mutated order, or the per-supplier orders that
	// replaced it when the logistics lines spanned several suppliers.
	Orders []*domain.Order
	Split  bool
	// Intents carries the gateway outcome per resulting order.
	Intents []IntentResult
}
