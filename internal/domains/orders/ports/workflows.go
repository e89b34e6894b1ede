package ports

import (
	"context"

	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
)

// IntentOrchestrator requests payment intents for the orders produced by a
// committed finalization. Implementations run after the transaction; a
// durable one retries gateway hiccups, an inline one calls the gateway
// directly.
type IntentOrchestrator interface {
	RequestIntents(ctx context.Context, orders []*domain.Order) []types.IntentResult
}
