package ports

import (
	"context"

	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
)

// Service exposes the orders use cases to adapters.
type Service interface {
	FinalizePayment(ctx context.Context, input types.FinalizePaymentInput) (*types.FinalizationResult, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	EventsForOrder(ctx context.Context, orderID int64) ([]domain.Event, error)
}
