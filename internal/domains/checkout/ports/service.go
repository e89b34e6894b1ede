package ports

import (
	"context"

	types "github.com/openmall/order-api-server/internal/domains/checkout/application/types"
	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
)

// Service exposes the checkout use cases to adapters.
type Service interface {
	CreateCheckout(ctx context.Context, checkout *domain.Checkout) (*domain.Checkout, error)
	GetCheckout(ctx context.Context, token string) (*domain.Checkout, error)
	ConvertToOrder(ctx context.Context, input types.ConvertInput) (*ordersdomain.Order, error)
}
