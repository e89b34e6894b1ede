package ports

import (
	"context"

	"github.com/openmall/order-api-server/internal/domains/catalog/domain"
)

// Service exposes the catalog use cases to adapters.
type Service interface {
	CreateVariant(ctx context.Context, variant *domain.Variant) (*domain.Variant, error)
	GetVariantByID(ctx context.Context, id int64) (*domain.Variant, error)
	ListVariants(ctx context.Context) ([]*domain.Variant, error)
	DeleteVariant(ctx context.Context, id int64) error
}
