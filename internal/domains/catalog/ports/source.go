package ports

import (
	"context"
	"errors"

	"github.com/openmall/order-api-server/internal/domains/catalog/domain"
)

var ErrVariantNotFound = errors.New("variant not found")

// Source resolves catalog data for checkout and order lines. Implementations
// must answer synchronously per line; the splitter classifies under its
// transactional boundary.
type Source interface {
	VariantByID(ctx context.Context, id int64) (*domain.Variant, error)
	DescriptorForVariant(ctx context.Context, id int64) (domain.ProductTypeDescriptor, error)
}

// Repository persists catalog variants.
type Repository interface {
	Source
	Save(ctx context.Context, variant *domain.Variant) (*domain.Variant, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Variant, error)
}
