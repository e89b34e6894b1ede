package ports

import (
	"context"

	"github.com/openmall/order-api-server/internal/domains/suppliers/domain"
)

// Service exposes the supplier registry use cases to adapters.
type Service interface {
	CreateSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, id int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]*domain.Supplier, error)
	DeactivateSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
}
