package ports

import (
	"context"
	"errors"

	"github.com/openmall/order-api-server/internal/domains/suppliers/domain"
)

var ErrNotFound = errors.New("supplier not found")

// Registry is the read side other contexts validate supplier references
// against.
type Registry interface {
	GetByID(ctx context.Context, id int64) (*domain.Supplier, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type Repository interface {
	Registry
	Save(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Supplier, error)
}
