package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
)

var ErrNotFound = errors.New("checkout not found")

type Repository interface {
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.Checkout, error)
	Save(ctx context.Context, checkout *domain.Checkout) (*domain.Checkout, error)
	Delete(ctx context.Context, token uuid.UUID) error
}
