package application

import (
	"context"
	"errors"

	"github.com/openmall/order-api-server/internal/domains/catalog/domain"
	"github.com/openmall/order-api-server/internal/domains/catalog/ports"
)

var _ ports.Service = (*Service)(nil)

// Service exposes catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateVariant(ctx context.Context, variant *domain.Variant) (*domain.Variant, error) {
	if variant == nil {
		return nil, errors.New("variant is nil")
	}
	if err := variant.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, variant)
}

func (s *Service) GetVariantByID(ctx context.Context, id int64) (*domain.Variant, error) {
	return s.repo.VariantByID(ctx, id)
}

func (s *Service) ListVariants(ctx context.Context) ([]*domain.Variant, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeleteVariant(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
