package application

import (
	"context"
	"errors"

	"github.com/openmall/order-api-server/internal/domains/suppliers/domain"
	"github.com/openmall/order-api-server/internal/domains/suppliers/ports"
)

var _ ports.Service = (*Service)(nil)

// Service exposes supplier registry use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier == nil {
		return nil, errors.New("supplier is nil")
	}
	if err := supplier.SetName(supplier.Name); err != nil {
		return nil, err
	}
	supplier.Active = true
	return s.repo.Save(ctx, supplier)
}

func (s *Service) GetSupplierByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeactivateSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Deactivate()
	return s.repo.Save(ctx, supplier)
}
