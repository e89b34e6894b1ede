package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/openmall/order-api-server/internal/domains/catalog/domain"
	"github.com/openmall/order-api-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter.
type Repository struct {
	mu       sync.RWMutex
	variants map[int64]*domain.Variant
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{variants: map[int64]*domain.Variant{}}
}

func (r *Repository) Save(_ context.Context, variant *domain.Variant) (*domain.Variant, error) {
	if variant == nil {
		return nil, errors.New("variant is nil")
	}
	clone := *variant
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.variants[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) VariantByID(_ context.Context, id int64) (*domain.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	variant, ok := r.variants[id]
	if !ok {
		return nil, ports.ErrVariantNotFound
	}
	clone := *variant
	return &clone, nil
}

func (r *Repository) DescriptorForVariant(ctx context.Context, id int64) (domain.ProductTypeDescriptor, error) {
	variant, err := r.VariantByID(ctx, id)
	if err != nil {
		return domain.ProductTypeDescriptor{}, err
	}
	return variant.ProductType, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.variants[id]; !ok {
		return ports.ErrVariantNotFound
	}
	delete(r.variants, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Variant, 0, len(r.variants))
	for _, variant := range r.variants {
		clone := *variant
		list = append(list, &clone)
	}
	return list, nil
}
