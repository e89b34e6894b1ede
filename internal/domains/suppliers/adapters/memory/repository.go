package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/openmall/order-api-server/internal/domains/suppliers/domain"
	"github.com/openmall/order-api-server/internal/domains/suppliers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory supplier registry.
type Repository struct {
	mu        sync.RWMutex
	suppliers map[int64]*domain.Supplier
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{suppliers: map[int64]*domain.Supplier{}}
}

func (r *Repository) Save(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier == nil {
		return nil, errors.New("supplier is nil")
	}
	clone := *supplier
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.suppliers[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *supplier
	return &clone, nil
}

func (r *Repository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	supplier, ok := r.suppliers[id]
	return ok && supplier.AcceptsOrders(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		clone := *supplier
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
