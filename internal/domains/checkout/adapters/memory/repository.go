package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
	"github.com/openmall/order-api-server/internal/domains/checkout/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory checkout store.
type Repository struct {
	mu        sync.RWMutex
	checkouts map[uuid.UUID]*domain.Checkout
}

func NewRepository() *Repository {
	return &Repository{checkouts: map[uuid.UUID]*domain.Checkout{}}
}

func cloneCheckout(checkout *domain.Checkout) *domain.Checkout {
	clone := *checkout
	clone.Lines = append([]domain.CheckoutLine(nil), checkout.Lines...)
	return &clone
}

func (r *Repository) Save(_ context.Context, checkout *domain.Checkout) (*domain.Checkout, error) {
	if checkout == nil {
		return nil, errors.New("checkout is nil")
	}
	clone := cloneCheckout(checkout)
	if clone.Token == uuid.Nil {
		clone.Token = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkouts[clone.Token] = clone
	return cloneCheckout(clone), nil
}

func (r *Repository) GetByToken(_ context.Context, token uuid.UUID) (*domain.Checkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	checkout, ok := r.checkouts[token]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneCheckout(checkout), nil
}

func (r *Repository) Delete(_ context.Context, token uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkouts[token]; !ok {
		return ports.ErrNotFound
	}
	delete(r.checkouts, token)
	return nil
}
