package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Atomically serializes
// writers behind one mutex and restores a snapshot when the unit fails, so
// finalization keeps its all-or-nothing contract without a database.
type Repository struct {
	mu            sync.RWMutex
	orders        map[int64]*domain.Order
	events        []domain.Event
	searchVectors map[int64][]string
	nextOrderID   int64
	nextLineID    int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}, searchVectors: map[int64][]string{}}
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &clone
}

// Seed stores an order directly, assigning missing identifiers. Intended for
// wiring demo data and tests.
func (r *Repository) Seed(order *domain.Order) *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneOrder(order)
	if clone.ID == 0 {
		r.nextOrderID++
		clone.ID = r.nextOrderID
	} else if clone.ID > r.nextOrderID {
		r.nextOrderID = clone.ID
	}
	for i := range clone.Lines {
		if clone.Lines[i].ID == 0 {
			r.nextLineID++
			clone.Lines[i].ID = r.nextLineID
		}
		clone.Lines[i].OrderID = clone.ID
	}
	r.orders[clone.ID] = clone
	return cloneOrder(clone)
}

// CreateDraft persists a new unpaid order with its lines, assigning order and
// line identifiers. Implements the checkout conversion factory port.
func (r *Repository) CreateDraft(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	return r.Seed(order), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	return list, nil
}

func (r *Repository) EventsForOrder(_ context.Context, orderID int64) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Event
	for _, event := range r.events {
		if event.OrderID == orderID {
			out = append(out, event)
		}
	}
	return out, nil
}

// Atomically runs fn while holding the write lock, which both serializes
// concurrent finalization attempts and makes the snapshot restore safe.
func (r *Repository) Atomically(_ context.Context, fn func(tx ports.Tx) error) error {
	if fn == nil {
		return errors.New("transaction fn is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, events, vectors := r.snapshotLocked()
	if err := fn(&tx{repo: r}); err != nil {
		r.orders, r.events, r.searchVectors = orders, events, vectors
		return err
	}
	return nil
}

func (r *Repository) snapshotLocked() (map[int64]*domain.Order, []domain.Event, map[int64][]string) {
	orders := make(map[int64]*domain.Order, len(r.orders))
	for id, order := range r.orders {
		orders[id] = cloneOrder(order)
	}
	events := append([]domain.Event(nil), r.events...)
	vectors := make(map[int64][]string, len(r.searchVectors))
	for id, keywords := range r.searchVectors {
		vectors[id] = append([]string(nil), keywords...)
	}
	return orders, events, vectors
}

// tx operates on the repository state under the lock held by Atomically.
type tx struct {
	repo *Repository
}

var _ ports.Tx = (*tx)(nil)

func (t *tx) GetForUpdate(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := t.repo.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (t *tx) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	t.repo.nextOrderID++
	clone.ID = t.repo.nextOrderID
	t.repo.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (t *tx) SaveOrder(_ context.Context, order *domain.Order, _ ...string) error {
	if _, ok := t.repo.orders[order.ID]; !ok {
		return ports.ErrNotFound
	}
	t.repo.orders[order.ID] = cloneOrder(order)
	return nil
}

func (t *tx) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := t.repo.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(t.repo.orders, id)
	delete(t.repo.searchVectors, id)
	return nil
}

func (t *tx) ReassignLines(_ context.Context, lineIDs []int64, targetOrderID int64) error {
	target, ok := t.repo.orders[targetOrderID]
	if !ok {
		return ports.ErrNotFound
	}
	wanted := make(map[int64]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}
	for _, order := range t.repo.orders {
		if order.ID == targetOrderID {
			continue
		}
		var kept []domain.OrderLine
		for _, line := range order.Lines {
			if wanted[line.ID] {
				line.OrderID = targetOrderID
				target.Lines = append(target.Lines, line)
				continue
			}
			kept = append(kept, line)
		}
		order.Lines = kept
	}
	return nil
}

func (t *tx) AssignRedemptionCode(_ context.Context, lineIDs []int64, code string) error {
	wanted := make(map[int64]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}
	for _, order := range t.repo.orders {
		for i := range order.Lines {
			if wanted[order.Lines[i].ID] {
				order.Lines[i].RedemptionCode = code
			}
		}
	}
	return nil
}

func (t *tx) RedemptionCodeExists(_ context.Context, code string) (bool, error) {
	for _, order := range t.repo.orders {
		for _, line := range order.Lines {
			if line.RedemptionCode == code {
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *tx) AppendEvents(_ context.Context, events []domain.Event) error {
	t.repo.events = append(t.repo.events, events...)
	return nil
}

func (t *tx) UpdateSearchVector(_ context.Context, orderID int64, keywords []string) error {
	t.repo.searchVectors[orderID] = append([]string(nil), keywords...)
	return nil
}
