package ports

import (
	"context"
	"errors"

	"github.com/openmall/order-api-server/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Tx is the persistence surface available inside one atomic finalization.
// Every mutation performed through it commits or rolls back as a unit.
type Tx interface {
	// GetForUpdate loads the order with its lines and serializes concurrent
	// finalization attempts on the same order id.
	GetForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// SaveOrder persists the listed changed fields of an existing order.
	SaveOrder(ctx context.Context, order *domain.Order, fields ...string) error
	DeleteOrder(ctx context.Context, id int64) error
	// ReassignLines moves lines to the target order; ownership transfers,
	// lines are never duplicated.
	ReassignLines(ctx context.Context, lineIDs []int64, targetOrderID int64) error
	AssignRedemptionCode(ctx context.Context, lineIDs []int64, code string) error
	// RedemptionCodeExists checks the shared namespace across all order lines.
	RedemptionCodeExists(ctx context.Context, code string) (bool, error)
	AppendEvents(ctx context.Context, events []domain.Event) error
	UpdateSearchVector(ctx context.Context, orderID int64, keywords []string) error
}

// Repository persists orders and exposes the atomic unit the finalizer runs in.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	EventsForOrder(ctx context.Context, orderID int64) ([]domain.Event, error)
	// Atomically runs fn inside one transaction; any error rolls back every
	// mutation made through the Tx.
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}
