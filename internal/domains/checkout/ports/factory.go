package ports

import (
	"context"
	"errors"

	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
)

var (
	// ErrVoucherNotApplicable signals the snapshot voucher no longer applies
	// to the draft being created.
	ErrVoucherNotApplicable = errors.New("voucher is not applicable to this order")
	// ErrInsufficientStock signals a line exceeds the available stock.
	ErrInsufficientStock = errors.New("insufficient stock for order line")
)

// OrderFactory persists the unpaid order draft a checkout converts into.
// Implementations assign order and line identifiers.
type OrderFactory interface {
	CreateDraft(ctx context.Context, order *ordersdomain.Order) (*ordersdomain.Order, error)
}
