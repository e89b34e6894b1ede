// Package types holds the use-case inputs of the checkout context.
package types

import (
	"github.com/google/uuid"

	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
)

// ConvertInput identifies the checkout to convert and the actor converting it.
// The checkout is removed after a successful conversion unless KeepCheckout
// is set.
type ConvertInput struct {
	CheckoutToken uuid.UUID
	Actor         ordersdomain.Actor
	KeepCheckout  bool
}
