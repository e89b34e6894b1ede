package application

import (
	"errors"

	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

// mapError converts domain and repository sentinels into the field-level
// validation taxonomy surfaced to callers. Unrecognized errors pass through
// untouched so the boundary can report them as internal failures.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, domain.ErrNotAwaitingPayment):
		// A second finalization attempt observes the same answer as a missing
		// order: nothing left to pay.
		return validation.NewError("order", validation.CodeNotFound, "order not found")
	case errors.Is(err, domain.ErrNoLines):
		return validation.NewError("lines", validation.CodeRequired, "order must contain at least one line")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return validation.NewError("lines", validation.CodeInvalidQuantity, "line quantity must be a positive integer")
	case errors.Is(err, domain.ErrUnknownCategory):
		return validation.NewError("productType", validation.CodeInvalidProductType, "unknown product type")
	case errors.Is(err, domain.ErrSupplierMissing):
		return validation.NewError("supplier", validation.CodeSupplierNotFound, "logistics line has no supplier")
	case errors.Is(err, domain.ErrMixedCategories):
		return validation.NewError("lines", validation.CodeInvalid, "lines mix fulfillment categories")
	case errors.Is(err, domain.ErrMixedSupplierPayload):
		return validation.NewError("lines", validation.CodeInvalid, "multi-supplier order mixes logistics and non-logistics lines")
	default:
		return err
	}
}
