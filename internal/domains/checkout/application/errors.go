package application

import (
	"errors"

	catalogports "github.com/openmall/order-api-server/internal/domains/catalog/ports"
	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
	"github.com/openmall/order-api-server/internal/domains/checkout/ports"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

// mapError converts domain and collaborator sentinels into the shared
// field-level validation taxonomy. Unrecognized errors pass through.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return validation.NewError("checkout", validation.CodeNotFound, "checkout not found")
	case errors.Is(err, catalogports.ErrVariantNotFound):
		return validation.NewError("variant", validation.CodeNotFound, "variant not found")
	case errors.Is(err, domain.ErrNoLines):
		return validation.NewError("lines", validation.CodeRequired, "checkout must contain at least one line")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return validation.NewError("quantity", validation.CodeInvalidQuantity, "line quantity must be a positive integer")
	case errors.Is(err, domain.ErrQuantityExceedsMax):
		return validation.NewError("quantity", validation.CodeExceedsMaximumVariantQuantity, "line quantity exceeds the per-variant maximum")
	case errors.Is(err, domain.ErrMultiLineRestricted):
		return validation.NewError("lines", validation.CodeInvalid, "multiple lines are only allowed for logistics products")
	case errors.Is(err, ordersdomain.ErrUnknownCategory):
		return validation.NewError("productType", validation.CodeInvalidProductType, "unknown product type")
	case errors.Is(err, ordersdomain.ErrSupplierMissing):
		return validation.NewError("supplier", validation.CodeInvalidSupplier, "line variant has no supplier")
	case errors.Is(err, ports.ErrVoucherNotApplicable):
		return validation.NewError("voucher", validation.CodeVoucherNotApplicable, "voucher is not applicable to this order")
	case errors.Is(err, ports.ErrInsufficientStock):
		return validation.NewError("lines", validation.CodeInsufficientStock, "insufficient stock for order line")
	default:
		return err
	}
}
