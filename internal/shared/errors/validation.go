package errors

import (
	"github.com/openmall/order-api-server/internal/shared/validation"
)

// ValidationMapper converts the shared field-level validation taxonomy into
// problem details. NOT_FOUND class codes map to 404, stock and voucher
// refusals to 422, everything else to a 400 validation problem.
func ValidationMapper(err error) (ProblemDetail, bool) {
	verr, ok := validation.As(err)
	if !ok {
		return ProblemDetail{}, false
	}
	var problem ProblemDetail
	switch verr.Code {
	case validation.CodeNotFound, validation.CodeSupplierNotFound, validation.CodePrepayIDNotFound:
		problem = ErrNotFound
	case validation.CodeInsufficientStock, validation.CodeVoucherNotApplicable:
		problem = ErrUnprocessable
	default:
		problem = ErrValidation
	}
	return problem.
		WithDetail(verr.Reason).
		WithExtension("field", verr.Field).
		WithExtension("code", string(verr.Code)), true
}
