// Package validation carries the field-level error taxonomy shared by the
// checkout and orders application layers.
package validation

import (
	"errors"
	"fmt"
)

// Code identifies the failure class of a validation error.
type Code string

const (
	CodeRequired                      Code = "REQUIRED"
	CodeInvalid                       Code = "INVALID"
	CodeUnique                        Code = "UNIQUE"
	CodeNotFound                      Code = "NOT_FOUND"
	CodeInvalidQuantity               Code = "INVALID_QUANTITY"
	CodeInvalidProductType            Code = "INVALID_PRODUCT_TYPE"
	CodeInvalidSupplier               Code = "INVALID_SUPPLIER"
	CodeSupplierNotFound              Code = "SUPPLIER_NOT_FOUND"
	CodeExceedsMaximumVariantQuantity Code = "EXCEEDS_MAXIMUM_VARIANT_QUANTITY"
	CodeVoucherNotApplicable          Code = "VOUCHER_NOT_APPLICABLE"
	CodeInsufficientStock             Code = "INSUFFICIENT_STOCK"
	CodePrepayIDNotFound              Code = "PREPAY_ID_NOT_FOUND"
)

// Error is a precondition failure surfaced to the caller before any mutation.
type Error struct {
	Field  string
	Code   Code
	Reason string
}

// NewError builds a validation error for a single field.
func NewError(field string, code Code, reason string) *Error {
	return &Error{Field: field, Code: code, Reason: reason}
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Code, e.Reason)
}

// As unwraps err into a validation Error when one is present in the chain.
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// HasCode reports whether err carries a validation error with the given code.
func HasCode(err error, code Code) bool {
	verr, ok := As(err)
	return ok && verr.Code == code
}
