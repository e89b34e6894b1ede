package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductName = errors.New("variant product name is required")
	ErrNonPositivePrice = errors.New("variant price must be greater than zero")
)

// Variant is the sellable unit referenced by checkout and order lines.
// SupplierID is nil for variants the platform fulfils itself; logistics
// variants must always carry one.
type Variant struct {
	ID          int64
	SKU         string
	ProductName string
	SupplierID  *int64
	PriceAmount decimal.Decimal
	ProductType ProductTypeDescriptor
}

// NewVariant validates invariants and builds a variant.
func NewVariant(id int64, sku, productName string, price decimal.Decimal, descriptor ProductTypeDescriptor) (*Variant, error) {
	v := &Variant{ID: id, SKU: sku, ProductName: productName, PriceAmount: price, ProductType: descriptor}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate enforces the variant invariants.
func (v *Variant) Validate() error {
	if v.ProductName == "" {
		return ErrEmptyProductName
	}
	if !v.PriceAmount.IsPositive() {
		return ErrNonPositivePrice
	}
	return nil
}

// AssignSupplier links the variant to the merchant settling its orders.
func (v *Variant) AssignSupplier(supplierID int64) {
	v.SupplierID = &supplierID
}

// Category classifies the variant's product type.
func (v *Variant) Category() FulfillmentCategory {
	return Classify(v.ProductType)
}
