package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/openmall/order-api-server/internal/domains/catalog/domain"
)

// ProductType is the HTTP representation of a classification descriptor.
type ProductType struct {
	Kind               string `json:"kind"`
	IsDigital          bool   `json:"isDigital"`
	IsShippingRequired bool   `json:"isShippingRequired"`
}

// Variant is the HTTP representation of a sellable variant.
type Variant struct {
	ID          int64       `json:"id,omitempty"`
	SKU         string      `json:"sku,omitempty"`
	ProductName string      `json:"productName"`
	SupplierID  *int64      `json:"supplierId,omitempty"`
	PriceAmount string      `json:"priceAmount"`
	ProductType ProductType `json:"productType"`
	Category    string      `json:"category,omitempty"`
}

// ToDomainVariant maps an inbound payload into the domain entity.
func ToDomainVariant(input Variant) (*domain.Variant, error) {
	price, err := decimal.NewFromString(input.PriceAmount)
	if err != nil {
		return nil, err
	}
	variant, err := domain.NewVariant(input.ID, input.SKU, input.ProductName, price, domain.ProductTypeDescriptor{
		Kind:               domain.Kind(input.ProductType.Kind),
		IsDigital:          input.ProductType.IsDigital,
		IsShippingRequired: input.ProductType.IsShippingRequired,
	})
	if err != nil {
		return nil, err
	}
	variant.SupplierID = input.SupplierID
	return variant, nil
}

// FromDomainVariant maps a variant to its transport shape, including the
// classifier's verdict.
func FromDomainVariant(variant *domain.Variant) Variant {
	return Variant{
		ID:          variant.ID,
		SKU:         variant.SKU,
		ProductName: variant.ProductName,
		SupplierID:  variant.SupplierID,
		PriceAmount: variant.PriceAmount.StringFixed(2),
		ProductType: ProductType{
			Kind:               string(variant.ProductType.Kind),
			IsDigital:          variant.ProductType.IsDigital,
			IsShippingRequired: variant.ProductType.IsShippingRequired,
		},
		Category: string(variant.Category()),
	}
}

// FromDomainVariants maps a list of variants.
func FromDomainVariants(variants []*domain.Variant) []Variant {
	out := make([]Variant, 0, len(variants))
	for _, variant := range variants {
		out = append(out, FromDomainVariant(variant))
	}
	return out
}
