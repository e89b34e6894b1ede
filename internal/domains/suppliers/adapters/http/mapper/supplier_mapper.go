package mapper

import (
	"github.com/openmall/order-api-server/internal/domains/suppliers/domain"
)

// Supplier is the HTTP representation of a supplier.
type Supplier struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Active bool   `json:"active"`
}

// ToDomainSupplier maps an inbound payload into the domain entity.
func ToDomainSupplier(input Supplier) *domain.Supplier {
	return &domain.Supplier{
		ID:     input.ID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Active: true,
	}
}

// FromDomainSupplier maps a supplier to its transport shape.
func FromDomainSupplier(supplier *domain.Supplier) Supplier {
	return Supplier{
		ID:     supplier.ID,
		Name:   supplier.Name,
		Email:  supplier.Email,
		Phone:  supplier.Phone,
		Active: supplier.Active,
	}
}

// FromDomainSuppliers maps a list of suppliers.
func FromDomainSuppliers(suppliers []*domain.Supplier) []Supplier {
	out := make([]Supplier, 0, len(suppliers))
	for _, supplier := range suppliers {
		out = append(out, FromDomainSupplier(supplier))
	}
	return out
}
