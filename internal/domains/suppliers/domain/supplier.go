package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName = errors.New("supplier name is required")
)

// Supplier is a fulfillment party orders can be split towards.
type Supplier struct {
	ID     int64
	Name   string
	Email  string
	Phone  string
	Active bool
}

// NewSupplier builds a supplier ensuring required invariants.
func NewSupplier(id int64, name string) (*Supplier, error) {
	supplier := &Supplier{ID: id, Active: true}
	if err := supplier.SetName(name); err != nil {
		return nil, err
	}
	return supplier, nil
}

// SetName trims and validates the supplier name.
func (s *Supplier) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.Name = name
	return nil
}

// Deactivate removes the supplier from order assignment without deleting it.
func (s *Supplier) Deactivate() {
	s.Active = false
}

// AcceptsOrders reports whether lines may be assigned to this supplier.
func (s *Supplier) AcceptsOrders() bool {
	return s.Active
}
