// Package search computes the denormalized keyword vector stored on orders.
package search

import (
	"strconv"
	"strings"

	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
)

var _ ports.SearchIndexer = (*Indexer)(nil)

// Indexer flattens an order into lowercase keywords: identifier, buyer email,
// supplier, and the product name of every line.
type Indexer struct{}

func NewIndexer() *Indexer { return &Indexer{} }

func (Indexer) ComputeKeywords(order *domain.Order) []string {
	if order == nil {
		return nil
	}
	seen := map[string]bool{}
	keywords := make([]string, 0, len(order.Lines)+4)
	add := func(value string) {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || seen[value] {
			return
		}
		seen[value] = true
		keywords = append(keywords, value)
	}

	add(strconv.FormatInt(order.ID, 10))
	add(order.Snapshot.UserEmail)
	add(order.Snapshot.Channel)
	if order.SupplierID != nil {
		add("supplier:" + strconv.FormatInt(*order.SupplierID, 10))
	}
	for _, line := range order.Lines {
		add(line.ProductName)
	}
	return keywords
}
