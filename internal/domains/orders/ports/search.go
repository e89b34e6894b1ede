package ports

import "github.com/openmall/order-api-server/internal/domains/orders/domain"

// SearchIndexer computes the denormalized keyword vector stored on an order
// for full-text lookup. Pure; persistence happens through the repository Tx.
type SearchIndexer interface {
	ComputeKeywords(order *domain.Order) []string
}
