package mapper

import (
	"time"

	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
)

// OrderLine is the HTTP representation of an order line.
type OrderLine struct {
	ID                   int64  `json:"id"`
	VariantID            int64  `json:"variantId"`
	ProductName          string `json:"productName"`
	Quantity             int32  `json:"quantity"`
	UnitPriceGross       string `json:"unitPriceGross"`
	UndiscountedTotalNet string `json:"undiscountedTotalNet"`
	SupplierID           *int64 `json:"supplierId,omitempty"`
	RedemptionCode       string `json:"redemptionCode,omitempty"`
}

// Order is the HTTP representation of an order aggregate.
type Order struct {
	ID                 int64       `json:"id"`
	Status             string      `json:"status"`
	ChargeStatus       string      `json:"chargeStatus"`
	SupplierID         *int64      `json:"supplierId,omitempty"`
	UserID             int64       `json:"userId"`
	UserEmail          string      `json:"userEmail,omitempty"`
	Channel            string      `json:"channel,omitempty"`
	Currency           string      `json:"currency,omitempty"`
	TotalNet           string      `json:"totalNet"`
	TotalGross         string      `json:"totalGross"`
	TotalCharged       string      `json:"totalCharged"`
	ShippingPriceGross string      `json:"shippingPriceGross"`
	CheckoutToken      string      `json:"checkoutToken,omitempty"`
	Lines              []OrderLine `json:"lines"`
	PaymentAt          *time.Time  `json:"paymentAt,omitempty"`
	CreatedAt          time.Time   `json:"createdAt,omitempty"`
}

// Event is the HTTP representation of an order log entry.
type Event struct {
	ID        string    `json:"id"`
	OrderID   int64     `json:"orderId"`
	Type      string    `json:"type"`
	UserID    int64     `json:"userId"`
	AppID     *int64    `json:"appId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentIntent reports the post-commit gateway outcome for one order.
type PaymentIntent struct {
	OrderID   int64  `json:"orderId"`
	Reference string `json:"reference,omitempty"`
	Signature string `json:"signature,omitempty"`
	Nonce     string `json:"nonce,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FinalizationResponse is the committed outcome of a payment finalization.
type FinalizationResponse struct {
	Orders  []Order         `json:"orders"`
	Split   bool            `json:"split"`
	Intents []PaymentIntent `json:"intents,omitempty"`
}

// FinalizePaymentRequest carries the actor finalizing an order.
type FinalizePaymentRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	AppID  *int64 `json:"appId,omitempty"`
}

// FromDomainOrder maps an order aggregate to its transport shape.
func FromDomainOrder(order *domain.Order) Order {
	lines := make([]OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLine{
			ID:                   line.ID,
			VariantID:            line.VariantID,
			ProductName:          line.ProductName,
			Quantity:             line.Quantity,
			UnitPriceGross:       line.UnitPriceGross.StringFixed(2),
			UndiscountedTotalNet: line.UndiscountedTotalNet.StringFixed(2),
			SupplierID:           line.SupplierID,
			RedemptionCode:       line.RedemptionCode,
		})
	}
	return Order{
		ID:                 order.ID,
		Status:             string(order.Status),
		ChargeStatus:       string(order.ChargeStatus),
		SupplierID:         order.SupplierID,
		UserID:             order.Snapshot.UserID,
		UserEmail:          order.Snapshot.UserEmail,
		Channel:            order.Snapshot.Channel,
		Currency:           order.Snapshot.Currency,
		TotalNet:           order.TotalNet.StringFixed(2),
		TotalGross:         order.TotalGross.StringFixed(2),
		TotalCharged:       order.TotalCharged.StringFixed(2),
		ShippingPriceGross: order.ShippingPriceGross.StringFixed(2),
		CheckoutToken:      order.Snapshot.CheckoutToken,
		Lines:              lines,
		PaymentAt:          order.PaymentAt,
		CreatedAt:          order.CreatedAt,
	}
}

// FromDomainOrders maps a list of order aggregates.
func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}

// FromDomainEvents maps the order event log.
func FromDomainEvents(events []domain.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, event := range events {
		out = append(out, Event{
			ID:        event.ID.String(),
			OrderID:   event.OrderID,
			Type:      string(event.Type),
			UserID:    event.UserID,
			AppID:     event.AppID,
			CreatedAt: event.CreatedAt,
		})
	}
	return out
}

// FromFinalization maps the finalization result, including per-order gateway
// outcomes.
func FromFinalization(result *types.FinalizationResult) FinalizationResponse {
	intents := make([]PaymentIntent, 0, len(result.Intents))
	for _, intent := range result.Intents {
		intents = append(intents, PaymentIntent{
			OrderID:   intent.OrderID,
			Reference: intent.Reference,
			Signature: intent.Signature,
			Nonce:     intent.Nonce,
			Timestamp: intent.Timestamp,
			Error:     intent.Error,
		})
	}
	return FinalizationResponse{
		Orders:  FromDomainOrders(result.Orders),
		Split:   result.Split,
		Intents: intents,
	}
}
