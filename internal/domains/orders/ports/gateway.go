package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrIntentReferenceMissing signals the gateway answered without a usable
// payment-intent reference.
var ErrIntentReferenceMissing = errors.New("payment intent reference missing from gateway response")

// IntentRequest describes one finalized order to collect money for.
type IntentRequest struct {
	OrderID     int64
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// PaymentIntent is the provider reference plus the client-side signature
// material the caller forwards to the paying device.
type PaymentIntent struct {
	OrderID   int64
	Reference string
	Signature string
	Nonce     string
	Timestamp int64
}

// PaymentGateway creates provider payment intents. Called strictly after the
// finalization transaction commits; its failures never roll back the split.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, request IntentRequest) (*PaymentIntent, error)
}
