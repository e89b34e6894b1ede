package payments

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

const (
	// CreateIntentActivityName requests one payment intent from the gateway.
	CreateIntentActivityName = "payments.activities.CreateIntent"
)

// IntentCommand is the serializable activity input; Temporal payloads carry
// the amount as a string to keep decimal precision.
type IntentCommand struct {
	OrderID     int64
	Amount      string
	Currency    string
	Description string
}

// Activities groups activities that talk to the payment gateway.
type Activities struct {
	gateway ports.PaymentGateway
}

// NewActivities wires the payment gateway into the Temporal activities bundle.
func NewActivities(gateway ports.PaymentGateway) *Activities {
	return &Activities{gateway: gateway}
}

// CreateIntent asks the gateway for a prepay reference covering one order.
func (a *Activities) CreateIntent(ctx context.Context, command IntentCommand) (*ports.PaymentIntent, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.gateway == nil {
		logger.Error("payment intent activity not initialized", "orderId", command.OrderID)
		return nil, errors.New("payment intent activity not initialized")
	}
	amount, err := decimal.NewFromString(command.Amount)
	if err != nil {
		logger.Error("payment intent amount invalid", "orderId", command.OrderID, "amount", command.Amount)
		return nil, err
	}
	logger.Info("CreateIntent activity started", "orderId", command.OrderID)
	intent, err := a.gateway.CreateIntent(ctx, ports.IntentRequest{
		OrderID:     command.OrderID,
		Amount:      amount,
		Currency:    command.Currency,
		Description: command.Description,
	})
	if err != nil {
		logger.Error("CreateIntent activity failed", "orderId", command.OrderID, "error", err)
		if errors.Is(err, ports.ErrIntentReferenceMissing) {
			// Retrying cannot conjure a reference the gateway never issued.
			verr := validation.NewError("prepayId", validation.CodePrepayIDNotFound, err.Error())
			return nil, temporal.NewNonRetryableApplicationError(verr.Error(), "PrepayReferenceMissing", err)
		}
		return nil, err
	}
	logger.Info("CreateIntent activity completed", "orderId", command.OrderID, "reference", intent.Reference)
	return intent, nil
}
