package sequences

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	paymentactivities "github.com/openmall/order-api-server/internal/platform/temporal/activities/payments"
)

// RunPaymentIntentSequence requests a payment intent for each finalized order
// in turn. A gateway failure on one order never aborts the rest; the caller
// gets a per-order outcome.
func RunPaymentIntentSequence(ctx workflow.Context, commands []paymentactivities.IntentCommand) []IntentOutcome {
	logger := workflow.GetLogger(ctx)
	logger.Info("payment intent sequence started", "orders", len(commands))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	outcomes := make([]IntentOutcome, 0, len(commands))
	for _, command := range commands {
		var intent ports.PaymentIntent
		err := workflow.ExecuteActivity(ctx, paymentactivities.CreateIntentActivityName, command).Get(ctx, &intent)
		if err != nil {
			logger.Error("payment intent request failed", "orderId", command.OrderID, "error", err)
			message := err.Error()
			var appErr *temporal.ApplicationError
			if errors.As(err, &appErr) {
				message = appErr.Message()
			}
			outcomes = append(outcomes, IntentOutcome{OrderID: command.OrderID, Error: message})
			continue
		}
		outcomes = append(outcomes, IntentOutcome{OrderID: command.OrderID, Intent: &intent})
	}
	logger.Info("payment intent sequence completed", "orders", len(outcomes))
	return outcomes
}

// IntentOutcome is the per-order result of the intent sequence.
type IntentOutcome struct {
	OrderID int64
	Intent  *ports.PaymentIntent
	Error   string
}
