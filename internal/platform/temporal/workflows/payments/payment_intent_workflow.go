package payments

import (
	"go.temporal.io/sdk/workflow"

	paymentactivities "github.com/openmall/order-api-server/internal/platform/temporal/activities/payments"
	"github.com/openmall/order-api-server/internal/platform/temporal/sequences"
)

const (
	// PaymentIntentWorkflowName is the public identifier for registering the workflow.
	PaymentIntentWorkflowName = "payments.workflows.Intent"
	// PaymentIntentTaskQueue is the queue consumed by the worker processing payment workflows.
	PaymentIntentTaskQueue = "PAYMENT_INTENT"
)

// PaymentIntentWorkflowInput captures the gateway requests for one committed
// finalization, one command per resulting order.
type PaymentIntentWorkflowInput struct {
	Commands []paymentactivities.IntentCommand
	TraceID  string
}

// PaymentIntentWorkflow requests provider payment intents for every order a
// finalization produced.
func PaymentIntentWorkflow(ctx workflow.Context, input PaymentIntentWorkflowInput) ([]sequences.IntentOutcome, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PaymentIntentWorkflow started", withTraceID(input.TraceID, "orders", len(input.Commands))...)
	outcomes := sequences.RunPaymentIntentSequence(ctx, input.Commands)
	logger.Info("PaymentIntentWorkflow completed", withTraceID(input.TraceID, "orders", len(outcomes))...)
	return outcomes, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
