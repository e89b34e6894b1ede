package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	paymentactivities "github.com/openmall/order-api-server/internal/platform/temporal/activities/payments"
	"github.com/openmall/order-api-server/internal/platform/temporal/sequences"
	paymentworkflows "github.com/openmall/order-api-server/internal/platform/temporal/workflows/payments"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

var (
	_ ports.IntentOrchestrator = (*TemporalPaymentWorkflows)(nil)
	_ ports.IntentOrchestrator = (*InlinePaymentWorkflows)(nil)
)

// TemporalPaymentWorkflows starts the payment-intent workflow on a Temporal
// cluster. Finalization is already committed when this runs, so any failure
// here is reported back per order, never propagated as a rollback.
type TemporalPaymentWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPaymentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPaymentWorkflows(c client.Client) *TemporalPaymentWorkflows {
	return &TemporalPaymentWorkflows{client: c, taskQueue: paymentworkflows.PaymentIntentTaskQueue}
}

// RequestIntents runs the durable intent workflow for the finalized orders.
func (o *TemporalPaymentWorkflows) RequestIntents(ctx context.Context, orders []*domain.Order) []types.IntentResult {
	if len(orders) == 0 {
		return nil
	}
	if o == nil || o.client == nil {
		return failAll(orders, "temporal payment workflows not configured")
	}
	commands := intentCommands(orders)
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("payment-intent-%d-%s", orders[0].ID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	// The worker registers the workflow under its wire name, so start it by
	// name rather than by function to keep client and worker in agreement.
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		paymentworkflows.PaymentIntentWorkflowName,
		paymentworkflows.PaymentIntentWorkflowInput{Commands: commands, TraceID: traceComponent},
	)
	if err != nil {
		// A duplicate start within the same trace means a retry raced the
		// original request; attach to the running workflow instead.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			run = o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
		} else {
			return failAll(orders, err.Error())
		}
	}
	var outcomes []sequences.IntentOutcome
	if err := run.Get(ctx, &outcomes); err != nil {
		return failAll(orders, err.Error())
	}
	results := make([]types.IntentResult, 0, len(outcomes))
	for _, outcome := range outcomes {
		result := types.IntentResult{OrderID: outcome.OrderID, Error: outcome.Error}
		if outcome.Intent != nil {
			result.Reference = outcome.Intent.Reference
			result.Signature = outcome.Intent.Signature
			result.Nonce = outcome.Intent.Nonce
			result.Timestamp = outcome.Intent.Timestamp
		}
		results = append(results, result)
	}
	return results
}

// InlinePaymentWorkflows calls the gateway directly without Temporal, useful
// for tests or dev fallbacks.
type InlinePaymentWorkflows struct {
	gateway ports.PaymentGateway
}

// NewInlinePaymentWorkflows wraps the gateway for synchronous execution.
func NewInlinePaymentWorkflows(gateway ports.PaymentGateway) *InlinePaymentWorkflows {
	return &InlinePaymentWorkflows{gateway: gateway}
}

// RequestIntents asks the gateway for one intent per order, in sequence.
func (o *InlinePaymentWorkflows) RequestIntents(ctx context.Context, orders []*domain.Order) []types.IntentResult {
	if len(orders) == 0 {
		return nil
	}
	if o == nil || o.gateway == nil {
		return failAll(orders, "inline payment workflows not configured")
	}
	results := make([]types.IntentResult, 0, len(orders))
	for _, order := range orders {
		intent, err := o.gateway.CreateIntent(ctx, ports.IntentRequest{
			OrderID:     order.ID,
			Amount:      order.TotalCharged,
			Currency:    order.Snapshot.Currency,
			Description: intentDescription(order),
		})
		if err != nil {
			results = append(results, types.IntentResult{OrderID: order.ID, Error: intentFailureMessage(err)})
			continue
		}
		results = append(results, types.IntentResult{
			OrderID:   order.ID,
			Reference: intent.Reference,
			Signature: intent.Signature,
			Nonce:     intent.Nonce,
			Timestamp: intent.Timestamp,
		})
	}
	return results
}

func intentCommands(orders []*domain.Order) []paymentactivities.IntentCommand {
	commands := make([]paymentactivities.IntentCommand, 0, len(orders))
	for _, order := range orders {
		commands = append(commands, paymentactivities.IntentCommand{
			OrderID:     order.ID,
			Amount:      order.TotalCharged.StringFixed(2),
			Currency:    order.Snapshot.Currency,
			Description: intentDescription(order),
		})
	}
	return commands
}

func intentDescription(order *domain.Order) string {
	if len(order.Lines) == 0 {
		return fmt.Sprintf("order %d", order.ID)
	}
	description := order.Lines[0].ProductName
	if len(order.Lines) > 1 {
		description = fmt.Sprintf("%s and %d more", description, len(order.Lines)-1)
	}
	return description
}

// intentFailureMessage keeps gateway failures in the shared validation
// vocabulary: a response without a prepay reference is reported as
// PREPAY_ID_NOT_FOUND rather than a raw transport message.
func intentFailureMessage(err error) string {
	if errors.Is(err, ports.ErrIntentReferenceMissing) {
		return validation.NewError("prepayId", validation.CodePrepayIDNotFound, err.Error()).Error()
	}
	return err.Error()
}

func failAll(orders []*domain.Order, reason string) []types.IntentResult {
	results := make([]types.IntentResult, 0, len(orders))
	for _, order := range orders {
		results = append(results, types.IntentResult{OrderID: order.ID, Error: reason})
	}
	return results
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
