package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	paymentclient "github.com/openmall/order-api-server/internal/clients/http/payment"
	platformobservability "github.com/openmall/order-api-server/internal/platform/observability"
	paymentactivities "github.com/openmall/order-api-server/internal/platform/temporal/activities/payments"
	paymentworkflows "github.com/openmall/order-api-server/internal/platform/temporal/workflows/payments"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	gateway, err := buildPaymentGateway()
	if err != nil {
		logger.Error("failed to configure payment gateway client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := paymentactivities.NewActivities(gateway)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, paymentworkflows.PaymentIntentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(paymentworkflows.PaymentIntentWorkflow, workflow.RegisterOptions{Name: paymentworkflows.PaymentIntentWorkflowName})
	w.RegisterActivityWithOptions(activities.CreateIntent, activity.RegisterOptions{Name: paymentactivities.CreateIntentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", paymentworkflows.PaymentIntentTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildPaymentGateway() (*paymentclient.Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_BASE_URL"))
	appID := strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_APP_ID"))
	merchantID := strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_MERCHANT_ID"))
	return paymentclient.NewClient(baseURL, appID, merchantID)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
