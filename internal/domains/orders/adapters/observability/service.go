package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
	ordersports "github.com/openmall/order-api-server/internal/domains/orders/ports"
)

const tracerName = "github.com/openmall/order-api-server/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) FinalizePayment(ctx context.Context, input types.FinalizePaymentInput) (*types.FinalizationResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.FinalizePayment",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.Int64("user.id", input.Actor.UserID)))
	defer span.End()

	s.logInfo(ctx, "finalizing payment", slog.Int64("order.id", input.OrderID), slog.Int64("user.id", input.Actor.UserID))
	result, err := s.inner.FinalizePayment(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to finalize payment", slog.Int64("order.id", input.OrderID))
	}
	split := result.Split
	span.SetAttributes(
		attribute.Bool("order.split", split),
		attribute.Int("order.result_count", len(result.Orders)),
	)
	s.metrics.recordFinalized(ctx, split, len(result.Orders))
	for _, intent := range result.Intents {
		if intent.Error != "" {
			s.metrics.recordIntentFailure(ctx)
			s.logError(ctx, "payment intent request failed", nil,
				slog.Int64("order.id", intent.OrderID), slog.String("reason", intent.Error))
		}
	}
	s.logInfo(ctx, "payment finalized",
		slog.Int64("order.id", input.OrderID),
		slog.Bool("split", split),
		slog.Int("orders", len(result.Orders)))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) EventsForOrder(ctx context.Context, orderID int64) ([]ordersdomain.Event, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.EventsForOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.EventsForOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order events", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.Int("order.event_count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersFinalized metric.Int64Counter
	ordersSpawned   metric.Int64Counter
	intentFailures  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersFinalized, _ := m.Int64Counter("orders.service.payments_finalized", metric.WithDescription("Number of orders finalized as fully paid"))
	ordersSpawned, _ := m.Int64Counter("orders.service.supplier_orders_spawned", metric.WithDescription("Number of per-supplier orders produced by splits"))
	intentFailures, _ := m.Int64Counter("orders.service.intent_failures", metric.WithDescription("Number of failed payment intent requests"))
	return serviceMetrics{ordersFinalized: ordersFinalized, ordersSpawned: ordersSpawned, intentFailures: intentFailures}
}

func (m serviceMetrics) recordFinalized(ctx context.Context, split bool, resulting int) {
	if m.ordersFinalized != nil {
		m.ordersFinalized.Add(ctx, 1, metric.WithAttributes(attribute.Bool("order.split", split)))
	}
	if split && m.ordersSpawned != nil {
		m.ordersSpawned.Add(ctx, int64(resulting))
	}
}

func (m serviceMetrics) recordIntentFailure(ctx context.Context) {
	if m.intentFailures != nil {
		m.intentFailures.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
