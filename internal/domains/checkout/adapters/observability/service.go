package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	types "github.com/openmall/order-api-server/internal/domains/checkout/application/types"
	checkoutdomain "github.com/openmall/order-api-server/internal/domains/checkout/domain"
	checkoutports "github.com/openmall/order-api-server/internal/domains/checkout/ports"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
)

const tracerName = "github.com/openmall/order-api-server/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   checkoutports.Service
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

// New wraps the core checkout service.
func New(inner checkoutports.Service, opts ...Option) checkoutports.Service {
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

func (s *Service) CreateCheckout(ctx context.Context, checkout *checkoutdomain.Checkout) (*checkoutdomain.Checkout, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.CreateCheckout")
	defer span.End()

	result, err := s.inner.CreateCheckout(ctx, checkout)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create checkout")
	}
	span.SetAttributes(attribute.String("checkout.token", result.Token.String()))
	s.logInfo(ctx, "checkout created", slog.String("checkout.token", result.Token.String()))
	return result, nil
}

func (s *Service) GetCheckout(ctx context.Context, token string) (*checkoutdomain.Checkout, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.GetCheckout", trace.WithAttributes(attribute.String("checkout.token", token)))
	defer span.End()

	result, err := s.inner.GetCheckout(ctx, token)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load checkout", slog.String("checkout.token", token))
	}
	span.SetAttributes(attribute.Int("checkout.line_count", len(result.Lines)))
	return result, nil
}

func (s *Service) ConvertToOrder(ctx context.Context, input types.ConvertInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.ConvertToOrder",
		trace.WithAttributes(attribute.String("checkout.token", input.CheckoutToken.String())))
	defer span.End()

	s.logInfo(ctx, "converting checkout", slog.String("checkout.token", input.CheckoutToken.String()))
	result, err := s.inner.ConvertToOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to convert checkout", slog.String("checkout.token", input.CheckoutToken.String()))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordConverted(ctx)
	s.logInfo(ctx, "checkout converted",
		slog.String("checkout.token", input.CheckoutToken.String()),
		slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	checkoutsConverted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	converted, _ := m.Int64Counter("checkout.service.checkouts_converted", metric.WithDescription("Number of checkouts converted into orders"))
	return serviceMetrics{checkoutsConverted: converted}
}

func (m serviceMetrics) recordConverted(ctx context.Context) {
	if m.checkoutsConverted != nil {
		m.checkoutsConverted.Add(ctx, 1)
	}
}

var _ checkoutports.Service = (*Service)(nil)
