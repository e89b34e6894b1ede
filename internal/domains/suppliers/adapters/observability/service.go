package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	suppliersdomain "github.com/openmall/order-api-server/internal/domains/suppliers/domain"
	suppliersports "github.com/openmall/order-api-server/internal/domains/suppliers/ports"
)

const tracerName = "github.com/openmall/order-api-server/internal/domains/suppliers/adapters/observability/service"

// Service decorates the supplier registry service with tracing and logging.
type Service struct {
	inner  suppliersports.Service
	tracer trace.Tracer
	logger *slog.Logger
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

// New wraps the core suppliers service.
func New(inner suppliersports.Service, opts ...Option) suppliersports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
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

func (s *Service) CreateSupplier(ctx context.Context, supplier *suppliersdomain.Supplier) (*suppliersdomain.Supplier, error) {
	ctx, span := s.tracer.Start(ctx, "SuppliersService.CreateSupplier")
	defer span.End()

	result, err := s.inner.CreateSupplier(ctx, supplier)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create supplier")
	}
	span.SetAttributes(attribute.Int64("supplier.id", result.ID))
	s.logInfo(ctx, "supplier created", slog.Int64("supplier.id", result.ID), slog.String("supplier.name", result.Name))
	return result, nil
}

func (s *Service) GetSupplierByID(ctx context.Context, id int64) (*suppliersdomain.Supplier, error) {
	ctx, span := s.tracer.Start(ctx, "SuppliersService.GetSupplierByID", trace.WithAttributes(attribute.Int64("supplier.id", id)))
	defer span.End()

	result, err := s.inner.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load supplier", slog.Int64("supplier.id", id))
	}
	return result, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*suppliersdomain.Supplier, error) {
	ctx, span := s.tracer.Start(ctx, "SuppliersService.ListSuppliers")
	defer span.End()

	result, err := s.inner.ListSuppliers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list suppliers")
	}
	span.SetAttributes(attribute.Int("supplier.count", len(result)))
	return result, nil
}

func (s *Service) DeactivateSupplier(ctx context.Context, id int64) (*suppliersdomain.Supplier, error) {
	ctx, span := s.tracer.Start(ctx, "SuppliersService.DeactivateSupplier", trace.WithAttributes(attribute.Int64("supplier.id", id)))
	defer span.End()

	result, err := s.inner.DeactivateSupplier(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to deactivate supplier", slog.Int64("supplier.id", id))
	}
	s.logInfo(ctx, "supplier deactivated", slog.Int64("supplier.id", id))
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

var _ suppliersports.Service = (*Service)(nil)
