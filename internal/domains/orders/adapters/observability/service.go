package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/application"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-order-processor/internal/domains/orders/adapters/observability/service"

// Service decorates the order processor with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
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

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) ProcessOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ProcessOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	start := time.Now()
	s.logInfo(ctx, "processing order", slog.Int64("order.id", orderID))
	result, err := s.inner.ProcessOrder(ctx, orderID)
	s.metrics.record(ctx, outcome(err), time.Since(start))
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to process order", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.Int("order.products", len(result.Products)))
	s.logInfo(ctx, "order processed", slog.Int64("order.id", result.ID), slog.Int("order.products", len(result.Products)))
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

// outcome buckets a processing result for the metric attribute.
func outcome(err error) string {
	var (
		validation *application.ValidationError
		notFound   *application.OrderNotFoundError
		noHandler  *application.NoHandlerError
	)
	switch {
	case err == nil:
		return "processed"
	case errors.As(err, &validation):
		return "invalid"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &noHandler):
		return "no_handler"
	default:
		return "error"
	}
}

type serviceMetrics struct {
	processed metric.Int64Counter
	duration  metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	processed, _ := m.Int64Counter("orders.processed", metric.WithDescription("Number of process order calls by outcome"))
	duration, _ := m.Float64Histogram("orders.processing.duration", metric.WithDescription("Time spent processing an order"), metric.WithUnit("s"))
	return serviceMetrics{processed: processed, duration: duration}
}

func (m serviceMetrics) record(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if m.processed != nil {
		m.processed.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

var _ ports.Service = (*Service)(nil)
