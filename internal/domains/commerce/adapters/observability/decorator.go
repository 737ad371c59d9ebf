package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

const tracerName = "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/observability"

// decorator holds the instruments shared by the commerce service decorators.
type decorator struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*decorator)

func WithLogger(logger *slog.Logger) Option {
	return func(d *decorator) {
		d.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(d *decorator) {
		d.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(d *decorator) {
		d.metrics = newServiceMetrics(m)
	}
}

func newDecorator(opts []Option) decorator {
	d := decorator{
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	if d.tracer == nil {
		d.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return d
}

func (d *decorator) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if d.logger == nil {
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// logFailure logs caller mistakes at warn and everything else at error.
func (d *decorator) logFailure(ctx context.Context, msg string, err error, kind domain.Kind, attrs ...slog.Attr) {
	if d.logger == nil {
		return
	}
	level := slog.LevelWarn
	if kind == domain.KindUnknown {
		level = slog.LevelError
	}
	attrs = append(attrs, slog.String("error", err.Error()), slog.String("error.kind", kind.String()))
	d.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (d *decorator) handleError(ctx context.Context, span trace.Span, operation string, err error, msg string, attrs ...slog.Attr) error {
	kind := domain.KindOf(err)
	if span != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", kind.String()))
		span.SetStatus(codes.Error, err.Error())
	}
	d.metrics.recordFailure(ctx, operation, kind)
	d.logFailure(ctx, msg, err, kind, attrs...)
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
	failures  metric.Int64Counter
	reserved  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("commerce.service.mutations", metric.WithDescription("Number of successful create, update and delete operations"))
	failures, _ := m.Int64Counter("commerce.service.failures", metric.WithDescription("Number of failed operations by error kind"))
	reserved, _ := m.Int64Counter("commerce.inventory.units_reserved", metric.WithDescription("Units taken out of stock by newly created order items"))
	return serviceMetrics{mutations: mutations, failures: failures, reserved: reserved}
}

func (m serviceMetrics) recordMutation(ctx context.Context, operation string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, operation string, kind domain.Kind) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error.kind", kind.String()),
		))
	}
}

func (m serviceMetrics) recordReserved(ctx context.Context, productID int64, quantity int) {
	if m.reserved != nil {
		m.reserved.Add(ctx, int64(quantity), metric.WithAttributes(attribute.Int64("product.id", productID)))
	}
}
