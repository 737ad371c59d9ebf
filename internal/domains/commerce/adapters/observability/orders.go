package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.OrderService = (*OrderService)(nil)

// OrderService decorates the order aggregator with tracing, logging, and metrics.
type OrderService struct {
	decorator
	inner ports.OrderService
}

// NewOrderService wraps the order aggregator.
func NewOrderService(inner ports.OrderService, opts ...Option) ports.OrderService {
	return &OrderService{decorator: newDecorator(opts), inner: inner}
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, "order.list", err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, "order.get", err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *OrderService) Create(ctx context.Context, input types.OrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int("order.item_count", len(input.OrderItemIDs)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Any("order.item_ids", input.OrderItemIDs))
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "order.create", err, "failed to place order", slog.Any("order.item_ids", input.OrderItemIDs))
	}
	s.metrics.recordMutation(ctx, "order.create")
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.logInfo(ctx, "order placed", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalPrice.StringFixed(2)))
	return result, nil
}

func (s *OrderService) Update(ctx context.Context, id int64, input types.OrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Update", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.Int("order.item_count", len(input.OrderItemIDs)),
	))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", id), slog.Any("order.item_ids", input.OrderItemIDs))
	result, err := s.inner.Update(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "order.update", err, "failed to update order", slog.Int64("order.id", id))
	}
	s.metrics.recordMutation(ctx, "order.update")
	s.logInfo(ctx, "order updated", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalPrice.StringFixed(2)))
	return result, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, "order.delete", err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordMutation(ctx, "order.delete")
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}
