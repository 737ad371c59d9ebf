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

var _ ports.InventoryService = (*InventoryService)(nil)

// InventoryService decorates the order item lifecycle with tracing, logging, and metrics.
type InventoryService struct {
	decorator
	inner ports.InventoryService
}

// NewInventoryService wraps the inventory coordinator.
func NewInventoryService(inner ports.InventoryService, opts ...Option) ports.InventoryService {
	return &InventoryService{decorator: newDecorator(opts), inner: inner}
}

func (s *InventoryService) List(ctx context.Context) ([]*domain.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, "order_item.list", err, "failed to list order items")
	}
	span.SetAttributes(attribute.Int("order_item.count", len(result)))
	return result, nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*domain.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Get", trace.WithAttributes(attribute.Int64("order_item.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, "order_item.get", err, "failed to load order item", slog.Int64("order_item.id", id))
	}
	return result, nil
}

func (s *InventoryService) Create(ctx context.Context, input types.OrderItemInput) (*domain.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Create", trace.WithAttributes(
		attribute.Int64("product.id", input.ProductID),
		attribute.Int("order_item.quantity", input.Quantity),
	))
	defer span.End()

	s.logInfo(ctx, "reserving stock for order item", slog.Int64("product.id", input.ProductID), slog.Int("order_item.quantity", input.Quantity))
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "order_item.create", err, "failed to create order item", slog.Int64("product.id", input.ProductID))
	}
	s.metrics.recordMutation(ctx, "order_item.create")
	s.metrics.recordReserved(ctx, result.ProductID, result.Quantity)
	span.SetAttributes(attribute.Int64("order_item.id", result.ID))
	s.logInfo(ctx, "order item created",
		slog.Int64("order_item.id", result.ID),
		slog.String("order_item.price", result.OrderItemPrice.StringFixed(2)))
	return result, nil
}

func (s *InventoryService) Update(ctx context.Context, id int64, input types.OrderItemInput) (*domain.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Update", trace.WithAttributes(
		attribute.Int64("order_item.id", id),
		attribute.Int64("product.id", input.ProductID),
		attribute.Int("order_item.quantity", input.Quantity),
	))
	defer span.End()

	s.logInfo(ctx, "updating order item", slog.Int64("order_item.id", id), slog.Int("order_item.quantity", input.Quantity))
	result, err := s.inner.Update(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "order_item.update", err, "failed to update order item", slog.Int64("order_item.id", id))
	}
	s.metrics.recordMutation(ctx, "order_item.update")
	s.logInfo(ctx, "order item updated",
		slog.Int64("order_item.id", result.ID),
		slog.String("order_item.price", result.OrderItemPrice.StringFixed(2)))
	return result, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Delete", trace.WithAttributes(attribute.Int64("order_item.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order item", slog.Int64("order_item.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, "order_item.delete", err, "failed to delete order item", slog.Int64("order_item.id", id))
	}
	s.metrics.recordMutation(ctx, "order_item.delete")
	s.logInfo(ctx, "order item deleted", slog.Int64("order_item.id", id))
	return nil
}
