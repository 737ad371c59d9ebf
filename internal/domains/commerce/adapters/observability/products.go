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

var _ ports.ProductService = (*ProductService)(nil)

// ProductService decorates the product service with tracing, logging, and metrics.
type ProductService struct {
	decorator
	inner ports.ProductService
}

// NewProductService wraps the core product service.
func NewProductService(inner ports.ProductService, opts ...Option) ports.ProductService {
	return &ProductService{decorator: newDecorator(opts), inner: inner}
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, "product.list", err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, "product.get", err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *ProductService) Create(ctx context.Context, input types.ProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Create", trace.WithAttributes(attribute.String("product.name", input.Name)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.name", input.Name), slog.Int("product.units_in_stock", input.UnitsInStock))
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "product.create", err, "failed to create product", slog.String("product.name", input.Name))
	}
	s.metrics.recordMutation(ctx, "product.create")
	span.SetAttributes(attribute.Int64("product.id", result.ID))
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.ID), slog.String("product.price", result.Price.StringFixed(2)))
	return result, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, input types.ProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.Int64("product.id", id))
	result, err := s.inner.Update(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, "product.update", err, "failed to update product", slog.Int64("product.id", id))
	}
	s.metrics.recordMutation(ctx, "product.update")
	s.logInfo(ctx, "product updated", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, "product.delete", err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordMutation(ctx, "product.delete")
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}
