package ports

import (
	"context"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// ProductService exposes catalog use cases to adapters.
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, input types.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input types.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// InventoryService manages order items and keeps product stock consistent with them.
type InventoryService interface {
	List(ctx context.Context) ([]*domain.OrderItem, error)
	Get(ctx context.Context, id int64) (*domain.OrderItem, error)
	Create(ctx context.Context, input types.OrderItemInput) (*domain.OrderItem, error)
	Update(ctx context.Context, id int64, input types.OrderItemInput) (*domain.OrderItem, error)
	Delete(ctx context.Context, id int64) error
}

// OrderService binds order items to orders and maintains order totals.
type OrderService interface {
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, input types.OrderInput) (*domain.Order, error)
	Update(ctx context.Context, id int64, input types.OrderInput) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}
