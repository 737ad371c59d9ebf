package ports

import (
	"context"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// Repository lookups return an error wrapping domain.ErrNotFound when the row is absent.

// ProductRepository persists products. Save assigns an id when ID is zero.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByNameIgnoreCase(ctx context.Context, name string) (*domain.Product, error)
	ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// OrderItemRepository persists order items.
type OrderItemRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.OrderItem, error)
	FindAll(ctx context.Context) ([]*domain.OrderItem, error)
	// FindAllByID returns the items that exist, in the order of ids. Missing ids are skipped.
	FindAllByID(ctx context.Context, ids []int64) ([]*domain.OrderItem, error)
	FindByProductID(ctx context.Context, productID int64) ([]*domain.OrderItem, error)
	Save(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error)
	Delete(ctx context.Context, id int64) error
}

// OrderRepository persists orders along with their item id index.
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindByCustomerNameIgnoreCase(ctx context.Context, name string) (*domain.Order, error)
	ExistsByCustomerNameIgnoreCase(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories groups the repositories bound to one unit of work.
type Repositories interface {
	Products() ProductRepository
	OrderItems() OrderItemRepository
	Orders() OrderRepository
	IdempotencyKeys() IdempotencyStore
}

// UnitOfWork runs fn atomically. Every write made through repos is discarded
// when fn returns an error.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
