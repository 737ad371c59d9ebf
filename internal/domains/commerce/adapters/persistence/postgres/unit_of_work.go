package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs use cases inside PostgreSQL transactions. Caller manages DB lifecycle.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork wires a PostgreSQL-backed unit of work.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithinTx opens a transaction, hands fn repositories bound to it and commits
// when fn returns nil. Rows read through those repositories are locked until
// the transaction ends.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &repositories{db: tx})
	})
}

type repositories struct {
	db *gorm.DB
}

func (r *repositories) Products() ports.ProductRepository       { return &productRepository{db: r.db} }
func (r *repositories) OrderItems() ports.OrderItemRepository   { return &orderItemRepository{db: r.db} }
func (r *repositories) Orders() ports.OrderRepository           { return &orderRepository{db: r.db} }
func (r *repositories) IdempotencyKeys() ports.IdempotencyStore { return NewIdempotencyStore(r.db) }
