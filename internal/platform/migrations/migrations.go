package migrations

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Name uniqueness is case-insensitive, which AutoMigrate cannot express with struct tags.
var expressionIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_lower ON products (lower(name))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_customer_name_lower ON orders (lower(customer_name))`,
}

// Run applies the commerce schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&productRecord{},
		&orderItemRecord{},
		&orderRecord{},
		&idempotencyRecord{},
	); err != nil {
		return err
	}
	for _, stmt := range expressionIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Product schema mirrors the commerce Postgres adapter.
type productRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	Name         string          `gorm:"column:name;size:255;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	UnitsInStock int             `gorm:"column:units_in_stock;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type orderItemRecord struct {
	ID             int64           `gorm:"primaryKey;column:id"`
	ProductID      int64           `gorm:"column:product_id;not null;index"`
	Quantity       int             `gorm:"column:quantity;not null"`
	OrderItemPrice decimal.Decimal `gorm:"column:order_item_price;type:numeric(38,2);not null"`
	OrderID        *int64          `gorm:"column:order_id;index"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type orderRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	CustomerName string          `gorm:"column:customer_name;not null"`
	Address      string          `gorm:"column:address;not null"`
	OrderItemIDs pq.Int64Array   `gorm:"column:order_item_ids;type:bigint[];not null;default:'{}'"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(38,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Idempotency schema mirrors the order placement key store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
