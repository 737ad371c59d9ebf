package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// productRecord maps the product entity to the products table.
type productRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	Name         string          `gorm:"column:name;size:255;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	UnitsInStock int             `gorm:"column:units_in_stock;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// orderItemRecord maps an order item. OrderID stays NULL while the item is unbound.
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

// orderRecord maps an order together with its ordered item id index.
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

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{ID: p.ID, Name: p.Name, Price: p.Price, UnitsInStock: p.UnitsInStock}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{ID: r.ID, Name: r.Name, Price: r.Price, UnitsInStock: r.UnitsInStock}
}

func toOrderItemRecord(i *domain.OrderItem) orderItemRecord {
	rec := orderItemRecord{ID: i.ID, ProductID: i.ProductID, Quantity: i.Quantity, OrderItemPrice: i.OrderItemPrice}
	if i.OrderID != nil {
		id := *i.OrderID
		rec.OrderID = &id
	}
	return rec
}

func (r orderItemRecord) toDomain() *domain.OrderItem {
	item := &domain.OrderItem{ID: r.ID, ProductID: r.ProductID, Quantity: r.Quantity, OrderItemPrice: r.OrderItemPrice}
	if r.OrderID != nil {
		item.Bind(*r.OrderID)
	}
	return item
}

func toOrderRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		// a nil array would be written as NULL
		OrderItemIDs: append(pq.Int64Array{}, o.OrderItemIDs...),
		TotalPrice:   o.TotalPrice,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		Address:      r.Address,
		OrderItemIDs: append([]int64(nil), r.OrderItemIDs...),
		TotalPrice:   r.TotalPrice,
	}
}
