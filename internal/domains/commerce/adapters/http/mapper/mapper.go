package mapper

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// ProductRequest is the inbound payload for product create and update. Price
// accepts a JSON number or a numeric string.
type ProductRequest struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	UnitsInStock int             `json:"unitsInStock"`
}

// Product is the HTTP representation of a product.
type Product struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	UnitsInStock int         `json:"unitsInStock"`
}

// OrderItemRequest is the inbound payload for order item create and update.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderItem is the HTTP representation of an order item.
type OrderItem struct {
	ID             int64       `json:"id"`
	ProductID      int64       `json:"productId"`
	Quantity       int         `json:"quantity"`
	OrderItemPrice json.Number `json:"orderItemPrice"`
	OrderID        *int64      `json:"orderId,omitempty"`
}

// OrderRequest is the inbound payload for order create and update.
type OrderRequest struct {
	CustomerName string  `json:"customerName"`
	Address      string  `json:"address"`
	OrderItemIDs []int64 `json:"orderItemIds"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customerName"`
	Address      string      `json:"address"`
	OrderItemIDs []int64     `json:"orderItemIds"`
	TotalPrice   json.Number `json:"totalPrice"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(domain.PriceScale))
}

func ToProductInput(req ProductRequest) types.ProductInput {
	return types.ProductInput{Name: req.Name, Price: req.Price, UnitsInStock: req.UnitsInStock}
}

func ToOrderItemInput(req OrderItemRequest) types.OrderItemInput {
	return types.OrderItemInput{ProductID: req.ProductID, Quantity: req.Quantity}
}

// ToOrderInput maps the payload and the optional idempotency key header.
func ToOrderInput(req OrderRequest, idempotencyKey string) types.OrderInput {
	return types.OrderInput{
		CustomerName:   req.CustomerName,
		Address:        req.Address,
		OrderItemIDs:   req.OrderItemIDs,
		IdempotencyKey: idempotencyKey,
	}
}

func FromProduct(p *domain.Product) Product {
	return Product{ID: p.ID, Name: p.Name, Price: money(p.Price), UnitsInStock: p.UnitsInStock}
}

func FromProducts(list []*domain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}

func FromOrderItem(i *domain.OrderItem) OrderItem {
	item := OrderItem{ID: i.ID, ProductID: i.ProductID, Quantity: i.Quantity, OrderItemPrice: money(i.OrderItemPrice)}
	if i.OrderID != nil {
		id := *i.OrderID
		item.OrderID = &id
	}
	return item
}

func FromOrderItems(list []*domain.OrderItem) []OrderItem {
	out := make([]OrderItem, 0, len(list))
	for _, i := range list {
		out = append(out, FromOrderItem(i))
	}
	return out
}

func FromOrder(o *domain.Order) Order {
	return Order{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		OrderItemIDs: append([]int64{}, o.OrderItemIDs...),
		TotalPrice:   money(o.TotalPrice),
	}
}

func FromOrders(list []*domain.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, FromOrder(o))
	}
	return out
}
