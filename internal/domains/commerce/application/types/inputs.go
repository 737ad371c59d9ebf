package types

import "github.com/shopspring/decimal"

// ProductInput carries the caller-supplied fields of a product.
type ProductInput struct {
	Name         string
	Price        decimal.Decimal
	UnitsInStock int
}

// OrderItemInput carries the caller-supplied fields of an order item.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// OrderInput carries the caller-supplied fields of an order. IdempotencyKey is
// optional and only honoured on creation.
type OrderInput struct {
	CustomerName   string
	Address        string
	OrderItemIDs   []int64
	IdempotencyKey string
}
