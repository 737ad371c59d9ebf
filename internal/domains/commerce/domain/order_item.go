package domain

import "github.com/shopspring/decimal"

// OrderItem is a line holding a product reference, a quantity and its line price.
// OrderID is nil while the item is not attached to an order.
type OrderItem struct {
	ID             int64
	ProductID      int64
	Quantity       int
	OrderItemPrice decimal.Decimal
	OrderID        *int64
}

// ValidateOrderItemInput checks the caller-supplied fields of an order item.
func ValidateOrderItemInput(productID int64, quantity int) error {
	if productID <= 0 {
		return ErrInvalidProductID
	}
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	return nil
}

// Reprice recomputes the line price from the product's current unit price.
func (i *OrderItem) Reprice(unitPrice decimal.Decimal) {
	i.OrderItemPrice = LinePrice(unitPrice, i.Quantity)
}

// Bound reports whether the item is attached to any order.
func (i *OrderItem) Bound() bool {
	return i.OrderID != nil
}

// BoundTo reports whether the item is attached to the given order.
func (i *OrderItem) BoundTo(orderID int64) bool {
	return i.OrderID != nil && *i.OrderID == orderID
}

// Bind attaches the item to an order.
func (i *OrderItem) Bind(orderID int64) {
	id := orderID
	i.OrderID = &id
}

// Unbind returns the item to the unattached pool.
func (i *OrderItem) Unbind() {
	i.OrderID = nil
}

// Clone returns a deep copy.
func (i *OrderItem) Clone() *OrderItem {
	if i == nil {
		return nil
	}
	c := *i
	if i.OrderID != nil {
		id := *i.OrderID
		c.OrderID = &id
	}
	return &c
}
