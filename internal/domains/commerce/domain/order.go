package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order aggregates bound order items for a customer. OrderItemIDs keeps the
// order in which items were supplied.
type Order struct {
	ID           int64
	CustomerName string
	Address      string
	OrderItemIDs []int64
	TotalPrice   decimal.Decimal
}

// ValidateOrderInput checks customer fields and the requested item ids.
func ValidateOrderInput(customerName, address string, itemIDs []int64) error {
	if strings.TrimSpace(customerName) == "" {
		return ErrBlankCustomerName
	}
	if strings.TrimSpace(address) == "" {
		return ErrBlankAddress
	}
	if len(itemIDs) == 0 {
		return ErrNoOrderItems
	}
	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if id <= 0 {
			return ErrInvalidOrderItemID
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateOrderItemID
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Attach binds items to the order in the given sequence and recomputes the total.
func (o *Order) Attach(items []*OrderItem) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		item.Bind(o.ID)
		ids = append(ids, item.ID)
	}
	o.OrderItemIDs = ids
	o.TotalPrice = SumLinePrices(items)
}

// Holds reports whether the item id is in the order's index.
func (o *Order) Holds(itemID int64) bool {
	for _, id := range o.OrderItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.OrderItemIDs = append([]int64(nil), o.OrderItemIDs...)
	return &c
}
