package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Validation(t *testing.T) {
	cases := []struct {
		name    string
		pname   string
		price   string
		stock   int
		wantErr error
	}{
		{name: "valid", pname: "Laptop", price: "999.99", stock: 3},
		{name: "blank name", pname: "   ", price: "1.00", stock: 1, wantErr: ErrBlankProductName},
		{name: "name too long", pname: strings.Repeat("a", 256), price: "1.00", stock: 1, wantErr: ErrProductNameTooLong},
		{name: "name at limit", pname: strings.Repeat("a", 255), price: "1.00", stock: 1},
		{name: "zero price", pname: "Pen", price: "0", stock: 1, wantErr: ErrNonPositivePrice},
		{name: "negative price", pname: "Pen", price: "-2.50", stock: 1, wantErr: ErrNonPositivePrice},
		{name: "three fraction digits", pname: "Pen", price: "1.005", stock: 1, wantErr: ErrPricePrecision},
		{name: "trailing zero fraction", pname: "Pen", price: "1.500", stock: 1},
		{name: "eleven integer digits", pname: "Pen", price: "12345678901", stock: 1, wantErr: ErrPricePrecision},
		{name: "negative stock", pname: "Pen", price: "1.00", stock: -1, wantErr: ErrNegativeStock},
		{name: "zero stock", pname: "Pen", price: "1.00", stock: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewProduct(0, tc.pname, decimal.RequireFromString(tc.price), tc.stock)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.pname, p.Name)
		})
	}
}

func TestProduct_ReserveAndRelease(t *testing.T) {
	p := &Product{ID: 1, Name: "Mouse", Price: decimal.RequireFromString("20.00"), UnitsInStock: 5}

	require.NoError(t, p.Reserve(5))
	require.Equal(t, 0, p.UnitsInStock)
	require.ErrorIs(t, p.Reserve(1), ErrInsufficientStock)
	require.Equal(t, 0, p.UnitsInStock)

	p.Release(2)
	require.Equal(t, 2, p.UnitsInStock)
}

func TestLinePrice(t *testing.T) {
	require.Equal(t, "59.97", LinePrice(decimal.RequireFromString("19.99"), 3).StringFixed(2))
	require.Equal(t, "0.30", LinePrice(decimal.RequireFromString("0.10"), 3).StringFixed(2))
}

func TestOrder_AttachBindsAndTotals(t *testing.T) {
	order := &Order{ID: 7, CustomerName: "Ana", Address: "Main St"}
	items := []*OrderItem{
		{ID: 2, ProductID: 1, Quantity: 1, OrderItemPrice: decimal.RequireFromString("100.00")},
		{ID: 1, ProductID: 1, Quantity: 1, OrderItemPrice: decimal.RequireFromString("150.00")},
	}

	order.Attach(items)

	require.Equal(t, []int64{2, 1}, order.OrderItemIDs)
	require.Equal(t, "250.00", order.TotalPrice.StringFixed(2))
	for _, item := range items {
		require.True(t, item.BoundTo(7))
	}
	require.True(t, order.Holds(1))
	require.False(t, order.Holds(3))
}

func TestValidateOrderInput(t *testing.T) {
	require.NoError(t, ValidateOrderInput("Ana", "Main St", []int64{1, 2}))
	require.ErrorIs(t, ValidateOrderInput("", "Main St", []int64{1}), ErrBlankCustomerName)
	require.ErrorIs(t, ValidateOrderInput("Ana", " ", []int64{1}), ErrBlankAddress)
	require.ErrorIs(t, ValidateOrderInput("Ana", "Main St", nil), ErrNoOrderItems)
	require.ErrorIs(t, ValidateOrderInput("Ana", "Main St", []int64{0}), ErrInvalidOrderItemID)
	require.ErrorIs(t, ValidateOrderInput("Ana", "Main St", []int64{3, 3}), ErrDuplicateOrderItemID)
}

func TestOrderItem_CloneIsDeep(t *testing.T) {
	item := &OrderItem{ID: 1}
	item.Bind(4)
	clone := item.Clone()
	clone.Unbind()

	require.True(t, item.BoundTo(4))
	require.False(t, clone.Bound())
}

func TestKindOf(t *testing.T) {
	cases := map[Kind]error{
		KindInvalidInput:      fmt.Errorf("%w: %w", ErrInvalidInput, ErrBlankAddress),
		KindNotFound:          NotFoundError("product", 3),
		KindDuplicate:         fmt.Errorf("%w: name taken", ErrDuplicate),
		KindInsufficientStock: fmt.Errorf("%w: Not enough units in stock for product: Pen", ErrInsufficientStock),
		KindConflict:          fmt.Errorf("%w: bound", ErrConflict),
		KindUnknown:           fmt.Errorf("boom"),
	}
	for kind, err := range cases {
		assert.Equal(t, kind, KindOf(err), kind.String())
		assert.Equal(t, kind, ParseKind(kind.String()))
	}
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, ParseKind("nope"))
	assert.ErrorIs(t, NotFoundError("order", 1), KindNotFound.Sentinel())
}
