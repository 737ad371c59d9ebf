package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxProductNameLength bounds the product name in characters.
const MaxProductNameLength = 255

// Product is a catalog entry with a unit price and an available stock count.
type Product struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	UnitsInStock int
}

// NewProduct validates the invariants and builds a Product.
func NewProduct(id int64, name string, price decimal.Decimal, unitsInStock int) (*Product, error) {
	p := &Product{ID: id, Name: name, Price: price, UnitsInStock: unitsInStock}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces field constraints.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrBlankProductName
	}
	if utf8.RuneCountInString(p.Name) > MaxProductNameLength {
		return ErrProductNameTooLong
	}
	if err := validatePrice(p.Price); err != nil {
		return err
	}
	if p.UnitsInStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// HasStock reports whether quantity units can be reserved.
func (p *Product) HasStock(quantity int) bool {
	return quantity <= p.UnitsInStock
}

// Reserve takes quantity units out of stock.
func (p *Product) Reserve(quantity int) error {
	if !p.HasStock(quantity) {
		return ErrInsufficientStock
	}
	p.UnitsInStock -= quantity
	return nil
}

// Release puts quantity units back into stock.
func (p *Product) Release(quantity int) {
	p.UnitsInStock += quantity
}

// SameName compares product names the way the uniqueness rule does.
func SameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Clone returns a copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
