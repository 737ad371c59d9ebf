package domain

import "github.com/shopspring/decimal"

const (
	// PriceScale is the number of fraction digits kept for prices.
	PriceScale = 2
	// PriceIntegerDigits bounds the integer part of a unit price.
	PriceIntegerDigits = 10
)

// LinePrice multiplies a unit price by a quantity without leaving fixed point.
func LinePrice(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(PriceScale)
}

// SumLinePrices totals the line prices of the given items.
func SumLinePrices(items []*OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item == nil {
			continue
		}
		total = total.Add(item.OrderItemPrice)
	}
	return total.Round(PriceScale)
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrNonPositivePrice
	}
	if price.Exponent() < -PriceScale && !price.Equal(price.Truncate(PriceScale)) {
		return ErrPricePrecision
	}
	if len(price.Truncate(0).Abs().String()) > PriceIntegerDigits {
		return ErrPricePrecision
	}
	return nil
}
