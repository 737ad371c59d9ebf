package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

var validationErrors = []error{
	domain.ErrBlankProductName,
	domain.ErrProductNameTooLong,
	domain.ErrNonPositivePrice,
	domain.ErrPricePrecision,
	domain.ErrNegativeStock,
	domain.ErrInvalidProductID,
	domain.ErrNonPositiveQuantity,
	domain.ErrBlankCustomerName,
	domain.ErrBlankAddress,
	domain.ErrNoOrderItems,
	domain.ErrInvalidOrderItemID,
	domain.ErrDuplicateOrderItemID,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}
	return err
}

func insufficientStock(product *domain.Product) error {
	return fmt.Errorf("%w: Not enough units in stock for product: %s", domain.ErrInsufficientStock, product.Name)
}
