package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so adapters can map it without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindDuplicate
	KindInsufficientStock
	KindConflict
)

var (
	// ErrInvalidInput signals malformed or missing fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a referenced product, order item or order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate signals a case-insensitive name collision.
	ErrDuplicate = errors.New("duplicate")
	// ErrInsufficientStock signals the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict signals a mutation blocked by the current state of a related entity.
	ErrConflict = errors.New("conflict")
)

var kindNames = map[Kind]string{
	KindUnknown:           "Unknown",
	KindInvalidInput:      "InvalidInput",
	KindNotFound:          "NotFound",
	KindDuplicate:         "Duplicate",
	KindInsufficientStock: "InsufficientStock",
	KindConflict:          "Conflict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel returns the error every failure of this kind wraps.
func (k Kind) Sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindDuplicate:
		return ErrDuplicate
	case KindInsufficientStock:
		return ErrInsufficientStock
	case KindConflict:
		return ErrConflict
	default:
		return nil
	}
}

// ParseKind reverses Kind.String. Unknown names map to KindUnknown.
func ParseKind(name string) Kind {
	for kind, n := range kindNames {
		if n == name {
			return kind
		}
	}
	return KindUnknown
}

// KindOf reports the kind of the first sentinel found in the error chain.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindUnknown
	}
}

// Field-level validation failures. They are wrapped with ErrInvalidInput by the services.
var (
	ErrBlankProductName     = errors.New("product name is required")
	ErrProductNameTooLong   = errors.New("product name must be at most 255 characters")
	ErrNonPositivePrice     = errors.New("price must be greater than zero")
	ErrPricePrecision       = errors.New("price can have at most 10 integer digits and 2 fraction digits")
	ErrNegativeStock        = errors.New("units in stock must not be negative")
	ErrInvalidProductID     = errors.New("product id is required")
	ErrNonPositiveQuantity  = errors.New("quantity must be greater than zero")
	ErrBlankCustomerName    = errors.New("customer name is required")
	ErrBlankAddress         = errors.New("address is required")
	ErrNoOrderItems         = errors.New("order item ids must not be empty")
	ErrInvalidOrderItemID   = errors.New("order item ids must be greater than zero")
	ErrDuplicateOrderItemID = errors.New("order item ids must be unique")
)

// NotFoundError builds a NotFound failure naming the entity and id.
func NotFoundError(entity string, id int64) error {
	return fmt.Errorf("%w: %s with id %d", ErrNotFound, entity, id)
}

// NotFoundByNameError builds a NotFound failure for a name lookup.
func NotFoundByNameError(entity, name string) error {
	return fmt.Errorf("%w: %s named %q", ErrNotFound, entity, name)
}
