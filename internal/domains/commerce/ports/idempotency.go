package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload.
var ErrIdempotencyConflict = fmt.Errorf("%w: idempotency key reused with a different request", domain.ErrConflict)

// IdempotencyRecord associates a client-supplied key with the order it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so order placement can be replayed safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record. When the key already exists with another hash or
	// order, ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
