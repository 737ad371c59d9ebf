package memory

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.IdempotencyStore = idempotencyStore{}

type idempotencyStore struct {
	state *state
	now   func() time.Time
}

// Get returns the stored record for the provided key, or nil when absent.
func (s idempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	record, ok := s.state.keys[key]
	if !ok {
		return nil, nil
	}
	rec := record
	return &rec, nil
}

// Save persists the record or returns the existing record if it matches.
func (s idempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if existing, ok := s.state.keys[record.Key]; ok {
		rec := existing
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &rec, ports.ErrIdempotencyConflict
		}
		return &rec, nil
	}
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.state.keys[record.Key] = record
	saved := record
	return &saved, nil
}
