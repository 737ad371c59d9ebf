package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.UnitOfWork = (*Store)(nil)

// Store is an in-memory persistence adapter. Units of work run one at a time
// against a private copy of the state that replaces the shared state only on
// success.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithinTx runs fn with repositories bound to a snapshot and commits it when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if fn == nil {
		return errors.New("unit of work function is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(ctx, &repositories{state: work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type state struct {
	products      map[int64]*domain.Product
	items         map[int64]*domain.OrderItem
	orders        map[int64]*domain.Order
	keys          map[string]ports.IdempotencyRecord
	nextProductID int64
	nextItemID    int64
	nextOrderID   int64
}

func newState() *state {
	return &state{
		products: map[int64]*domain.Product{},
		items:    map[int64]*domain.OrderItem{},
		orders:   map[int64]*domain.Order{},
		keys:     map[string]ports.IdempotencyRecord{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		c.products[id] = p.Clone()
	}
	for id, item := range s.items {
		c.items[id] = item.Clone()
	}
	for id, o := range s.orders {
		c.orders[id] = o.Clone()
	}
	for key, rec := range s.keys {
		c.keys[key] = rec
	}
	c.nextProductID = s.nextProductID
	c.nextItemID = s.nextItemID
	c.nextOrderID = s.nextOrderID
	return c
}

func nextID(current *int64, id int64) int64 {
	if id == 0 {
		*current++
		return *current
	}
	if id > *current {
		*current = id
	}
	return id
}

type repositories struct {
	state *state
	now   func() time.Time
}

func (r *repositories) Products() ports.ProductRepository     { return productRepository{r.state} }
func (r *repositories) OrderItems() ports.OrderItemRepository { return orderItemRepository{r.state} }
func (r *repositories) Orders() ports.OrderRepository         { return orderRepository{r.state} }
func (r *repositories) IdempotencyKeys() ports.IdempotencyStore {
	return idempotencyStore{state: r.state, now: r.now}
}
