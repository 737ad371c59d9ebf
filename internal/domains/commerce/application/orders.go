package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.OrderService = (*OrderAggregator)(nil)

// OrderAggregator binds order items to orders and keeps each order's total
// equal to the sum of its bound items' line prices.
type OrderAggregator struct {
	uow ports.UnitOfWork
}

// NewOrderAggregator wires the aggregator with its unit of work.
func NewOrderAggregator(uow ports.UnitOfWork) *OrderAggregator {
	return &OrderAggregator{uow: uow}
}

// List returns every order.
func (a *OrderAggregator) List(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := a.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		orders, err = repos.Orders().FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// Get loads a single order.
func (a *OrderAggregator) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order *domain.Order
	err := a.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// Create places a new order over unbound items. When an idempotency key is
// supplied, a repeated request with the same payload returns the order that
// the first request created.
func (a *OrderAggregator) Create(ctx context.Context, input types.OrderInput) (*domain.Order, error) {
	if err := domain.ValidateOrderInput(input.CustomerName, input.Address, input.OrderItemIDs); err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" {
		var err error
		if fingerprint, err = FingerprintOrder(input); err != nil {
			return nil, err
		}
	}

	var saved *domain.Order
	err := a.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if key != "" {
			record, err := repos.IdempotencyKeys().Get(ctx, key)
			if err != nil {
				return err
			}
			if record != nil {
				if record.RequestHash != fingerprint {
					return ports.ErrIdempotencyConflict
				}
				saved, err = repos.Orders().FindByID(ctx, record.OrderID)
				if errors.Is(err, domain.ErrNotFound) {
					return removedOrderKey(key, record.OrderID)
				}
				return err
			}
		}

		exists, err := repos.Orders().ExistsByCustomerNameIgnoreCase(ctx, input.CustomerName)
		if err != nil {
			return err
		}
		if exists {
			return duplicateCustomer(input.CustomerName)
		}
		items, err := resolveItems(ctx, repos, input.OrderItemIDs)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Bound() {
				return itemBoundElsewhere(item)
			}
		}

		order, err := repos.Orders().Save(ctx, &domain.Order{CustomerName: input.CustomerName, Address: input.Address})
		if err != nil {
			return err
		}
		if saved, err = attach(ctx, repos, order, items); err != nil {
			return err
		}
		if key != "" {
			_, err = repos.IdempotencyKeys().Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: saved.ID})
		}
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Update replaces the customer fields and the bound item set of an order.
// Items dropped from the set return to the unbound pool.
func (a *OrderAggregator) Update(ctx context.Context, id int64, input types.OrderInput) (*domain.Order, error) {
	var saved *domain.Order
	err := a.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.ValidateOrderInput(input.CustomerName, input.Address, input.OrderItemIDs); err != nil {
			return err
		}
		holder, err := repos.Orders().FindByCustomerNameIgnoreCase(ctx, input.CustomerName)
		if err != nil && domain.KindOf(err) != domain.KindNotFound {
			return err
		}
		if holder != nil && holder.ID != id {
			return duplicateCustomer(input.CustomerName)
		}
		items, err := resolveItems(ctx, repos, input.OrderItemIDs)
		if err != nil {
			return err
		}
		keep := make(map[int64]struct{}, len(items))
		for _, item := range items {
			if item.Bound() && !item.BoundTo(id) {
				return itemBoundElsewhere(item)
			}
			keep[item.ID] = struct{}{}
		}

		for _, previous := range order.OrderItemIDs {
			if _, ok := keep[previous]; ok {
				continue
			}
			if err := unbind(ctx, repos, order.ID, previous); err != nil {
				return err
			}
		}
		order.CustomerName = input.CustomerName
		order.Address = input.Address
		saved, err = attach(ctx, repos, order, items)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete unbinds every item of the order and removes it. The released items
// keep their quantity reserved until they are deleted themselves.
func (a *OrderAggregator) Delete(ctx context.Context, id int64) error {
	err := a.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		for _, itemID := range order.OrderItemIDs {
			if err := unbind(ctx, repos, order.ID, itemID); err != nil {
				return err
			}
		}
		return repos.Orders().Delete(ctx, id)
	})
	return mapError(err)
}

// resolveItems loads every requested item or fails listing the missing ids.
func resolveItems(ctx context.Context, repos ports.Repositories, ids []int64) ([]*domain.OrderItem, error) {
	items, err := repos.OrderItems().FindAllByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) == len(ids) {
		return items, nil
	}
	found := make(map[int64]struct{}, len(items))
	for _, item := range items {
		found[item.ID] = struct{}{}
	}
	missing := make([]int64, 0, len(ids)-len(items))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return nil, fmt.Errorf("%w: some order item ids were not found: %v", domain.ErrNotFound, missing)
}

func attach(ctx context.Context, repos ports.Repositories, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	order.Attach(items)
	for _, item := range items {
		if _, err := repos.OrderItems().Save(ctx, item); err != nil {
			return nil, err
		}
	}
	return repos.Orders().Save(ctx, order)
}

func unbind(ctx context.Context, repos ports.Repositories, orderID, itemID int64) error {
	item, err := repos.OrderItems().FindByID(ctx, itemID)
	if domain.KindOf(err) == domain.KindNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if !item.BoundTo(orderID) {
		return nil
	}
	item.Unbind()
	_, err = repos.OrderItems().Save(ctx, item)
	return err
}

func duplicateCustomer(name string) error {
	return fmt.Errorf("%w: an order for customer %q already exists", domain.ErrDuplicate, name)
}

func itemBoundElsewhere(item *domain.OrderItem) error {
	return fmt.Errorf("%w: order item %d already belongs to order %d", domain.ErrConflict, item.ID, *item.OrderID)
}

func removedOrderKey(key string, orderID int64) error {
	return fmt.Errorf("%w: idempotency key %q refers to order %d, which has since been deleted", domain.ErrConflict, key, orderID)
}
