package application

import (
	"context"
	"fmt"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.InventoryService = (*InventoryCoordinator)(nil)

// InventoryCoordinator creates, changes and removes order items while keeping
// each product's stock equal to its initial stock minus the quantities held by
// its items.
type InventoryCoordinator struct {
	uow ports.UnitOfWork
}

// NewInventoryCoordinator wires the coordinator with its unit of work.
func NewInventoryCoordinator(uow ports.UnitOfWork) *InventoryCoordinator {
	return &InventoryCoordinator{uow: uow}
}

// List returns every order item.
func (c *InventoryCoordinator) List(ctx context.Context) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	err := c.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		items, err = repos.OrderItems().FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// Get loads a single order item.
func (c *InventoryCoordinator) Get(ctx context.Context, id int64) (*domain.OrderItem, error) {
	var item *domain.OrderItem
	err := c.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		item, err = repos.OrderItems().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// Create reserves stock from the product and records an unbound order item.
func (c *InventoryCoordinator) Create(ctx context.Context, input types.OrderItemInput) (*domain.OrderItem, error) {
	if err := domain.ValidateOrderItemInput(input.ProductID, input.Quantity); err != nil {
		return nil, mapError(err)
	}
	var saved *domain.OrderItem
	err := c.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		product, err := repos.Products().FindByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if err := reserve(ctx, repos, product, input.Quantity); err != nil {
			return err
		}
		item := &domain.OrderItem{ProductID: product.ID, Quantity: input.Quantity}
		item.Reprice(product.Price)
		saved, err = repos.OrderItems().Save(ctx, item)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Update changes the product or quantity of an unbound item. Only the
// difference in quantity moves between stock and the item when the product is
// unchanged; a new product reference releases the whole old quantity and
// reserves the whole new one.
func (c *InventoryCoordinator) Update(ctx context.Context, id int64, input types.OrderItemInput) (*domain.OrderItem, error) {
	if err := domain.ValidateOrderItemInput(input.ProductID, input.Quantity); err != nil {
		return nil, mapError(err)
	}
	var saved *domain.OrderItem
	err := c.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := repos.OrderItems().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item.Bound() {
			return boundItem(item, "update")
		}
		product, err := repos.Products().FindByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if item.ProductID == product.ID {
			delta := input.Quantity - item.Quantity
			switch {
			case delta > 0:
				if err := reserve(ctx, repos, product, delta); err != nil {
					return err
				}
			case delta < 0:
				if err := release(ctx, repos, product, -delta); err != nil {
					return err
				}
			}
		} else {
			if err := releaseIfPresent(ctx, repos, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := reserve(ctx, repos, product, input.Quantity); err != nil {
				return err
			}
		}
		item.ProductID = product.ID
		item.Quantity = input.Quantity
		item.Reprice(product.Price)
		saved, err = repos.OrderItems().Save(ctx, item)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete removes an unbound item and returns its quantity to the product when
// the product still exists.
func (c *InventoryCoordinator) Delete(ctx context.Context, id int64) error {
	err := c.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		item, err := repos.OrderItems().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item.Bound() {
			return boundItem(item, "delete")
		}
		if err := releaseIfPresent(ctx, repos, item.ProductID, item.Quantity); err != nil {
			return err
		}
		return repos.OrderItems().Delete(ctx, id)
	})
	return mapError(err)
}

func reserve(ctx context.Context, repos ports.Repositories, product *domain.Product, quantity int) error {
	if err := product.Reserve(quantity); err != nil {
		return insufficientStock(product)
	}
	_, err := repos.Products().Save(ctx, product)
	return err
}

func release(ctx context.Context, repos ports.Repositories, product *domain.Product, quantity int) error {
	product.Release(quantity)
	_, err := repos.Products().Save(ctx, product)
	return err
}

func releaseIfPresent(ctx context.Context, repos ports.Repositories, productID int64, quantity int) error {
	product, err := repos.Products().FindByID(ctx, productID)
	if domain.KindOf(err) == domain.KindNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return release(ctx, repos, product, quantity)
}

func boundItem(item *domain.OrderItem, action string) error {
	return fmt.Errorf("%w: cannot %s order item %d because it belongs to order %d", domain.ErrConflict, action, item.ID, *item.OrderID)
}
