package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var (
	_ ports.ProductRepository   = productRepository{}
	_ ports.OrderItemRepository = orderItemRepository{}
	_ ports.OrderRepository     = orderRepository{}
)

type productRepository struct{ s *state }

func (r productRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.NotFoundError("product", id)
	}
	return p.Clone(), nil
}

func (r productRepository) FindAll(_ context.Context) ([]*domain.Product, error) {
	list := make([]*domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		list = append(list, p.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r productRepository) FindByNameIgnoreCase(_ context.Context, name string) (*domain.Product, error) {
	for _, p := range r.s.products {
		if domain.SameName(p.Name, name) {
			return p.Clone(), nil
		}
	}
	return nil, domain.NotFoundByNameError("product", name)
}

func (r productRepository) ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByNameIgnoreCase(ctx, name)
	return err == nil, nil
}

func (r productRepository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	clone.ID = nextID(&r.s.nextProductID, clone.ID)
	r.s.products[clone.ID] = clone
	return clone.Clone(), nil
}

func (r productRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return domain.NotFoundError("product", id)
	}
	delete(r.s.products, id)
	return nil
}

type orderItemRepository struct{ s *state }

func (r orderItemRepository) FindByID(_ context.Context, id int64) (*domain.OrderItem, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, domain.NotFoundError("order item", id)
	}
	return item.Clone(), nil
}

func (r orderItemRepository) FindAll(_ context.Context) ([]*domain.OrderItem, error) {
	list := make([]*domain.OrderItem, 0, len(r.s.items))
	for _, item := range r.s.items {
		list = append(list, item.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r orderItemRepository) FindAllByID(_ context.Context, ids []int64) ([]*domain.OrderItem, error) {
	list := make([]*domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.s.items[id]; ok {
			list = append(list, item.Clone())
		}
	}
	return list, nil
}

func (r orderItemRepository) FindByProductID(_ context.Context, productID int64) ([]*domain.OrderItem, error) {
	var list []*domain.OrderItem
	for _, item := range r.s.items {
		if item.ProductID == productID {
			list = append(list, item.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r orderItemRepository) Save(_ context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	if item == nil {
		return nil, errors.New("order item is nil")
	}
	clone := item.Clone()
	clone.ID = nextID(&r.s.nextItemID, clone.ID)
	r.s.items[clone.ID] = clone
	return clone.Clone(), nil
}

func (r orderItemRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.items[id]; !ok {
		return domain.NotFoundError("order item", id)
	}
	delete(r.s.items, id)
	return nil
}

type orderRepository struct{ s *state }

func (r orderRepository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.NotFoundError("order", id)
	}
	return o.Clone(), nil
}

func (r orderRepository) FindAll(_ context.Context) ([]*domain.Order, error) {
	list := make([]*domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		list = append(list, o.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r orderRepository) FindByCustomerNameIgnoreCase(_ context.Context, name string) (*domain.Order, error) {
	for _, o := range r.s.orders {
		if domain.SameName(o.CustomerName, name) {
			return o.Clone(), nil
		}
	}
	return nil, domain.NotFoundByNameError("order customer", name)
}

func (r orderRepository) ExistsByCustomerNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByCustomerNameIgnoreCase(ctx, name)
	return err == nil, nil
}

func (r orderRepository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	clone.ID = nextID(&r.s.nextOrderID, clone.ID)
	r.s.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r orderRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.orders[id]; !ok {
		return domain.NotFoundError("order", id)
	}
	delete(r.s.orders, id)
	return nil
}
