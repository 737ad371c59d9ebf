package application

import (
	"context"
	"fmt"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var _ ports.ProductService = (*ProductService)(nil)

// ProductService manages the product catalog.
type ProductService struct {
	uow ports.UnitOfWork
}

// NewProductService wires the product service with its unit of work.
func NewProductService(uow ports.UnitOfWork) *ProductService {
	return &ProductService{uow: uow}
}

// List returns every product.
func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		products, err = repos.Products().FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// Get loads a single product.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product *domain.Product
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// Create persists a new product after checking the name is not taken.
func (s *ProductService) Create(ctx context.Context, input types.ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(0, input.Name, input.Price, input.UnitsInStock)
	if err != nil {
		return nil, mapError(err)
	}
	var saved *domain.Product
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		exists, err := repos.Products().ExistsByNameIgnoreCase(ctx, product.Name)
		if err != nil {
			return err
		}
		if exists {
			return duplicateProduct(product.Name)
		}
		saved, err = repos.Products().Save(ctx, product)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Update replaces the fields of a product that no order item references yet.
func (s *ProductService) Update(ctx context.Context, id int64, input types.ProductInput) (*domain.Product, error) {
	candidate, err := domain.NewProduct(id, input.Name, input.Price, input.UnitsInStock)
	if err != nil {
		return nil, mapError(err)
	}
	var saved *domain.Product
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		products := repos.Products()
		existing, err := products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !domain.SameName(existing.Name, candidate.Name) {
			holder, err := products.FindByNameIgnoreCase(ctx, candidate.Name)
			if err != nil && domain.KindOf(err) != domain.KindNotFound {
				return err
			}
			if holder != nil && holder.ID != id {
				return duplicateProduct(candidate.Name)
			}
		}
		if err := ensureUnreferenced(ctx, repos, id, "update"); err != nil {
			return err
		}
		saved, err = products.Save(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete removes a product that no order item references.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, id); err != nil {
			return err
		}
		if err := ensureUnreferenced(ctx, repos, id, "delete"); err != nil {
			return err
		}
		return repos.Products().Delete(ctx, id)
	})
	return mapError(err)
}

func ensureUnreferenced(ctx context.Context, repos ports.Repositories, productID int64, action string) error {
	items, err := repos.OrderItems().FindByProductID(ctx, productID)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return fmt.Errorf("%w: Cannot %s product because it is associated with an existing order.", domain.ErrConflict, action)
	}
	return nil
}

func duplicateProduct(name string) error {
	return fmt.Errorf("%w: a product named %q already exists", domain.ErrDuplicate, name)
}
