package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

var (
	_ ports.ProductRepository   = (*productRepository)(nil)
	_ ports.OrderItemRepository = (*orderItemRepository)(nil)
	_ ports.OrderRepository     = (*orderRepository)(nil)
)

var forUpdate = clause.Locking{Strength: "UPDATE"}

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var record productRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("product", id)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *productRepository) FindByNameIgnoreCase(ctx context.Context, name string) (*domain.Product, error) {
	var record productRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&record, "lower(name) = lower(?)", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundByNameError("product", name)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *productRepository) ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("lower(name) = lower(?)", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a product when ID is zero and updates it otherwise.
func (r *productRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":           record.Name,
				"price":          record.Price,
				"units_in_stock": record.UnitsInStock,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a product named %q already exists", domain.ErrDuplicate, record.Name)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError("product", id)
	}
	return nil
}

type orderItemRepository struct {
	db *gorm.DB
}

func (r *orderItemRepository) FindByID(ctx context.Context, id int64) (*domain.OrderItem, error) {
	var record orderItemRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("order item", id)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *orderItemRepository) FindAll(ctx context.Context) ([]*domain.OrderItem, error) {
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return orderItemsToDomain(records), nil
}

// FindAllByID locks the matching rows and returns them in the order of ids.
func (r *orderItemRepository) FindAllByID(ctx context.Context, ids []int64) ([]*domain.OrderItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).Where("id IN ?", ids).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]orderItemRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	items := make([]*domain.OrderItem, 0, len(records))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			items = append(items, rec.toDomain())
		}
	}
	return items, nil
}

func (r *orderItemRepository) FindByProductID(ctx context.Context, productID int64) ([]*domain.OrderItem, error) {
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).Where("product_id = ?", productID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return orderItemsToDomain(records), nil
}

func (r *orderItemRepository) Save(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	if item == nil {
		return nil, errors.New("order item is nil")
	}
	record := toOrderItemRecord(item)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"product_id":       record.ProductID,
				"quantity":         record.Quantity,
				"order_item_price": record.OrderItemPrice,
				"order_id":         record.OrderID,
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *orderItemRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&orderItemRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError("order item", id)
	}
	return nil
}

func orderItemsToDomain(records []orderItemRecord) []*domain.OrderItem {
	items := make([]*domain.OrderItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("order", id)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *orderRepository) FindByCustomerNameIgnoreCase(ctx context.Context, name string) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&record, "lower(customer_name) = lower(?)", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundByNameError("order customer", name)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *orderRepository) ExistsByCustomerNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("lower(customer_name) = lower(?)", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toOrderRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_name":  record.CustomerName,
				"address":        record.Address,
				"order_item_ids": record.OrderItemIDs,
				"total_price":    record.TotalPrice,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: an order for customer %q already exists", domain.ErrDuplicate, record.CustomerName)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError("order", id)
	}
	return nil
}
