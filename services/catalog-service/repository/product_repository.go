package repository

import (
	"context"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filters *models.ProductFilters, page, limit int) ([]models.Product, int64, error)
	SetVisibility(ctx context.Context, sku string, visible bool) error
	IncrementStock(ctx context.Context, sku string, qty int) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft-deletes; the row survives for order history joins.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll retrieves paginated products matching the filters.
func (r *GormProductRepository) FindAll(ctx context.Context, filters *models.ProductFilters, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filters != nil {
		if filters.OnlyVisible {
			query = query.Where("visible = ?", true)
		}
		if filters.CategoryID != nil {
			query = query.Where("category_id = ?", *filters.CategoryID)
		}
		if filters.Featured != nil {
			query = query.Where("featured = ?", *filters.Featured)
		}
		if filters.MinPrice != nil {
			query = query.Where("price >= ?", *filters.MinPrice)
		}
		if filters.MaxPrice != nil {
			query = query.Where("price <= ?", *filters.MaxPrice)
		}
		if filters.Search != "" {
			query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if filters != nil {
		switch filters.SortParam {
		case "price_asc":
			order = "price ASC"
		case "price_desc":
			order = "price DESC"
		case "name":
			order = "name ASC"
		}
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order(order).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *GormProductRepository) SetVisibility(ctx context.Context, sku string, visible bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		Update("visible", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementStock adds qty (which may be negative) to the product's stock.
func (r *GormProductRepository) IncrementStock(ctx context.Context, sku string, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
