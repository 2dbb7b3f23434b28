package repository

import (
	"context"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SizeTypeRepository defines the interface for size type data access.
type SizeTypeRepository interface {
	Create(ctx context.Context, sizeType *models.SizeType) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SizeType, error)
	FindAll(ctx context.Context) ([]models.SizeType, error)
	Update(ctx context.Context, sizeType *models.SizeType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormSizeTypeRepository implements SizeTypeRepository using GORM.
type GormSizeTypeRepository struct {
	db *gorm.DB
}

func NewGormSizeTypeRepository(db *gorm.DB) SizeTypeRepository {
	return &GormSizeTypeRepository{db: db}
}

func (r *GormSizeTypeRepository) Create(ctx context.Context, sizeType *models.SizeType) error {
	return r.db.WithContext(ctx).Create(sizeType).Error
}

func (r *GormSizeTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SizeType, error) {
	var sizeType models.SizeType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sizeType).Error
	if err != nil {
		return nil, err
	}
	return &sizeType, nil
}

func (r *GormSizeTypeRepository) FindAll(ctx context.Context) ([]models.SizeType, error) {
	var sizeTypes []models.SizeType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&sizeTypes).Error
	return sizeTypes, err
}

func (r *GormSizeTypeRepository) Update(ctx context.Context, sizeType *models.SizeType) error {
	return r.db.WithContext(ctx).Save(sizeType).Error
}

func (r *GormSizeTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SizeType{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
