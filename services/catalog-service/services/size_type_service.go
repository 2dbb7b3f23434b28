package services

import (
	"context"
	"strings"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SizeTypeService defines the interface for size type business logic.
type SizeTypeService interface {
	Create(ctx context.Context, req *models.SizeTypeRequest) (*models.SizeType, *ServiceError)
	Get(ctx context.Context, id uuid.UUID) (*models.SizeType, *ServiceError)
	List(ctx context.Context) ([]models.SizeType, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.SizeTypeRequest) (*models.SizeType, *ServiceError)
	Delete(ctx context.Context, id uuid.UUID) *ServiceError
}

type sizeTypeServiceImpl struct {
	repo   repository.SizeTypeRepository
	logger *zap.Logger
}

// NewSizeTypeService creates a new SizeTypeService.
func NewSizeTypeService(repo repository.SizeTypeRepository, logger *zap.Logger) SizeTypeService {
	return &sizeTypeServiceImpl{repo: repo, logger: logger}
}

func (s *sizeTypeServiceImpl) Create(ctx context.Context, req *models.SizeTypeRequest) (*models.SizeType, *ServiceError) {
	sizeType := &models.SizeType{
		Name:  req.Name,
		Sizes: req.Sizes,
	}
	if err := s.repo.Create(ctx, sizeType); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Size type name already exists"}
		}
		s.logger.Error("Failed to create size type", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create size type"}
	}
	return sizeType, nil
}

func (s *sizeTypeServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.SizeType, *ServiceError) {
	sizeType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Size type not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch size type"}
	}
	return sizeType, nil
}

func (s *sizeTypeServiceImpl) List(ctx context.Context) ([]models.SizeType, *ServiceError) {
	sizeTypes, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list size types", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list size types"}
	}
	return sizeTypes, nil
}

func (s *sizeTypeServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.SizeTypeRequest) (*models.SizeType, *ServiceError) {
	sizeType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Size type not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch size type"}
	}

	sizeType.Name = req.Name
	sizeType.Sizes = req.Sizes
	if err := s.repo.Update(ctx, sizeType); err != nil {
		s.logger.Error("Failed to update size type", zap.Error(err), zap.String("id", id.String()))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update size type"}
	}
	return sizeType, nil
}

func (s *sizeTypeServiceImpl) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Size type not found"}
		}
		s.logger.Error("Failed to delete size type", zap.Error(err), zap.String("id", id.String()))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete size type"}
	}
	return nil
}
