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

// CategoryService defines the interface for category business logic.
type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, *ServiceError)
	GetCategoryTree(ctx context.Context) ([]*models.Category, *ServiceError)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CreateCategoryRequest) (*models.Category, *ServiceError)
	DeleteCategory(ctx context.Context, id uuid.UUID) *ServiceError
	Reorder(ctx context.Context, req *models.ReorderRequest) *ServiceError
}

type categoryServiceImpl struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repository.CategoryRepository, productRepo repository.ProductRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{repo: repo, productRepo: productRepo, logger: logger}
}

func slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, &ServiceError{StatusCode: 409, Message: "Category name already exists"}
	} else if err != gorm.ErrRecordNotFound {
		s.logger.Error("Failed to check category name", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create category"}
	}

	if req.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *req.ParentID); err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Parent category not found"}
		}
	}

	category := &models.Category{
		Name:     req.Name,
		Slug:     slugify(req.Name),
		Image:    req.Image,
		ParentID: req.ParentID,
		Active:   req.Active,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create category"}
	}

	s.logger.Info("Category created", zap.String("name", category.Name), zap.String("id", category.ID.String()))
	return category, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, *ServiceError) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Category not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch category"}
	}
	return category, nil
}

// GetCategoryTree returns root categories with children nested, siblings
// ordered by sort order.
func (s *categoryServiceImpl) GetCategoryTree(ctx context.Context) ([]*models.Category, *ServiceError) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list categories"}
	}

	categoryMap := make(map[uuid.UUID]*models.Category, len(categories))
	for i := range categories {
		categoryMap[categories[i].ID] = &categories[i]
	}

	var roots []*models.Category
	for i := range categories {
		cat := &categories[i]
		if cat.ParentID == nil {
			roots = append(roots, cat)
			continue
		}
		if parent, ok := categoryMap[*cat.ParentID]; ok {
			parent.Children = append(parent.Children, cat)
		} else {
			// Orphaned node (parent soft-deleted); surface it at the root.
			roots = append(roots, cat)
		}
	}
	return roots, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CreateCategoryRequest) (*models.Category, *ServiceError) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Category not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch category"}
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, &ServiceError{StatusCode: 400, Message: "Category cannot be its own parent"}
		}
		if _, err := s.repo.FindByID(ctx, *req.ParentID); err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Parent category not found"}
		}
	}

	category.Name = req.Name
	category.Slug = slugify(req.Name)
	category.Image = req.Image
	category.ParentID = req.ParentID
	category.Active = req.Active

	if err := s.repo.Update(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err), zap.String("id", id.String()))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update category"}
	}
	return category, nil
}

// DeleteCategory refuses when children or products still reference the node.
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) *ServiceError {
	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		s.logger.Error("Failed to check category children", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete category"}
	}
	if hasChildren {
		return &ServiceError{StatusCode: 409, Message: "Cannot delete category with subcategories"}
	}

	productCount, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count category products", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete category"}
	}
	if productCount > 0 {
		return &ServiceError{StatusCode: 409, Message: "Cannot delete category with associated products"}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Category not found"}
		}
		s.logger.Error("Failed to delete category", zap.Error(err), zap.String("id", id.String()))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete category"}
	}

	s.logger.Info("Category deleted", zap.String("id", id.String()))
	return nil
}

// Reorder applies the full set of sort-order assignments atomically.
func (s *categoryServiceImpl) Reorder(ctx context.Context, req *models.ReorderRequest) *ServiceError {
	if err := s.repo.Reorder(ctx, req.Entries); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 400, Message: "Reorder references an unknown category"}
		}
		s.logger.Error("Failed to reorder categories", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to reorder categories"}
	}
	s.logger.Info("Categories reordered", zap.Int("entries", len(req.Entries)))
	return nil
}
