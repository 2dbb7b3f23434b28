package services_test

import (
	"context"
	"testing"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *mockCategoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *mockCategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *mockCategoryRepo) Update(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *mockCategoryRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockCategoryRepo) Reorder(ctx context.Context, entries []models.ReorderEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

var _ repository.CategoryRepository = (*mockCategoryRepo)(nil)

type mockProductRepoForCategories struct {
	repository.ProductRepository
	countByCategory map[uuid.UUID]int64
}

func (m *mockProductRepoForCategories) CountByCategory(_ context.Context, id uuid.UUID) (int64, error) {
	return m.countByCategory[id], nil
}

func newCategoryTestService(repo *mockCategoryRepo, counts map[uuid.UUID]int64) services.CategoryService {
	if counts == nil {
		counts = map[uuid.UUID]int64{}
	}
	return services.NewCategoryService(repo, &mockProductRepoForCategories{countByCategory: counts}, zap.NewNop())
}

func TestDeleteCategory_RefusesWithChildren(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := newCategoryTestService(repo, nil)
	id := uuid.New()

	repo.On("HasChildren", mock.Anything, id).Return(true, nil).Once()

	svcErr := svc.DeleteCategory(context.Background(), id)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCategory_RefusesWithProducts(t *testing.T) {
	repo := new(mockCategoryRepo)
	id := uuid.New()
	svc := newCategoryTestService(repo, map[uuid.UUID]int64{id: 3})

	repo.On("HasChildren", mock.Anything, id).Return(false, nil).Once()

	svcErr := svc.DeleteCategory(context.Background(), id)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCategory_EmptyLeaf(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := newCategoryTestService(repo, nil)
	id := uuid.New()

	repo.On("HasChildren", mock.Anything, id).Return(false, nil).Once()
	repo.On("Delete", mock.Anything, id).Return(nil).Once()

	svcErr := svc.DeleteCategory(context.Background(), id)

	assert.Nil(t, svcErr)
	repo.AssertExpectations(t)
}

func TestReorder_UnknownCategory(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := newCategoryTestService(repo, nil)

	entries := []models.ReorderEntry{{ID: uuid.New(), SortOrder: 1}}
	repo.On("Reorder", mock.Anything, entries).Return(gorm.ErrRecordNotFound).Once()

	svcErr := svc.Reorder(context.Background(), &models.ReorderRequest{Entries: entries})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestGetCategoryTree_NestsChildrenBySortOrder(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := newCategoryTestService(repo, nil)

	rootID := uuid.New()
	childID := uuid.New()
	// FindAll returns rows already ordered by sort_order.
	repo.On("FindAll", mock.Anything).Return([]models.Category{
		{ID: rootID, Name: "Clothing", SortOrder: 0},
		{ID: childID, Name: "Shirts", ParentID: &rootID, SortOrder: 1},
	}, nil).Once()

	tree, svcErr := svc.GetCategoryTree(context.Background())

	assert.Nil(t, svcErr)
	assert.Len(t, tree, 1)
	assert.Equal(t, "Clothing", tree[0].Name)
	assert.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Shirts", tree[0].Children[0].Name)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := newCategoryTestService(repo, nil)

	repo.On("FindByName", mock.Anything, "Shoes").Return(&models.Category{ID: uuid.New(), Name: "Shoes"}, nil).Once()

	_, svcErr := svc.CreateCategory(context.Background(), &models.CreateCategoryRequest{Name: "Shoes", Active: true})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestUpdateCategory_SelfParentRejected(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := newCategoryTestService(repo, nil)
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(&models.Category{ID: id, Name: "Shoes"}, nil).Once()

	_, svcErr := svc.UpdateCategory(context.Background(), id, &models.CreateCategoryRequest{
		Name:     "Shoes",
		ParentID: &id,
		Active:   true,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
