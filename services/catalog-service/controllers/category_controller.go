package controllers

import (
	"net/http"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryController handles HTTP requests for category operations.
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController.
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories handles GET /categories. Returns the nested tree.
func (cc *CategoryController) ListCategories(ctx *gin.Context) {
	tree, svcErr := cc.categoryService.GetCategoryTree(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": tree})
}

// GetCategory handles GET /categories/:id.
func (cc *CategoryController) GetCategory(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	category, svcErr := cc.categoryService.GetCategory(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory handles POST /categories (admin only).
func (cc *CategoryController) CreateCategory(ctx *gin.Context) {
	var req models.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.categoryService.CreateCategory(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory handles PUT /categories/:id (admin only).
func (cc *CategoryController) UpdateCategory(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req models.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := cc.categoryService.UpdateCategory(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles DELETE /categories/:id (admin only).
func (cc *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if svcErr := cc.categoryService.DeleteCategory(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// Reorder handles PUT /categories/reorder (admin only).
func (cc *CategoryController) Reorder(ctx *gin.Context) {
	var req models.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := cc.categoryService.Reorder(ctx.Request.Context(), &req); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Categories reordered"})
}
