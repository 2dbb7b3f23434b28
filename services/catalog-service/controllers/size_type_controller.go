package controllers

import (
	"net/http"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SizeTypeController handles HTTP requests for size type operations.
type SizeTypeController struct {
	sizeTypeService services.SizeTypeService
}

// NewSizeTypeController creates a new SizeTypeController.
func NewSizeTypeController(sizeTypeService services.SizeTypeService) *SizeTypeController {
	return &SizeTypeController{sizeTypeService: sizeTypeService}
}

// ListSizeTypes handles GET /size-types.
func (sc *SizeTypeController) ListSizeTypes(ctx *gin.Context) {
	sizeTypes, svcErr := sc.sizeTypeService.List(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"size_types": sizeTypes})
}

// GetSizeType handles GET /size-types/:id.
func (sc *SizeTypeController) GetSizeType(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size type ID"})
		return
	}

	sizeType, svcErr := sc.sizeTypeService.Get(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"size_type": sizeType})
}

// CreateSizeType handles POST /size-types (admin only).
func (sc *SizeTypeController) CreateSizeType(ctx *gin.Context) {
	var req models.SizeTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	sizeType, svcErr := sc.sizeTypeService.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"size_type": sizeType})
}

// UpdateSizeType handles PUT /size-types/:id (admin only).
func (sc *SizeTypeController) UpdateSizeType(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size type ID"})
		return
	}

	var req models.SizeTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	sizeType, svcErr := sc.sizeTypeService.Update(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"size_type": sizeType})
}

// DeleteSizeType handles DELETE /size-types/:id (admin only).
func (sc *SizeTypeController) DeleteSizeType(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size type ID"})
		return
	}

	if svcErr := sc.sizeTypeService.Delete(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Size type deleted"})
}
