package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService services.ProductService
	logger         *zap.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(productService services.ProductService, logger *zap.Logger) *ProductController {
	return &ProductController{productService: productService, logger: logger}
}

// ListProducts handles GET /products. Non-admin callers only see visible
// products; admins pass ?all=true to include hidden ones.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	filters := &models.ProductFilters{
		Search:      strings.TrimSpace(ctx.Query("q")),
		SortParam:   ctx.Query("sort"),
		OnlyVisible: true,
	}
	if ctx.Query("all") == "true" && ctx.GetHeader("X-User-Role") == "admin" {
		filters.OnlyVisible = false
	}
	if raw := ctx.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filters.CategoryID = &id
	}
	if raw := ctx.Query("featured"); raw != "" {
		featured := raw == "true"
		filters.Featured = &featured
	}
	if raw := ctx.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MinPrice = &v
		}
	}
	if raw := ctx.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MaxPrice = &v
		}
	}

	response, svcErr := pc.productService.ListProducts(ctx.Request.Context(), filters, page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, svcErr := pc.productService.GetProduct(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct handles POST /products (admin only).
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var req models.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.CreateProduct(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles PATCH /products/:id (admin only).
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.UpdateProduct(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles DELETE /products/:id (admin only).
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if svcErr := pc.productService.DeleteProduct(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// SetVisibility handles PATCH /products/:id/visibility (admin only).
// The path parameter carries the SKU; it shares the :id wildcard with the
// sibling product routes because Gin requires one name per position.
func (pc *ProductController) SetVisibility(ctx *gin.Context) {
	sku := strings.TrimSpace(ctx.Param("id"))
	if sku == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "SKU is required"})
		return
	}

	var req struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := pc.productService.SetVisibility(ctx.Request.Context(), sku, *req.Visible); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"sku": sku, "visible": *req.Visible})
}

// GetPresignUpload handles GET /products/presign-upload (admin only).
// Returns a presigned URL for direct S3 upload of a product image.
func (pc *ProductController) GetPresignUpload(ctx *gin.Context) {
	sku := strings.TrimSpace(ctx.Query("sku"))
	if sku == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "SKU query parameter is required"})
		return
	}

	filename := ctx.DefaultQuery("filename", "image.jpg")
	contentType := ctx.DefaultQuery("content_type", "image/jpeg")

	expires := int64(0)
	if raw := ctx.Query("expires"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expires parameter"})
			return
		}
		expires = v
	}

	uploadURL, key, publicURL, err := pc.productService.GeneratePresignedUpload(
		ctx.Request.Context(), sku, filename, contentType, expires)
	if err != nil {
		pc.logger.Error("Failed to generate presigned upload", zap.Error(err), zap.String("sku", sku))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"method":     "PUT",
		"key":        key,
		"public_url": publicURL,
	})
}
