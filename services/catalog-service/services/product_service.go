package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/repository"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	presignDefaultExpiry = int64(900) // seconds
	presignMaxExpiry     = int64(3600)

	stockRestoreKeyPrefix = "stock:restored:"
	stockRestoreMarkTTL   = 7 * 24 * time.Hour
)

var allowedImageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductService defines the interface for product business logic.
type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	ListProducts(ctx context.Context, filters *models.ProductFilters, page, limit int) (map[string]interface{}, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
	SetVisibility(ctx context.Context, sku string, visible bool) *ServiceError
	GeneratePresignedUpload(ctx context.Context, sku, filename, contentType string, expires int64) (uploadURL, key, publicURL string, err error)
	RestoreStock(ctx context.Context, event *models.StockRestoreEvent) error
}

type productServiceImpl struct {
	repo    repository.ProductRepository
	cache   *CacheManager
	redis   *redis.Client
	awsCfg  sdkaws.Config
	bucket  string
	cdnBase string
	logger  *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	repo repository.ProductRepository,
	cache *CacheManager,
	redisClient *redis.Client,
	awsCfg sdkaws.Config,
	bucket, cdnBase string,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		repo:    repo,
		cache:   cache,
		redis:   redisClient,
		awsCfg:  awsCfg,
		bucket:  bucket,
		cdnBase: cdnBase,
		logger:  logger,
	}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{
		SKU:           strings.ToUpper(req.SKU),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		Images:        req.Images,
		CategoryID:    req.CategoryID,
		SizeTypeID:    req.SizeTypeID,
		Featured:      req.Featured,
		Visible:       true,
	}
	if product.OriginalPrice == 0 {
		product.OriginalPrice = product.Price
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Product SKU already exists"}
		}
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.cache.InvalidateProduct(ctx, product.ID.String())
	s.logger.Info("Product created", zap.String("sku", product.SKU), zap.String("id", product.ID.String()))
	return product, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	if product, ok := s.cache.GetProduct(ctx, id.String()); ok {
		return product, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	s.cache.SetProductAsync(id.String(), product)
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filters *models.ProductFilters, page, limit int) (map[string]interface{}, *ServiceError) {
	if cached, ok := s.cache.GetProductList(ctx, page, limit, filters); ok {
		return cached, nil
	}

	products, total, err := s.repo.FindAll(ctx, filters, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list products"}
	}

	response := map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}
	s.cache.SetProductListAsync(page, limit, filters, response)
	return response, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = *req.OriginalPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.SizeTypeID != nil {
		product.SizeTypeID = req.SizeTypeID
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err), zap.String("id", id.String()))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}

	s.cache.InvalidateProduct(ctx, id.String())
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to delete product", zap.Error(err), zap.String("id", id.String()))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}

	s.cache.InvalidateProduct(ctx, id.String())
	s.logger.Info("Product deleted", zap.String("id", id.String()))
	return nil
}

func (s *productServiceImpl) SetVisibility(ctx context.Context, sku string, visible bool) *ServiceError {
	if err := s.repo.SetVisibility(ctx, sku, visible); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to set product visibility", zap.Error(err), zap.String("sku", sku))
		return &ServiceError{StatusCode: 500, Message: "Failed to update visibility"}
	}

	product, err := s.repo.FindBySKU(ctx, sku)
	if err == nil {
		s.cache.InvalidateProduct(ctx, product.ID.String())
	}
	s.logger.Info("Product visibility changed", zap.String("sku", sku), zap.Bool("visible", visible))
	return nil
}

// GeneratePresignedUpload returns a presigned S3 PUT URL for a product image.
func (s *productServiceImpl) GeneratePresignedUpload(ctx context.Context, sku, filename, contentType string, expires int64) (string, string, string, error) {
	ext, ok := allowedImageContentTypes[contentType]
	if !ok {
		return "", "", "", fmt.Errorf("unsupported content type %q", contentType)
	}
	if expires <= 0 {
		expires = presignDefaultExpiry
	}
	if expires > presignMaxExpiry {
		expires = presignMaxExpiry
	}

	if _, err := s.repo.FindBySKU(ctx, strings.ToUpper(sku)); err != nil {
		return "", "", "", fmt.Errorf("unknown SKU %q", sku)
	}

	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "image"
	}
	key := fmt.Sprintf("products/%s/%s-%s%s", strings.ToUpper(sku), base, uuid.NewString()[:8], ext)

	uploadURL, _, err := aws_pkg.GeneratePresignedPutURL(ctx, s.awsCfg, s.bucket, key, expires)
	if err != nil {
		return "", "", "", err
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	if s.cdnBase != "" {
		publicURL = strings.TrimSuffix(s.cdnBase, "/") + "/" + key
	}
	return uploadURL, key, publicURL, nil
}

// RestoreStock applies a stock restoration event exactly once. A SETNX marker
// per order id absorbs Kafka redeliveries.
func (s *productServiceImpl) RestoreStock(ctx context.Context, event *models.StockRestoreEvent) error {
	marker := stockRestoreKeyPrefix + event.OrderID
	set, err := s.redis.SetNX(ctx, marker, 1, stockRestoreMarkTTL).Result()
	if err != nil {
		return fmt.Errorf("stock restore idempotency check: %w", err)
	}
	if !set {
		s.logger.Info("Stock restoration already applied, skipping", zap.String("order_id", event.OrderID))
		return nil
	}

	for _, item := range event.Items {
		if item.Quantity <= 0 {
			continue
		}
		if err := s.repo.IncrementStock(ctx, item.SKU, item.Quantity); err != nil {
			s.logger.Error("Failed to restore stock",
				zap.String("order_id", event.OrderID),
				zap.String("sku", item.SKU),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			// Release the marker so a redelivery can retry the whole event.
			s.redis.Del(ctx, marker)
			return err
		}
		if product, err := s.repo.FindBySKU(ctx, item.SKU); err == nil {
			s.cache.InvalidateProduct(ctx, product.ID.String())
		}
	}

	s.logger.Info("Stock restored",
		zap.String("order_id", event.OrderID),
		zap.Int("items", len(event.Items)))
	return nil
}
