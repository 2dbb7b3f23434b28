package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCachePrefix     = "product:detail:"
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"

	defaultCacheTTL = 5 * time.Minute
)

// CacheManager handles the Redis read cache for product listings. List keys
// embed a version number; invalidation bumps the version instead of scanning
// for keys, leaving stale entries to expire on their own TTL.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(client *redis.Client, logger *zap.Logger) *CacheManager {
	return &CacheManager{redis: client, ttl: defaultCacheTTL, logger: logger}
}

// GetProductList retrieves a cached product list page.
func (cm *CacheManager) GetProductList(ctx context.Context, page, limit int, filters *models.ProductFilters) (map[string]interface{}, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listCacheKey(version, page, limit, filters)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		cm.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetProductListAsync caches a product list page without blocking the request.
func (cm *CacheManager) SetProductListAsync(page, limit int, filters *models.ProductFilters, response map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(ctx)
		if err != nil || version == 0 {
			return
		}

		jsonBytes, err := json.Marshal(response)
		if err != nil {
			cm.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(ctx, cm.listCacheKey(version, page, limit, filters), jsonBytes, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	cached, err := cm.redis.Get(ctx, productCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a single product without blocking the request.
func (cm *CacheManager) SetProductAsync(id string, product *models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		productJSON, err := json.Marshal(product)
		if err != nil {
			cm.logger.Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", id))
			return
		}

		if err := cm.redis.Set(ctx, productCachePrefix+id, productJSON, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache product", zap.Error(err), zap.String("product_id", id))
		}
	}()
}

// InvalidateProduct bumps the list cache version and drops the detail entry.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, id string) {
	if err := cm.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		cm.logger.Error("Failed to invalidate product list cache", zap.Error(err), zap.String("product_id", id))
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cm.redis.Del(bgCtx, productCachePrefix+id).Err(); err != nil {
			cm.logger.Warn("Failed to delete product cache", zap.Error(err), zap.String("product_id", id))
		}
	}()
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("failed to get cache version: %w", err)
}

func (cm *CacheManager) listCacheKey(version int64, page, limit int, filters *models.ProductFilters) string {
	category := ""
	featured := ""
	minPrice := ""
	maxPrice := ""
	search := ""
	sort := ""
	if filters != nil {
		if filters.CategoryID != nil {
			category = filters.CategoryID.String()
		}
		if filters.Featured != nil {
			featured = fmt.Sprintf("%t", *filters.Featured)
		}
		if filters.MinPrice != nil {
			minPrice = fmt.Sprintf("%g", *filters.MinPrice)
		}
		if filters.MaxPrice != nil {
			maxPrice = fmt.Sprintf("%g", *filters.MaxPrice)
		}
		search = filters.Search
		sort = filters.SortParam
	}
	return fmt.Sprintf("%s%d:p:%d:l:%d:c:%s:f:%s:min:%s:max:%s:q:%s:s:%s",
		productListCachePrefix, version, page, limit, category, featured, minPrice, maxPrice, search, sort)
}
