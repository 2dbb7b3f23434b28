package routes

import (
	"os"

	"github.com/rishavk21/UrbanCart-backend/api-gateway/middlewares"
	"github.com/rishavk21/UrbanCart-backend/api-gateway/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceTargets holds the downstream base URLs.
type ServiceTargets struct {
	Auth         string
	Catalog      string
	Order        string
	Cart         string
	Notification string
}

// LoadServiceTargets reads the downstream URLs from the environment.
func LoadServiceTargets() ServiceTargets {
	return ServiceTargets{
		Auth:         getEnv("AUTH_SERVICE_URL", "http://auth-service:8081"),
		Catalog:      getEnv("CATALOG_SERVICE_URL", "http://catalog-service:8082"),
		Order:        getEnv("ORDER_SERVICE_URL", "http://order-service:8083"),
		Cart:         getEnv("CART_SERVICE_URL", "http://cart-service:8086"),
		Notification: getEnv("NOTIFICATION_SERVICE_URL", "http://notification-service:8085"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// RegisterAllRoutes maps the public /api surface onto the services. The
// gateway terminates JWT validation; downstream services trust the injected
// identity headers.
func RegisterAllRoutes(r *gin.Engine, targets ServiceTargets, logger *zap.Logger) {
	forwardTo := func(targetBase string) gin.HandlerFunc {
		return func(c *gin.Context) {
			utils.ForwardRequest(c, utils.ForwardOptions{
				TargetBase:  targetBase,
				StripPrefix: "/api",
				Logger:      logger,
			})
		}
	}

	catalog := forwardTo(targets.Catalog)
	auth := forwardTo(targets.Auth)
	orders := forwardTo(targets.Order)
	cart := forwardTo(targets.Cart)
	notifications := forwardTo(targets.Notification)

	api := r.Group("/api")

	protected := api.Group("")
	protected.Use(middlewares.JWTMiddleware())

	admin := protected.Group("")
	admin.Use(middlewares.AdminRoleMiddleware())

	// ----- Auth (public entry points) -----
	for _, path := range []string{
		"/auth/register",
		"/auth/verify-user",
		"/auth/resend-otp",
		"/auth/login",
		"/auth/refresh-token",
		"/auth/forgot-password-user",
		"/auth/verify-forgot-password-user",
		"/auth/reset-password-user",
	} {
		api.POST(path, auth)
	}
	protected.GET("/auth/logged-in-user", auth)
	protected.GET("/auth/logged-in-admin", auth)
	protected.GET("/auth/logout-user", auth)

	// ----- Catalog: products -----
	api.GET("/products", catalog)
	api.GET("/products/:id", catalog)
	admin.POST("/products", catalog)
	admin.PATCH("/products/:id", catalog)
	admin.DELETE("/products/:id", catalog)
	admin.PATCH("/products/:id/visibility", catalog)
	admin.GET("/products/presign-upload", catalog)

	// ----- Catalog: categories -----
	api.GET("/categories", catalog)
	api.GET("/categories/:id", catalog)
	admin.POST("/categories", catalog)
	admin.PUT("/categories/reorder", catalog)
	admin.PUT("/categories/:id", catalog)
	admin.DELETE("/categories/:id", catalog)

	// ----- Catalog: size types -----
	api.GET("/size-types", catalog)
	api.GET("/size-types/:id", catalog)
	admin.POST("/size-types", catalog)
	admin.PUT("/size-types/:id", catalog)
	admin.DELETE("/size-types/:id", catalog)

	// ----- Catalog: coupons -----
	protected.POST("/coupons/validate", catalog)
	admin.GET("/coupons", catalog)
	admin.POST("/coupons", catalog)
	admin.GET("/coupons/:id", catalog)
	admin.PATCH("/coupons/:id", catalog)
	admin.DELETE("/coupons/:id", catalog)

	// ----- Orders -----
	api.GET("/orders/track/:token", orders)
	protected.GET("/orders/my-orders", orders)
	protected.GET("/orders/my-orders/:id", orders)
	admin.GET("/orders/admin", orders)
	admin.GET("/orders/admin/:id", orders)
	admin.PATCH("/orders/admin/:id/status", orders)

	// ----- Cart and wishlist -----
	protected.GET("/cart", cart)
	protected.DELETE("/cart", cart)
	protected.POST("/cart/items", cart)
	protected.PATCH("/cart/items/:sku", cart)
	protected.DELETE("/cart/items/:sku", cart)
	protected.POST("/cart/merge", cart)
	protected.POST("/cart/checkout", cart)
	protected.GET("/wishlist", cart)
	protected.POST("/wishlist", cart)
	protected.DELETE("/wishlist/:product_id", cart)

	// ----- Notifications -----
	admin.GET("/notifications/log", notifications)
}
