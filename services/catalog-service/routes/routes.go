package routes

import (
	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes sets up product, category, size type and coupon
// routes. Browsing endpoints are public; mutations require the admin role
// (identity headers injected by the API gateway).
func RegisterCatalogRoutes(
	r *gin.Engine,
	pc *controllers.ProductController,
	cc *controllers.CategoryController,
	sc *controllers.SizeTypeController,
	coupons *controllers.CouponController,
) {
	products := r.Group("/products")
	products.GET("", pc.ListProducts)
	products.GET("/:id", pc.GetProduct)

	productsAdmin := products.Group("")
	productsAdmin.Use(middleware.AuthRequired(), middleware.AdminOnly())
	productsAdmin.POST("", pc.CreateProduct)
	productsAdmin.PATCH("/:id", pc.UpdateProduct)
	productsAdmin.DELETE("/:id", pc.DeleteProduct)
	productsAdmin.PATCH("/:id/visibility", pc.SetVisibility)
	productsAdmin.GET("/presign-upload", pc.GetPresignUpload)

	categories := r.Group("/categories")
	categories.GET("", cc.ListCategories)
	categories.GET("/:id", cc.GetCategory)

	categoriesAdmin := categories.Group("")
	categoriesAdmin.Use(middleware.AuthRequired(), middleware.AdminOnly())
	categoriesAdmin.POST("", cc.CreateCategory)
	categoriesAdmin.PUT("/reorder", cc.Reorder)
	categoriesAdmin.PUT("/:id", cc.UpdateCategory)
	categoriesAdmin.DELETE("/:id", cc.DeleteCategory)

	sizeTypes := r.Group("/size-types")
	sizeTypes.GET("", sc.ListSizeTypes)
	sizeTypes.GET("/:id", sc.GetSizeType)

	sizeTypesAdmin := sizeTypes.Group("")
	sizeTypesAdmin.Use(middleware.AuthRequired(), middleware.AdminOnly())
	sizeTypesAdmin.POST("", sc.CreateSizeType)
	sizeTypesAdmin.PUT("/:id", sc.UpdateSizeType)
	sizeTypesAdmin.DELETE("/:id", sc.DeleteSizeType)

	couponRoutes := r.Group("/coupons")
	couponRoutes.Use(middleware.AuthRequired())
	couponRoutes.POST("/validate", coupons.ValidateCoupon)

	couponsAdmin := couponRoutes.Group("")
	couponsAdmin.Use(middleware.AdminOnly())
	couponsAdmin.GET("", coupons.ListCoupons)
	couponsAdmin.POST("", coupons.CreateCoupon)
	couponsAdmin.GET("/:id", coupons.GetCoupon)
	couponsAdmin.PATCH("/:id", coupons.UpdateCoupon)
	couponsAdmin.DELETE("/:id", coupons.DeleteCoupon)
}
