package routes

import (
	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterCartRoutes wires the cart and wishlist endpoints onto the router.
func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	cart := r.Group("/cart")
	cart.Use(middleware.AuthRequired())
	{
		cart.GET("", cc.GetCart)
		cart.DELETE("", cc.ClearCart)
		cart.POST("/items", cc.AddItem)
		cart.PATCH("/items/:sku", cc.UpdateItem)
		cart.DELETE("/items/:sku", cc.RemoveItem)
		cart.POST("/merge", cc.MergeCart)
		cart.POST("/checkout", cc.Checkout)
	}

	wishlist := r.Group("/wishlist")
	wishlist.Use(middleware.AuthRequired())
	{
		wishlist.GET("", cc.GetWishlist)
		wishlist.POST("", cc.AddWishlistItem)
		wishlist.DELETE("/:product_id", cc.RemoveWishlistItem)
	}
}
