package routes

import (
	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterOrderRoutes wires the order endpoints onto the router.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")

	// Public tracking endpoint, no auth.
	orders.GET("/track/:token", oc.TrackOrder)

	my := orders.Group("/my-orders")
	my.Use(middleware.AuthRequired())
	{
		my.GET("", oc.GetMyOrders)
		my.GET("/:id", oc.GetMyOrderByID)
	}

	admin := orders.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminOnly())
	{
		admin.GET("", oc.GetAllOrders)
		admin.GET("/:id", oc.GetOrderByID)
		admin.PATCH("/:id/status", oc.UpdateStatus)
	}
}
