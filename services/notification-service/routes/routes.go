package routes

import (
	"net/http"

	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, controller *controllers.NotificationController) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "notification-service"})
	})

	admin := router.Group("/notifications", middleware.AuthRequired(), middleware.AdminOnly())
	{
		admin.GET("/log", controller.GetNotificationLogs)
	}
}
