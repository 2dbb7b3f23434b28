package controllers

import (
	"net/http"
	"strconv"

	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderController handles HTTP requests for order operations.
type OrderController struct {
	orderService *services.OrderService
	logger       *zap.Logger
}

func NewOrderController(orderService *services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

// GetMyOrders handles GET /orders/my-orders.
func (oc *OrderController) GetMyOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit := parsePaginationParams(ctx)

	result, svcErr := oc.orderService.GetUserOrders(ctx.Request.Context(), userID, page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetMyOrderByID handles GET /orders/my-orders/:id.
func (oc *OrderController) GetMyOrderByID(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, svcErr := oc.orderService.GetUserOrderByID(ctx.Request.Context(), userID, orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// GetAllOrders handles GET /orders/admin (admin only). Accepts an optional
// ?status= filter.
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	result, svcErr := oc.orderService.GetAllOrders(ctx.Request.Context(), ctx.Query("status"), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetOrderByID handles GET /orders/admin/:id (admin only).
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateStatus handles PATCH /orders/admin/:id/status (admin only).
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	changedBy, _ := middleware.GetUserID(ctx)
	order, svcErr := oc.orderService.UpdateStatus(ctx.Request.Context(), orderID, req.Status, req.TrackingNumber, changedBy)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// TrackOrder handles GET /orders/track/:token (public).
func (oc *OrderController) TrackOrder(ctx *gin.Context) {
	token := ctx.Param("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Track token is required"})
		return
	}

	result, svcErr := oc.orderService.TrackOrder(ctx.Request.Context(), token)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
