package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/rishavk21/UrbanCart-backend/services/notification-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	notificationService services.NotificationService
	logger              *zap.Logger
}

func NewNotificationController(svc services.NotificationService, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: svc, logger: logger}
}

const (
	maxPageSize     = 100
	defaultPage     = 1
	defaultPageSize = 20
)

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page := defaultPage
	pageSize := defaultPageSize

	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("page_size", "20")); err == nil && l > 0 {
		pageSize = l
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

// GetNotificationLogs handles GET /notifications/log (admin only).
func (cc *NotificationController) GetNotificationLogs(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	filter := models.NotificationFilter{
		EventType: ctx.Query("event_type"),
		Recipient: ctx.Query("recipient"),
		Status:    ctx.Query("status"),
		Page:      page,
		Limit:     pageSize,
	}

	logs, total, err := cc.notificationService.GetLogs(ctx.Request.Context(), filter)
	if err != nil {
		cc.logger.Error("Failed to get notification logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	ctx.JSON(http.StatusOK, gin.H{
		"data":        logs,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
	})
}
