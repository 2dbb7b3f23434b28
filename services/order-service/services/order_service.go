package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/order-service/kafka"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/models"
	repositories "github.com/rishavk21/UrbanCart-backend/services/order-service/repository"

	apperrors "github.com/rishavk21/UrbanCart-backend/common/errors"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

type OrderResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// TrackResponse is the public tracking view. It deliberately carries no
// customer identity or address fields.
type TrackResponse struct {
	OrderNumber    string              `json:"order_number"`
	Status         models.OrderStatus  `json:"status"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	History        []TrackHistoryEntry `json:"history"`
}

type TrackHistoryEntry struct {
	Status models.OrderStatus `json:"status"`
	At     time.Time          `json:"at"`
}

// Topics groups the outbound Kafka topic names.
type Topics struct {
	StatusChanged string
	StockRestore  string
}

type OrderService struct {
	orderRepo   repositories.OrderRepository
	producer    kafka.ProducerAPI
	topics      Topics
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	metrics     *aws_pkg.MetricsClient
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	producer kafka.ProducerAPI,
	topics Topics,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics *aws_pkg.MetricsClient,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		producer:    producer,
		topics:      topics,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetUserOrders retrieves paginated orders for a specific user.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	orders, total, err := s.orderRepo.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch user orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	return &OrderResponse{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetUserOrderByID retrieves a single order owned by the user.
func (s *OrderService) GetUserOrderByID(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userUUID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// GetAllOrders retrieves paginated orders across users, optionally filtered
// by status (admin only).
func (s *OrderService) GetAllOrders(ctx context.Context, statusFilter string, page, limit int) (*OrderResponse, *ServiceError) {
	var status models.OrderStatus
	if statusFilter != "" {
		parsed, err := models.ParseStatus(statusFilter)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: err.Error()}
		}
		status = parsed
	}

	orders, total, err := s.orderRepo.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	return &OrderResponse{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetOrder retrieves any order by id (admin only).
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// UpdateStatus moves an order to a new status. The transition table is the
// only authority on legality, regardless of who is calling.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, rawStatus, trackingNumber, changedBy string) (*models.Order, *ServiceError) {
	to, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: err.Error()}
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	from := order.Status
	if !models.CanTransition(from, to) {
		return nil, &ServiceError{
			StatusCode: apperrors.ErrIllegalTransition.Code,
			Message:    illegalTransitionMessage(from, to),
		}
	}

	if to == models.StatusShipped && trackingNumber == "" && order.TrackingNumber == "" {
		return nil, &ServiceError{
			StatusCode: apperrors.ErrTrackingRequired.Code,
			Message:    apperrors.ErrTrackingRequired.Message,
		}
	}

	change := &models.StatusChange{
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  changedBy,
	}
	if err := s.orderRepo.ApplyTransition(ctx, orderID, change, trackingNumber); err != nil {
		if err == gorm.ErrRecordNotFound {
			// Someone else moved the order first; the table must be re-checked
			// against the new state.
			return nil, &ServiceError{StatusCode: 409, Message: "Order status changed concurrently, retry"}
		}
		s.logger.Error("Failed to apply status transition",
			zap.String("order_id", orderID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("changed_by", changedBy))

	s.publishStatusChanged(ctx, order, from, to)
	if models.RestoresStock(to) {
		s.publishStockRestore(ctx, order)
	}
	switch to {
	case models.StatusDelivered:
		s.recordMetric(ctx, aws_pkg.MetricOrdersDelivered)
	case models.StatusCancelled:
		s.recordMetric(ctx, aws_pkg.MetricOrdersCancelled)
	case models.StatusReturned:
		s.recordMetric(ctx, aws_pkg.MetricOrdersReturned)
	}

	updated, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return order, nil
	}
	return updated, nil
}

// TrackOrder resolves a public track token into a PII-free status view.
func (s *OrderService) TrackOrder(ctx context.Context, token string) (*TrackResponse, *ServiceError) {
	order, err := s.orderRepo.FindByTrackToken(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to resolve track token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	history := make([]TrackHistoryEntry, 0, len(order.StatusChanges))
	for _, change := range order.StatusChanges {
		history = append(history, TrackHistoryEntry{Status: change.ToStatus, At: change.CreatedAt})
	}

	return &TrackResponse{
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
		History:        history,
	}, nil
}

// CreateFromCheckout turns a cart checkout event into a PENDING order.
func (s *OrderService) CreateFromCheckout(ctx context.Context, evt *models.CheckoutEvent) error {
	if len(evt.Items) == 0 {
		return fmt.Errorf("checkout event without items for user %s", evt.UserID)
	}

	userUUID, err := uuid.Parse(evt.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id on checkout event: %w", err)
	}

	items := make([]models.OrderItem, 0, len(evt.Items))
	subtotal := 0.0
	for _, item := range evt.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return fmt.Errorf("invalid product id %q on checkout event: %w", item.ProductID, err)
		}
		items = append(items, models.OrderItem{
			ProductID: productID,
			SKU:       strings.ToUpper(item.SKU),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(),
		TrackToken:      uuid.NewString(),
		UserID:          userUUID,
		UserEmail:       evt.UserEmail,
		Status:          models.StatusPending,
		PaymentMethod:   evt.PaymentMethod,
		Subtotal:        subtotal,
		Total:           subtotal,
		ShippingAddress: evt.ShippingAddress,
		OrderItems:      items,
		StatusChanges: []models.StatusChange{
			{ToStatus: models.StatusPending, ChangedBy: "checkout"},
		},
	}
	if evt.IdempotencyKey != "" {
		key := evt.IdempotencyKey
		order.CheckoutKey = &key
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			// Kafka redelivery of an already processed checkout.
			s.logger.Info("Checkout already processed, skipping",
				zap.String("idempotency_key", evt.IdempotencyKey))
			return nil
		}
		return fmt.Errorf("create order from checkout: %w", err)
	}

	s.logger.Info("Order created from checkout",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", evt.UserID),
		zap.Float64("total", order.Total))

	s.publishStatusChanged(ctx, order, "", models.StatusPending)
	s.recordMetric(ctx, aws_pkg.MetricOrdersCreated)
	return nil
}

func (s *OrderService) recordMetric(ctx context.Context, name string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, name, map[string]string{"Service": "order-service"}); err != nil {
		s.logger.Debug("Metric publish failed", zap.String("metric", name), zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *models.Order, from, to models.OrderStatus) {
	event := models.OrderStatusEvent{
		EventType:   "order.status.changed",
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		UserEmail:   order.UserEmail,
		FromStatus:  string(from),
		ToStatus:    string(to),
		Timestamp:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal status event", zap.Error(err))
		return
	}

	if err := s.producer.Publish(ctx, s.topics.StatusChanged, []byte(order.ID.String()), payload); err != nil {
		s.logger.Error("Failed to publish status event",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	// SNS fan-out is best-effort.
	if s.snsClient != nil && s.snsTopicArn != "" {
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Warn("SNS publish failed", zap.Error(err))
		}
	}
}

func (s *OrderService) publishStockRestore(ctx context.Context, order *models.Order) {
	items := make([]models.StockRestoreItem, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, models.StockRestoreItem{SKU: item.SKU, Quantity: item.Quantity})
	}

	event := models.StockRestoreEvent{
		EventType: "order.stock.restore",
		OrderID:   order.ID.String(),
		Items:     items,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal stock restore event", zap.Error(err))
		return
	}

	if err := s.producer.Publish(ctx, s.topics.StockRestore, []byte(order.ID.String()), payload); err != nil {
		s.logger.Error("Failed to publish stock restore event",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func illegalTransitionMessage(from, to models.OrderStatus) string {
	allowed := models.AllowedTransitions(from)
	if len(allowed) == 0 {
		return fmt.Sprintf("Cannot change status of a %s order: %s is terminal", from, from)
	}
	parts := make([]string, 0, len(allowed))
	for _, a := range allowed {
		parts = append(parts, string(a))
	}
	return fmt.Sprintf("Cannot transition from %s to %s; allowed: %s", from, to, strings.Join(parts, ", "))
}

func newOrderNumber() string {
	return fmt.Sprintf("UC-%s-%s",
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(uuid.NewString()[:8]))
}

func buildMeta(page, limit int, total int64) MetaData {
	return MetaData{
		Page:        page,
		Limit:       limit,
		TotalOrders: total,
		TotalPages:  calculateTotalPages(total, limit),
		HasMore:     total > int64(page*limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
