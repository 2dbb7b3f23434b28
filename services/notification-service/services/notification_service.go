package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/notification-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/sender"

	"go.uber.org/zap"
)

const maxSendAttempts = 3

// NotificationService turns order status events into outbound email.
type NotificationService interface {
	ProcessOrderEvent(ctx context.Context, event *models.OrderStatusEvent) error
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

type statusTemplate struct {
	subject string
	body    string
}

// One template per customer-facing status. Statuses without an entry do not
// produce email.
var statusTemplates = map[string]statusTemplate{
	"PENDING": {
		subject: "We received your order {{.OrderNumber}}",
		body: `<p>Thanks for your order!</p>
<p>Order <strong>{{.OrderNumber}}</strong> has been received and is awaiting confirmation.</p>`,
	},
	"CONFIRMED": {
		subject: "Order {{.OrderNumber}} confirmed",
		body: `<p>Good news! Order <strong>{{.OrderNumber}}</strong> has been confirmed
and will be prepared for dispatch.</p>`,
	},
	"SHIPPED": {
		subject: "Order {{.OrderNumber}} is on its way",
		body: `<p>Order <strong>{{.OrderNumber}}</strong> has shipped.</p>
<p>You can follow it with your tracking link.</p>`,
	},
	"DELIVERED": {
		subject: "Order {{.OrderNumber}} delivered",
		body:    `<p>Order <strong>{{.OrderNumber}}</strong> has been delivered. Enjoy!</p>`,
	},
	"CANCELLED": {
		subject: "Order {{.OrderNumber}} cancelled",
		body: `<p>Order <strong>{{.OrderNumber}}</strong> has been cancelled.
Any payment will be refunded to the original method.</p>`,
	},
	"RETURNED": {
		subject: "Return received for order {{.OrderNumber}}",
		body: `<p>We received the return for order <strong>{{.OrderNumber}}</strong>.
Your refund is being processed.</p>`,
	},
}

type notificationService struct {
	repo     repository.NotificationRepository
	sender   sender.Sender
	subjects map[string]*template.Template
	bodies   map[string]*template.Template
	logger   *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, s sender.Sender, logger *zap.Logger) NotificationService {
	subjects := make(map[string]*template.Template, len(statusTemplates))
	bodies := make(map[string]*template.Template, len(statusTemplates))
	for status, tmpl := range statusTemplates {
		subjects[status] = template.Must(template.New(status + "-subject").Parse(tmpl.subject))
		bodies[status] = template.Must(template.New(status + "-body").Parse(tmpl.body))
	}
	return &notificationService{
		repo:     repo,
		sender:   s,
		subjects: subjects,
		bodies:   bodies,
		logger:   logger,
	}
}

func (s *notificationService) ProcessOrderEvent(ctx context.Context, event *models.OrderStatusEvent) error {
	bodyTmpl, ok := s.bodies[event.ToStatus]
	if !ok {
		s.logger.Debug("No template for status, skipping", zap.String("status", event.ToStatus))
		return nil
	}

	if event.UserEmail == "" {
		s.logger.Warn("Order event without recipient email, skipping",
			zap.String("order_id", event.OrderID),
			zap.String("status", event.ToStatus))
		return nil
	}

	var subjectBuf, bodyBuf bytes.Buffer
	if err := s.subjects[event.ToStatus].Execute(&subjectBuf, event); err != nil {
		return fmt.Errorf("render subject: %w", err)
	}
	if err := bodyTmpl.Execute(&bodyBuf, event); err != nil {
		return fmt.Errorf("render body: %w", err)
	}

	return s.sendWithRetry(ctx, event, subjectBuf.String(), bodyBuf.String())
}

func (s *notificationService) sendWithRetry(ctx context.Context, event *models.OrderStatusEvent, subject, body string) error {
	var lastErr error
	var result sender.SendResult

	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		result, lastErr = s.sender.Send(ctx, event.UserEmail, subject, body)
		if lastErr == nil {
			break
		}
		s.logger.Warn("Send attempt failed",
			zap.Int("attempt", attempt+1),
			zap.String("order_id", event.OrderID),
			zap.Error(lastErr))
	}

	entry := &models.NotificationLog{
		EventType: event.EventType,
		OrderID:   event.OrderID,
		Recipient: event.UserEmail,
		Subject:   subject,
	}
	if lastErr != nil {
		entry.Status = models.StatusFailed
		entry.Error = lastErr.Error()
	} else {
		entry.Status = models.StatusSent
		entry.MessageID = result.MessageID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to persist notification log", zap.Error(err))
	}

	if lastErr != nil {
		return fmt.Errorf("send to %s: %w", event.UserEmail, lastErr)
	}

	s.logger.Info("Notification sent",
		zap.String("order_id", event.OrderID),
		zap.String("status", event.ToStatus),
		zap.String("message_id", result.MessageID))
	return nil
}

func (s *notificationService) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return s.repo.FindAll(ctx, filter)
}
