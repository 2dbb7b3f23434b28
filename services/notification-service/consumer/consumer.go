package consumer

import (
	"context"
	"encoding/json"

	"github.com/rishavk21/UrbanCart-backend/services/notification-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/services"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StartOrderEventsConsumer consumes order status events and hands them to
// the notification service. Blocks until the context is cancelled.
func StartOrderEventsConsumer(ctx context.Context, brokers []string, topic, groupID string, svc services.NotificationService, logger *zap.Logger) {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})
	defer reader.Close()

	logger.Info("Order events consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID))

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Order events consumer stopping")
				return
			}
			logger.Error("Order events consumer read error", zap.Error(err))
			continue
		}

		var event models.OrderStatusEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Invalid order event payload", zap.Error(err))
			continue
		}

		if err := svc.ProcessOrderEvent(ctx, &event); err != nil {
			logger.Error("Failed to process order event",
				zap.String("order_id", event.OrderID),
				zap.Error(err))
		}
	}
}
