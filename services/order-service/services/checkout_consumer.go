package services

import (
	"context"
	"encoding/json"

	"github.com/rishavk21/UrbanCart-backend/services/order-service/models"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StartCheckoutConsumer consumes cart checkout events and creates PENDING
// orders. Blocks until the context is cancelled.
func StartCheckoutConsumer(ctx context.Context, brokers []string, topic, groupID string, orders *OrderService, logger *zap.Logger) {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})
	defer reader.Close()

	logger.Info("Checkout consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID))

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Checkout consumer stopping")
				return
			}
			logger.Error("Checkout consumer read error", zap.Error(err))
			continue
		}

		var event models.CheckoutEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Invalid checkout event payload", zap.Error(err))
			continue
		}

		if err := orders.CreateFromCheckout(ctx, &event); err != nil {
			logger.Error("Failed to process checkout event",
				zap.String("user_id", event.UserID),
				zap.Error(err))
		}
	}
}
