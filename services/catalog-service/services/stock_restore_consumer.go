package services

import (
	"context"
	"encoding/json"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StartStockRestoreConsumer reads stock restoration events published by the
// order service when an order is cancelled or returned, and applies them
// through ProductService.RestoreStock. Runs until ctx is cancelled.
func StartStockRestoreConsumer(ctx context.Context, brokers []string, topic, groupID string, products ProductService, logger *zap.Logger) {
	if topic == "" {
		logger.Fatal("stock restore consumer: empty topic")
	}

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})
	defer r.Close()

	logger.Info("Stock restore consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", brokers))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Stock restore consumer stopped")
				return
			}
			logger.Error("Failed to read stock restore message", zap.Error(err))
			continue
		}

		var event models.StockRestoreEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			logger.Error("Invalid stock restore event", zap.Error(err), zap.ByteString("payload", m.Value))
			continue
		}
		if event.OrderID == "" || len(event.Items) == 0 {
			logger.Warn("Skipping stock restore event without order id or items")
			continue
		}

		if err := products.RestoreStock(ctx, &event); err != nil {
			logger.Error("Failed to apply stock restoration",
				zap.String("order_id", event.OrderID),
				zap.Error(err))
		}
	}
}
