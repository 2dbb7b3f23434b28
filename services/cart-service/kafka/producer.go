package kafka

import (
	"context"
	"encoding/json"

	"github.com/rishavk21/UrbanCart-backend/services/cart-service/models"

	kafkago "github.com/segmentio/kafka-go"
)

// CheckoutPublisher abstracts the Kafka producer for testing.
type CheckoutPublisher interface {
	SendCheckoutEvent(ctx context.Context, event *models.CheckoutEvent) error
	Close() error
}

type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	return &Producer{writer: writer}
}

func (p *Producer) SendCheckoutEvent(ctx context.Context, event *models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.UserID),
		Value: data,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
