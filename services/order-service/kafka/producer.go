package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

// ProducerAPI abstracts the Kafka producer for testing.
type ProducerAPI interface {
	Publish(ctx context.Context, topic string, key, message []byte) error
	Close() error
}

// Producer writes messages to Kafka. The topic is chosen per message so a
// single writer serves every outbound topic of the service.
type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string) *Producer {
	w := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Balancer: &kafkago.LeastBytes{},
	}
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, topic string, key, message []byte) error {
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   key,
		Value: message,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
