package sink

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/outbox"
)

// KafkaSink delivers dispatched outbox rows to a Kafka topic. Messages
// are keyed by aggregate id and carry the outbox row id in a header so
// consumers can deduplicate redeliveries.
type KafkaSink struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaSink creates a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string, logger *zap.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	logger.Info("kafka-sink-initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic))

	return &KafkaSink{writer: writer, logger: logger}
}

// Publish writes one row to Kafka.
func (s *KafkaSink) Publish(ctx context.Context, row outbox.Row) error {
	msg := kafka.Message{
		Key:   []byte(row.AggregateID),
		Value: row.Payload,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(row.ID)},
			{Key: "event-type", Value: []byte(row.EventType)},
			{Key: "aggregate-type", Value: []byte(row.AggregateType)},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	s.logger.Debug("event-delivered",
		zap.String("event-id", row.ID),
		zap.String("event-type", row.EventType))

	return nil
}

// Close closes the underlying writer.
func (s *KafkaSink) Close() error {
	s.logger.Info("closing-kafka-sink")
	return s.writer.Close()
}
