package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/outbox"
)

// LogSink writes dispatched rows to the log. Used when no Kafka
// brokers are configured, so the dispatcher can still drain and stamp
// rows in development setups.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a logging sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish logs the row and reports success.
func (s *LogSink) Publish(_ context.Context, row outbox.Row) error {
	s.logger.Info("event-delivered",
		zap.String("event-id", row.ID),
		zap.String("event-type", row.EventType),
		zap.String("aggregate-type", row.AggregateType),
		zap.String("aggregate-id", row.AggregateID),
		zap.ByteString("payload", row.Payload))
	return nil
}
