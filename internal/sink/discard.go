package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
)

// Discard is an EventSink that accepts every event without retaining
// it. Serving configurations with durable outbox rows use it as the
// use-case echo target, where holding events in memory would only
// accumulate.
type Discard struct {
	logger *zap.Logger
}

// NewDiscard creates a discard sink.
func NewDiscard(logger *zap.Logger) *Discard {
	return &Discard{logger: logger}
}

// Publish accepts one event and drops it.
func (d *Discard) Publish(_ context.Context, event domain.DomainEvent) error {
	d.logger.Debug("event-discarded",
		zap.String("event-name", event.EventName()),
		zap.String("event-type", event.EventType()))
	return nil
}

// PublishAll accepts events in order.
func (d *Discard) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := d.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
