package sink

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
)

// Noop is a development EventSink. It records accepted events in memory,
// optionally echoes them to stdout and simulates a small publish delay.
// It carries no persistence contract.
type Noop struct {
	mu       sync.Mutex
	events   []domain.DomainEvent
	echo     bool
	minDelay time.Duration
	maxDelay time.Duration
	logger   *zap.Logger
}

// NoopConfig holds noop sink options.
type NoopConfig struct {
	Echo   bool // print accepted events to stdout
	Logger *zap.Logger
}

// NewNoop creates a noop sink with the default 5-25ms simulated delay.
func NewNoop(cfg *NoopConfig) *Noop {
	return &Noop{
		echo:     cfg.Echo,
		minDelay: 5 * time.Millisecond,
		maxDelay: 25 * time.Millisecond,
		logger:   cfg.Logger,
	}
}

// WithoutDelay disables the simulated latency, for tests.
func (n *Noop) WithoutDelay() *Noop {
	n.minDelay = 0
	n.maxDelay = 0
	return n
}

// Publish records one event.
func (n *Noop) Publish(ctx context.Context, event domain.DomainEvent) error {
	if n.maxDelay > 0 {
		delay := n.minDelay + time.Duration(rand.Int63n(int64(n.maxDelay-n.minDelay)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	n.mu.Lock()
	n.events = append(n.events, event)
	n.mu.Unlock()

	if n.echo {
		fmt.Printf("[noop-sink] %s %s\n", event.EventName(), event.OccurredAt().Format(time.RFC3339))
	}

	n.logger.Debug("noop-event-accepted",
		zap.String("event-name", event.EventName()),
		zap.String("event-type", event.EventType()))

	return nil
}

// PublishAll records events in order, stopping at the first failure.
func (n *Noop) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := n.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Events returns every accepted event in publish order.
func (n *Noop) Events() []domain.DomainEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]domain.DomainEvent(nil), n.events...)
}

// EventsOfType filters accepted events by their dotted type tag.
func (n *Noop) EventsOfType(eventType string) []domain.DomainEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	var filtered []domain.DomainEvent
	for _, event := range n.events {
		if event.EventType() == eventType {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// Count returns the number of accepted events.
func (n *Noop) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.events)
}

// Reset clears the recorded events.
func (n *Noop) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = nil
}
