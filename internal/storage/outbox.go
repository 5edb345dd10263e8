package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
)

// Queryer is the subset of database/sql used by the outbox writer.
// Both *sql.DB and *sql.Tx satisfy it, so the writer can enqueue rows
// inside a caller's transaction or against the pool directly.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var (
	_ Queryer = (*sql.DB)(nil)
	_ Queryer = (*sql.Tx)(nil)
)

// OutboxWriter appends event envelopes to the outbox table. When bound
// to a transaction, rows become visible in the same commit as the
// business data they describe.
type OutboxWriter struct {
	q      Queryer
	logger *zap.Logger
}

// NewOutboxWriter creates a writer bound to a pool or transaction handle.
func NewOutboxWriter(q Queryer, logger *zap.Logger) *OutboxWriter {
	return &OutboxWriter{q: q, logger: logger}
}

type eventPayload struct {
	AggregateID string                 `json:"aggregateId"`
	OccurredAt  string                 `json:"occurredAt"`
	Data        map[string]interface{} `json:"data"`
}

// Publish inserts one outbox row for the event.
func (w *OutboxWriter) Publish(ctx context.Context, event domain.DomainEvent) error {
	payload, err := json.Marshal(eventPayload{
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC().Format(time.RFC3339),
		Data:        event.Data(),
	})
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = w.q.ExecContext(ctx, query,
		uuid.NewString(),
		event.AggregateType(),
		event.AggregateID(),
		event.EventName(),
		payload,
		time.Now().UTC(),
	)
	if err != nil {
		OutboxWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("insert outbox row: %w", err)
	}

	OutboxWritesTotal.WithLabelValues("ok").Inc()
	w.logger.Debug("outbox-row-enqueued",
		zap.String("event-type", event.EventName()),
		zap.String("aggregate-type", event.AggregateType()))

	return nil
}

// PublishAll inserts one row per event, in order. All inserts share the
// writer's handle and therefore the same commit visibility.
func (w *OutboxWriter) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := w.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
