package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Row is one claimed outbox entry handed to the sink.
type Row struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// Sink delivers claimed rows to the outside world. Delivery is
// at-least-once, so sinks must be idempotent on Row.ID.
type Sink interface {
	Publish(ctx context.Context, row Row) error
}

// Stats summarizes the outbox table.
type Stats struct {
	PendingEvents   int
	PublishedEvents int
	OldestPending   *time.Time
}

// Config holds dispatcher configuration.
type Config struct {
	DB           *sql.DB
	Sink         Sink
	BatchSize    int
	PollInterval time.Duration
	Workers      int
	Logger       *zap.Logger
}

// Dispatcher drains pending outbox rows in ordered batches. Workers
// cooperate through row-level locks, not in-process state: each claim
// uses FOR UPDATE SKIP LOCKED so no two workers ever see the same row,
// and N dispatchers may run across N processes.
type Dispatcher struct {
	db           *sql.DB
	sink         Sink
	batchSize    int
	pollInterval time.Duration
	workers      int
	logger       *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Zero-value knobs fall back to
// the documented defaults.
func NewDispatcher(cfg *Config) *Dispatcher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Dispatcher{
		db:           cfg.DB,
		sink:         cfg.Sink,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		workers:      workers,
		logger:       cfg.Logger,
	}
}

// Start launches the polling workers. Calling Start on a running
// dispatcher logs a warning and does nothing.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.logger.Warn("dispatcher-already-running")
		return
	}
	d.running = true

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.logger.Info("dispatcher-starting",
		zap.Int("workers", d.workers),
		zap.Int("batch-size", d.batchSize),
		zap.Duration("poll-interval", d.pollInterval))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(runCtx, i)
	}
}

// Stop cancels the workers and waits for them to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	cancel := d.cancel
	d.mu.Unlock()

	cancel()
	d.wg.Wait()
	d.logger.Info("dispatcher-stopped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()

	logger := d.logger.With(zap.Int("worker", id))
	logger.Debug("dispatcher-worker-started")

	for {
		if ctx.Err() != nil {
			logger.Debug("dispatcher-worker-stopped")
			return
		}

		published, err := d.processBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("dispatcher-worker-stopped")
				return
			}
			logger.Error("dispatch-batch-failed", zap.Error(err))
		}

		// A full claim suggests more rows are waiting; re-poll
		// immediately instead of sleeping.
		if published > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			logger.Debug("dispatcher-worker-stopped")
			return
		case <-time.After(d.pollInterval):
		}
	}
}

// processBatch claims one batch under row locks, publishes it in
// created_at order and stamps the rows published, all in a single
// transaction. The first sink failure aborts the claim: the
// transaction rolls back and the whole batch is retried later.
func (d *Dispatcher) processBatch(ctx context.Context) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("claim batch: %w", err)
	}

	var batch []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.AggregateType, &row.AggregateID, &row.EventType, &row.Payload, &row.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()

	if len(batch) == 0 {
		return 0, tx.Commit()
	}

	ids := make([]string, 0, len(batch))
	for _, row := range batch {
		if err := d.sink.Publish(ctx, row); err != nil {
			DispatchedEventsTotal.WithLabelValues("error").Inc()
			return 0, fmt.Errorf("publish event %s: %w", row.ID, err)
		}
		DispatchedEventsTotal.WithLabelValues("ok").Inc()
		ids = append(ids, row.ID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE outbox SET published_at = now() WHERE id = ANY($1)`,
		pq.Array(ids),
	); err != nil {
		return 0, fmt.Errorf("stamp published rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}

	DispatchBatchesTotal.Inc()
	d.logger.Debug("outbox-batch-dispatched", zap.Int("count", len(batch)))

	return len(batch), nil
}

// ProcessOnce drains the outbox until a claim comes back empty and
// returns the cumulative number of rows published.
func (d *Dispatcher) ProcessOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		published, err := d.processBatch(ctx)
		if err != nil {
			return total, err
		}
		if published == 0 {
			return total, nil
		}
		total += published
	}
}

// Stats reports pending and published counts plus the age marker of
// the oldest undelivered row.
func (d *Dispatcher) Stats(ctx context.Context) (Stats, error) {
	var (
		stats  Stats
		oldest sql.NullTime
	)

	err := d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE published_at IS NULL),
			COUNT(*) FILTER (WHERE published_at IS NOT NULL),
			MIN(created_at) FILTER (WHERE published_at IS NULL)
		FROM outbox
	`).Scan(&stats.PendingEvents, &stats.PublishedEvents, &oldest)
	if err != nil {
		return Stats{}, fmt.Errorf("query outbox stats: %w", err)
	}

	if oldest.Valid {
		t := oldest.Time
		stats.OldestPending = &t
	}

	return stats, nil
}

// CleanupPublished deletes delivered rows older than the retention
// window. Unpublished rows are never touched.
func (d *Dispatcher) CleanupPublished(ctx context.Context, olderThanDays int) (int64, error) {
	result, err := d.db.ExecContext(ctx, `
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < now() - ($1 * interval '1 day')
	`, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("cleanup published rows: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected rows: %w", err)
	}

	CleanupDeletedTotal.Add(float64(deleted))
	d.logger.Info("outbox-cleanup-completed",
		zap.Int64("deleted", deleted),
		zap.Int("older-than-days", olderThanDays))

	return deleted, nil
}
