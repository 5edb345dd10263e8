package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// recordingSink captures published rows and can fail on a chosen id.
type recordingSink struct {
	mu     sync.Mutex
	rows   []Row
	failOn string
}

func (s *recordingSink) Publish(_ context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && row.ID == s.failOn {
		return errors.New("sink unavailable")
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *recordingSink) published() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}

func newTestDispatcher(t *testing.T, sink Sink) (*Dispatcher, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	d := NewDispatcher(&Config{
		DB:           db,
		Sink:         sink,
		BatchSize:    5,
		PollInterval: time.Hour,
		Workers:      1,
		Logger:       zap.NewNop(),
	})
	return d, mock
}

func claimColumns() []string {
	return []string{"id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at"}
}

func TestDispatcher_ProcessBatch_FIFO(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(claimColumns()).
			AddRow("id-1", "Order", "order.created", "OrderCreated", []byte(`{}`), base).
			AddRow("id-2", "OrderItem", "order.item_added", "OrderItemAdded", []byte(`{}`), base.Add(time.Second)).
			AddRow("id-3", "OrderItem", "order.item_added", "OrderItemAdded", []byte(`{}`), base.Add(2*time.Second)))
	mock.ExpectExec("UPDATE outbox SET published_at").
		WithArgs(pq.Array([]string{"id-1", "id-2", "id-3"})).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	published, err := d.processBatch(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if published != 3 {
		t.Errorf("expected 3 published, got %d", published)
	}

	rows := sink.published()
	if len(rows) != 3 {
		t.Fatalf("expected 3 sink calls, got %d", len(rows))
	}
	for i, want := range []string{"id-1", "id-2", "id-3"} {
		if rows[i].ID != want {
			t.Errorf("expected row %d to be %s, got %s", i, want, rows[i].ID)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDispatcher_ProcessBatch_Empty(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(claimColumns()))
	mock.ExpectCommit()

	published, err := d.processBatch(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if published != 0 {
		t.Errorf("expected 0 published, got %d", published)
	}
	if len(sink.published()) != 0 {
		t.Error("expected no sink calls")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDispatcher_ProcessBatch_SinkFailureRollsBack(t *testing.T) {
	sink := &recordingSink{failOn: "id-2"}
	d, mock := newTestDispatcher(t, sink)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(claimColumns()).
			AddRow("id-1", "Order", "order.created", "OrderCreated", []byte(`{}`), base).
			AddRow("id-2", "OrderItem", "order.item_added", "OrderItemAdded", []byte(`{}`), base.Add(time.Second)))
	// No UPDATE: the claim aborts on the first sink failure so every
	// row, including the already-published one, is retried later.
	mock.ExpectRollback()

	published, err := d.processBatch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if published != 0 {
		t.Errorf("expected 0 published, got %d", published)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDispatcher_ProcessOnce_DrainsUntilEmpty(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(claimColumns()).
			AddRow("id-1", "Order", "order.created", "OrderCreated", []byte(`{}`), base).
			AddRow("id-2", "Order", "order.created", "OrderCreated", []byte(`{}`), base.Add(time.Second)))
	mock.ExpectExec("UPDATE outbox SET published_at").
		WithArgs(pq.Array([]string{"id-1", "id-2"})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(claimColumns()))
	mock.ExpectCommit()

	total, err := d.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 published, got %d", total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDispatcher_Stats(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	oldest := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"pending", "published", "oldest"}).
			AddRow(4, 12, oldest))

	stats, err := d.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.PendingEvents != 4 {
		t.Errorf("expected 4 pending, got %d", stats.PendingEvents)
	}
	if stats.PublishedEvents != 12 {
		t.Errorf("expected 12 published, got %d", stats.PublishedEvents)
	}
	if stats.OldestPending == nil || !stats.OldestPending.Equal(oldest) {
		t.Errorf("expected oldest pending %v, got %v", oldest, stats.OldestPending)
	}
}

func TestDispatcher_Stats_NoPending(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"pending", "published", "oldest"}).
			AddRow(0, 20, nil))

	stats, err := d.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.PendingEvents != 0 {
		t.Errorf("expected 0 pending, got %d", stats.PendingEvents)
	}
	if stats.OldestPending != nil {
		t.Errorf("expected no oldest pending, got %v", stats.OldestPending)
	}
}

func TestDispatcher_CleanupPublished(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	mock.ExpectExec("DELETE FROM outbox").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := d.CleanupPublished(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 4 {
		t.Errorf("expected 4 deleted, got %d", deleted)
	}
}

func TestDispatcher_StartIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	d, mock := newTestDispatcher(t, sink)

	// The single worker polls once immediately, then sleeps for the
	// long test interval until Stop.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(claimColumns()))
	mock.ExpectCommit()

	d.Start(context.Background())
	d.Start(context.Background()) // no second set of workers

	time.Sleep(100 * time.Millisecond)
	d.Stop()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
