package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/sink"
	"github.com/orderly-io/orderly/internal/storage"
	"github.com/orderly-io/orderly/internal/usecase"
	"github.com/orderly-io/orderly/pkg/types"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

var testInstant = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type createFixture struct {
	repo *storage.MemoryRepository
	sink *sink.Noop
	uc   *usecase.CreateOrder
}

func newCreateFixture(t *testing.T) *createFixture {
	t.Helper()
	logger := zap.NewNop()
	repo := storage.NewMemoryRepository(logger, fixedClock{at: testInstant})
	noop := sink.NewNoop(&sink.NoopConfig{Logger: logger}).WithoutDelay()

	return &createFixture{
		repo: repo,
		sink: noop,
		uc:   usecase.NewCreateOrder(repo, noop, fixedClock{at: testInstant}, logger),
	}
}

func TestCreateOrder_GeneratesID(t *testing.T) {
	f := newCreateFixture(t)

	order, err := f.uc.Execute(context.Background(), usecase.CreateOrderInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(order.ID().String(), "ORD-") {
		t.Errorf("generated id must start with ORD-, got %q", order.ID())
	}
	if order.ItemCount() != 0 {
		t.Errorf("fresh order must be empty, got %d items", order.ItemCount())
	}

	// The OrderCreated event reached both the repository and the sink.
	saved := f.repo.SavedEvents()
	if len(saved) != 1 || saved[0].EventName() != "OrderCreated" {
		t.Errorf("expected one saved OrderCreated event, got %v", saved)
	}
	if f.sink.Count() != 1 {
		t.Errorf("expected 1 sinked event, got %d", f.sink.Count())
	}
}

func TestCreateOrder_EmptyStringGenerates(t *testing.T) {
	f := newCreateFixture(t)

	order, err := f.uc.Execute(context.Background(), usecase.CreateOrderInput{OrderID: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(order.ID().String(), "ORD-") {
		t.Errorf("empty id must trigger generation, got %q", order.ID())
	}
}

func TestCreateOrder_WhitespaceOnlyIDFailsValidation(t *testing.T) {
	f := newCreateFixture(t)

	_, err := f.uc.Execute(context.Background(), usecase.CreateOrderInput{OrderID: "   "})
	if err == nil {
		t.Fatal("expected validation error for whitespace-only id")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Kind != types.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Field != "orderId" {
		t.Errorf("expected field orderId, got %q", appErr.Field)
	}
	if f.repo.Len() != 0 {
		t.Error("no order may be persisted on validation failure")
	}
}

func TestCreateOrder_ExplicitID(t *testing.T) {
	f := newCreateFixture(t)

	order, err := f.uc.Execute(context.Background(), usecase.CreateOrderInput{OrderID: "ORD-EXPLICIT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID().String() != "ORD-EXPLICIT" {
		t.Errorf("expected ORD-EXPLICIT, got %q", order.ID())
	}
}

func TestCreateOrder_DuplicateIDConflicts(t *testing.T) {
	f := newCreateFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, usecase.CreateOrderInput{OrderID: "ORD-DUP"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.uc.Execute(ctx, usecase.CreateOrderInput{OrderID: "ORD-DUP"})
	if err == nil {
		t.Fatal("expected conflict error")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Kind != types.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appErr.Reason != types.ReasonDuplicateOrderID {
		t.Errorf("expected reason %q, got %q", types.ReasonDuplicateOrderID, appErr.Reason)
	}
	if f.repo.Len() != 1 {
		t.Errorf("expected a single stored order, got %d", f.repo.Len())
	}
}

func TestCreateOrder_StorageFailureIsInfra(t *testing.T) {
	f := newCreateFixture(t)
	f.repo.FailLoad = fmt.Errorf("connection refused")

	_, err := f.uc.Execute(context.Background(), usecase.CreateOrderInput{OrderID: "ORD-1"})
	if err == nil {
		t.Fatal("expected infrastructure error")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Kind != types.KindInfra {
		t.Fatalf("expected infra error, got %v", err)
	}
}

func TestCreateOrder_SaveFailureIsInfra(t *testing.T) {
	f := newCreateFixture(t)
	f.repo.FailSave = fmt.Errorf("deadlock detected")

	_, err := f.uc.Execute(context.Background(), usecase.CreateOrderInput{OrderID: "ORD-1"})
	if err == nil {
		t.Fatal("expected infrastructure error")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Kind != types.KindInfra {
		t.Fatalf("expected infra error, got %v", err)
	}
	if f.sink.Count() != 0 {
		t.Error("nothing may reach the sink when save fails")
	}
}

// failingSink always rejects publishes.
type failingSink struct{}

func (failingSink) Publish(ctx context.Context, event domain.DomainEvent) error {
	return fmt.Errorf("broker unavailable")
}

func (f failingSink) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	return fmt.Errorf("broker unavailable")
}

func TestCreateOrder_SinkFailureStillSucceeds(t *testing.T) {
	logger := zap.NewNop()
	repo := storage.NewMemoryRepository(logger, fixedClock{at: testInstant})
	uc := usecase.NewCreateOrder(repo, failingSink{}, fixedClock{at: testInstant}, logger)

	order, err := uc.Execute(context.Background(), usecase.CreateOrderInput{OrderID: "ORD-SINKLESS"})
	if err != nil {
		t.Fatalf("sink failure must not fail the use case: %v", err)
	}
	if order == nil || repo.Len() != 1 {
		t.Error("order must be persisted despite sink failure")
	}
}
