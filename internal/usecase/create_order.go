package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/pkg/types"
)

// CreateOrderInput carries the request payload for CreateOrder.
type CreateOrderInput struct {
	OrderID string
}

// CreateOrder creates a fresh order aggregate.
type CreateOrder struct {
	repo   OrderRepository
	sink   EventSink
	clock  domain.Clock
	logger *zap.Logger
}

// NewCreateOrder wires the use case.
func NewCreateOrder(repo OrderRepository, sink EventSink, clock domain.Clock, logger *zap.Logger) *CreateOrder {
	return &CreateOrder{repo: repo, sink: sink, clock: clock, logger: logger}
}

// Execute validates the optional id, checks uniqueness, persists the
// aggregate and its OrderCreated event, then echoes the event to the
// sink. An empty id triggers generation; a whitespace-only id is a
// validation failure.
func (uc *CreateOrder) Execute(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	var id domain.OrderID
	if input.OrderID != "" {
		parsed, err := domain.NewOrderID(input.OrderID)
		if err != nil {
			return nil, types.Validation(err.Error(), "orderId")
		}
		id = parsed
	} else {
		id = domain.GenerateOrderID()
	}

	exists, err := uc.repo.Exists(ctx, id)
	if err != nil {
		return nil, types.Infra("check order existence", err)
	}
	if exists {
		return nil, types.Conflict(
			fmt.Sprintf("order %s already exists", id),
			types.ReasonDuplicateOrderID,
		)
	}

	order := domain.NewOrder(id, uc.clock)
	events := order.PullDomainEvents()

	if err := uc.repo.Save(ctx, order, events); err != nil {
		return nil, types.Infra("save order", err)
	}

	uc.publishBestEffort(ctx, events)

	uc.logger.Info("order-created",
		zap.String("order-id", id.String()),
		zap.Bool("id-generated", input.OrderID == ""))

	return order, nil
}

// publishBestEffort hands events to the sink. The write is already
// durable, so sink failures are logged and swallowed.
func (uc *CreateOrder) publishBestEffort(ctx context.Context, events []domain.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := uc.sink.PublishAll(ctx, events); err != nil {
		uc.logger.Warn("event-publish-failed",
			zap.Int("event-count", len(events)),
			zap.Error(err))
	}
}
