package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/usecase"
)

// memoryOrder is the stored snapshot of an aggregate.
type memoryOrder struct {
	id        domain.OrderID
	createdAt time.Time
	items     []domain.OrderItem
}

// MemoryRepository is a deterministic in-memory OrderRepository used in
// USE_INMEMORY mode and by use-case tests. Saved events are retained
// for inspection.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]memoryOrder
	events []domain.DomainEvent
	logger *zap.Logger
	clock  domain.Clock

	// FailSave, when set, is returned by the next Save calls.
	FailSave error
	// FailLoad, when set, is returned by FindById and Exists.
	FailLoad error
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository(logger *zap.Logger, clock domain.Clock) *MemoryRepository {
	if clock == nil {
		clock = domain.SystemClock
	}

	return &MemoryRepository{
		orders: make(map[string]memoryOrder),
		logger: logger,
		clock:  clock,
	}
}

// Save stores a snapshot of the aggregate and appends its events.
func (r *MemoryRepository) Save(ctx context.Context, order *domain.Order, events []domain.DomainEvent) error {
	if r.FailSave != nil {
		return r.FailSave
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID().String()] = memoryOrder{
		id:        order.ID(),
		createdAt: order.CreatedAt(),
		items:     order.Items(),
	}
	r.events = append(r.events, events...)

	r.logger.Debug("memory-order-saved",
		zap.String("order-id", order.ID().String()),
		zap.Int("item-count", order.ItemCount()),
		zap.Int("event-count", len(events)))

	return nil
}

// FindByID rebuilds a stored aggregate without events.
func (r *MemoryRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	if r.FailLoad != nil {
		return nil, r.FailLoad
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.orders[id.String()]
	if !ok {
		return nil, usecase.ErrOrderNotFound
	}

	return domain.ReconstituteOrder(stored.id, stored.createdAt, stored.items, r.clock), nil
}

// Exists reports presence by primary key.
func (r *MemoryRepository) Exists(ctx context.Context, id domain.OrderID) (bool, error) {
	if r.FailLoad != nil {
		return false, r.FailLoad
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.orders[id.String()]
	return ok, nil
}

// SavedEvents returns every event appended through Save, in order.
func (r *MemoryRepository) SavedEvents() []domain.DomainEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.DomainEvent(nil), r.events...)
}

// Len returns the number of stored orders.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.orders)
}
