package usecase

import (
	"context"
	"errors"

	"github.com/orderly-io/orderly/internal/domain"
)

// ErrOrderNotFound is returned by repositories when the addressed order
// does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrPriceNotFound is returned by price catalogs for unknown products.
var ErrPriceNotFound = errors.New("price not found")

// OrderRepository persists aggregates together with the events drained
// from them. Implementations must write state and events atomically.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order, events []domain.DomainEvent) error
	FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	Exists(ctx context.Context, id domain.OrderID) (bool, error)
}

// EventSink receives drained events after the write committed. Sink
// failures are never surfaced to callers of a use case.
type EventSink interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
	PublishAll(ctx context.Context, events []domain.DomainEvent) error
}

// PriceCatalog resolves the unit price of a product.
type PriceCatalog interface {
	PriceFor(ctx context.Context, productID domain.ProductID) (domain.Money, error)
}
