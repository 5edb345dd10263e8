package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/pkg/types"
)

// AddItemInput carries the request payload for AddItemToOrder.
type AddItemInput struct {
	OrderID   string
	ProductID string
	Quantity  float64
}

// AddItemToOrder adds a priced line to an existing order.
type AddItemToOrder struct {
	repo    OrderRepository
	sink    EventSink
	catalog PriceCatalog
	logger  *zap.Logger
}

// NewAddItemToOrder wires the use case.
func NewAddItemToOrder(repo OrderRepository, sink EventSink, catalog PriceCatalog, logger *zap.Logger) *AddItemToOrder {
	return &AddItemToOrder{repo: repo, sink: sink, catalog: catalog, logger: logger}
}

// Execute validates input in orderId, productId, quantity order, loads
// the aggregate, prices the product through the catalog, mutates and
// persists. Business rule failures surface as validation errors.
func (uc *AddItemToOrder) Execute(ctx context.Context, input AddItemInput) (*domain.Order, error) {
	orderID, err := domain.NewOrderID(input.OrderID)
	if err != nil {
		return nil, types.Validation(err.Error(), "orderId")
	}

	productID, err := domain.NewProductID(input.ProductID)
	if err != nil {
		return nil, types.Validation(err.Error(), "productId")
	}

	quantity, err := domain.QuantityFromFloat(input.Quantity)
	if err != nil {
		return nil, types.Validation(err.Error(), "quantity")
	}

	order, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, types.NotFound("Order", orderID.String())
		}
		return nil, types.Infra("load order", err)
	}

	unitPrice, err := uc.catalog.PriceFor(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrPriceNotFound) {
			return nil, types.NotFound("Product", productID.String())
		}
		return nil, types.Infra("look up product price", err)
	}

	if err := order.AddItem(productID, quantity, unitPrice); err != nil {
		return nil, types.Validation(err.Error(), "")
	}

	events := order.PullDomainEvents()

	if err := uc.repo.Save(ctx, order, events); err != nil {
		return nil, types.Infra("save order", err)
	}

	if err := uc.sink.PublishAll(ctx, events); err != nil {
		uc.logger.Warn("event-publish-failed",
			zap.String("order-id", orderID.String()),
			zap.Int("event-count", len(events)),
			zap.Error(err))
	}

	uc.logger.Info("order-item-added",
		zap.String("order-id", orderID.String()),
		zap.String("product-id", productID.String()),
		zap.Int("quantity", quantity.Value()),
		zap.Int("line-count", order.ItemCount()))

	return order, nil
}
