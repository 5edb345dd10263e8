package pricing

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/usecase"
)

type catalogEntry struct {
	amount   float64
	currency string
}

// Built-in catalog used when no PRICING_BASE_URL is configured.
var staticPrices = map[string]catalogEntry{
	"LAPTOP-001":   {amount: 1299.99, currency: "USD"},
	"MOUSE-001":    {amount: 24.99, currency: "USD"},
	"KEYBOARD-001": {amount: 79.99, currency: "USD"},
	"MONITOR-001":  {amount: 449.00, currency: "USD"},
	"HEADSET-001":  {amount: 149.50, currency: "USD"},
	"MONITOR-EU":   {amount: 349.99, currency: "EUR"},
	"DOCK-EU":      {amount: 189.00, currency: "EUR"},
	"COFFEE-JP":    {amount: 1200, currency: "JPY"},
}

// StaticCatalog serves prices from an in-process table.
type StaticCatalog struct {
	prices map[string]domain.Money
	logger *zap.Logger
}

// NewStaticCatalog builds the catalog from the built-in table.
func NewStaticCatalog(logger *zap.Logger) *StaticCatalog {
	prices := make(map[string]domain.Money, len(staticPrices))
	for sku, entry := range staticPrices {
		currency, err := domain.NewCurrency(entry.currency)
		if err != nil {
			continue
		}
		money, err := domain.NewMoney(entry.amount, currency)
		if err != nil {
			continue
		}
		prices[sku] = money
	}

	logger.Info("static-catalog-initialized", zap.Int("product-count", len(prices)))

	return &StaticCatalog{prices: prices, logger: logger}
}

// PriceFor looks up the unit price of a product.
func (c *StaticCatalog) PriceFor(ctx context.Context, productID domain.ProductID) (domain.Money, error) {
	price, ok := c.prices[productID.String()]
	if !ok {
		return domain.Money{}, usecase.ErrPriceNotFound
	}

	return price, nil
}
