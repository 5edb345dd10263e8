package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/usecase"
)

// HTTPCatalog resolves prices against an external pricing service.
type HTTPCatalog struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPCatalog creates a catalog client for PRICING_BASE_URL.
func NewHTTPCatalog(baseURL string, logger *zap.Logger) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// PriceFor fetches GET <base>/prices/<productId>. A 404 maps to
// ErrPriceNotFound; every other failure is infrastructure.
func (c *HTTPCatalog) PriceFor(ctx context.Context, productID domain.ProductID) (domain.Money, error) {
	endpoint := fmt.Sprintf("%s/prices/%s", c.baseURL, url.PathEscape(productID.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Money{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		PriceLookupsTotal.WithLabelValues("error").Inc()
		return domain.Money{}, fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		PriceLookupsTotal.WithLabelValues("not_found").Inc()
		return domain.Money{}, usecase.ErrPriceNotFound
	}
	if resp.StatusCode != http.StatusOK {
		PriceLookupsTotal.WithLabelValues("error").Inc()
		return domain.Money{}, fmt.Errorf("pricing service returned status %d", resp.StatusCode)
	}

	var body struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Money{}, fmt.Errorf("decode price response: %w", err)
	}

	currency, err := domain.NewCurrency(body.Currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("pricing service returned invalid currency: %w", err)
	}
	price, err := domain.NewMoney(body.Amount, currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("pricing service returned invalid amount: %w", err)
	}

	PriceLookupsTotal.WithLabelValues("ok").Inc()
	c.logger.Debug("price-fetched",
		zap.String("product-id", productID.String()),
		zap.Float64("amount", body.Amount),
		zap.String("currency", currency.Code()))

	return price, nil
}
