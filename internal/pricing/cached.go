package pricing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/usecase"
	"github.com/orderly-io/orderly/pkg/cache"
)

// CachedCatalog wraps a PriceCatalog with caching.
type CachedCatalog struct {
	catalog usecase.PriceCatalog
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCachedCatalog creates a new cached price catalog.
func NewCachedCatalog(catalog usecase.PriceCatalog, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{
		catalog: catalog,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
}

// cachedPrice holds a cached catalog lookup.
type cachedPrice struct {
	Price     domain.Money
	FetchedAt time.Time
}

// PriceFor resolves a unit price, consulting the cache first.
// Lookup failures are never cached so a transient catalog error
// does not poison subsequent calls.
func (c *CachedCatalog) PriceFor(ctx context.Context, productID domain.ProductID) (domain.Money, error) {
	cacheKey := fmt.Sprintf("price:%s", productID.String())

	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if entry, ok := cached.(*cachedPrice); ok {
				PriceCacheHitsTotal.Inc()
				return entry.Price, nil
			}
		}
		PriceCacheMissesTotal.Inc()
	}

	price, err := c.catalog.PriceFor(ctx, productID)
	if err != nil {
		return domain.Money{}, err
	}

	if c.cache != nil {
		entry := &cachedPrice{
			Price:     price,
			FetchedAt: time.Now(),
		}
		c.cache.Set(cacheKey, entry, c.ttl)
		c.logger.Debug("price-cached",
			zap.String("product-id", productID.String()),
			zap.Duration("ttl", c.ttl))
	}

	return price, nil
}

// Invalidate drops a product's cached price, forcing the next lookup
// to hit the underlying catalog.
func (c *CachedCatalog) Invalidate(productID domain.ProductID) {
	if c.cache == nil {
		return
	}
	c.cache.Delete(fmt.Sprintf("price:%s", productID.String()))
}
