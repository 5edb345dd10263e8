package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	PriceCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderly_price_cache_hits_total",
		Help: "Total number of price lookups served from cache",
	})

	PriceCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderly_price_cache_misses_total",
		Help: "Total number of price lookups that missed the cache",
	})

	PriceLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderly_price_lookups_total",
		Help: "Total number of catalog lookups by outcome",
	}, []string{"outcome"})
)
