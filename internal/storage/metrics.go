package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	OrdersSavedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderly_orders_saved_total",
		Help: "Total number of order save transactions by outcome",
	}, []string{"outcome"})

	OrderLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderly_order_loads_total",
		Help: "Total number of order loads by outcome",
	}, []string{"outcome"})

	OutboxWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderly_outbox_writes_total",
		Help: "Total number of outbox row inserts by outcome",
	}, []string{"outcome"})

	SaveDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderly_order_save_duration_seconds",
		Help:    "Duration of order save transactions",
		Buckets: prometheus.DefBuckets,
	})
)
