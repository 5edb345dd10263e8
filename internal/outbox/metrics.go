package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	DispatchedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderly_outbox_dispatched_total",
		Help: "Total number of outbox rows handed to the sink by outcome",
	}, []string{"outcome"})

	DispatchBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderly_outbox_batches_total",
		Help: "Total number of committed dispatch batches",
	})

	CleanupDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderly_outbox_cleanup_deleted_total",
		Help: "Total number of published rows removed by compaction",
	})
)
