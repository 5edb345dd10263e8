package app

import (
	"context"
	"database/sql"
	"sync"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/outbox"
	"github.com/orderly-io/orderly/internal/sink"
	"github.com/orderly-io/orderly/internal/usecase"
	"github.com/orderly-io/orderly/pkg/cache"
	"github.com/orderly-io/orderly/pkg/config"
	"github.com/orderly-io/orderly/pkg/healthprobe"
	"github.com/orderly-io/orderly/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	repo          usecase.OrderRepository
	db            *sql.DB // nil in in-memory mode
	dispatcher    *outbox.Dispatcher
	kafkaSink     *sink.KafkaSink // nil when the log sink is used
	priceCache    cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
