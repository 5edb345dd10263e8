package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/domain"
	"github.com/orderly-io/orderly/internal/outbox"
	"github.com/orderly-io/orderly/internal/pricing"
	"github.com/orderly-io/orderly/internal/sink"
	"github.com/orderly-io/orderly/internal/storage"
	"github.com/orderly-io/orderly/internal/usecase"
	"github.com/orderly-io/orderly/pkg/cache"
	"github.com/orderly-io/orderly/pkg/config"
	"github.com/orderly-io/orderly/pkg/healthprobe"
	"github.com/orderly-io/orderly/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	priceCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	repo, db, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	catalog := setupCatalog(cfg, logger, priceCache)

	dispatcher, kafkaSink := setupDispatcher(cfg, logger, db)

	httpServer := setupHTTPServer(cfg, logger, healthChecker, repo, catalog)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		repo:          repo,
		db:            db,
		dispatcher:    dispatcher,
		kafkaSink:     kafkaSink,
		priceCache:    priceCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

// setupStorage returns the repository and, in the persistent
// configuration, the shared connection pool.
func setupStorage(cfg *config.Config, logger *zap.Logger) (usecase.OrderRepository, *sql.DB, error) {
	if cfg.UseInMemory {
		logger.Info("storage-mode", zap.String("mode", "inmemory"))
		return storage.NewMemoryRepository(logger, domain.SystemClock), nil, nil
	}

	repo, err := storage.NewPostgresRepository(&storage.PostgresConfig{
		DatabaseURL: cfg.DatabaseURL,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := storage.Migrate(repo.DB(), logger); err != nil {
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}

	logger.Info("storage-mode", zap.String("mode", "postgres"))
	return repo, repo.DB(), nil
}

func setupCatalog(cfg *config.Config, logger *zap.Logger, priceCache cache.Cache) usecase.PriceCatalog {
	var catalog usecase.PriceCatalog
	if cfg.PricingBaseURL != "" {
		catalog = pricing.NewHTTPCatalog(cfg.PricingBaseURL, logger)
	} else {
		catalog = pricing.NewStaticCatalog(logger)
	}

	return pricing.NewCachedCatalog(catalog, priceCache, cfg.PricingCacheTTL, logger)
}

// setupDispatcher builds the outbox dispatcher when the persistent
// configuration asks for one. The Kafka sink is used when brokers are
// configured; otherwise rows are drained to the log.
func setupDispatcher(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*outbox.Dispatcher, *sink.KafkaSink) {
	if db == nil || !cfg.OutboxEnabled {
		logger.Info("dispatcher-disabled",
			zap.Bool("inmemory", cfg.UseInMemory),
			zap.Bool("outbox-enabled", cfg.OutboxEnabled))
		return nil, nil
	}

	var (
		rowSink   outbox.Sink
		kafkaSink *sink.KafkaSink
	)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink = sink.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		rowSink = kafkaSink
	} else {
		rowSink = sink.NewLogSink(logger)
	}

	dispatcher := outbox.NewDispatcher(&outbox.Config{
		DB:           db,
		Sink:         rowSink,
		BatchSize:    cfg.OutboxBatchSize,
		PollInterval: cfg.OutboxPollInterval,
		Workers:      cfg.OutboxWorkers,
		Logger:       logger,
	})

	return dispatcher, kafkaSink
}

// setupEventSink picks the use-case echo sink. In the persistent
// configuration durable delivery belongs to the outbox rows written by
// the repository, so the echo target must not retain events; the
// recording noop sink stays an in-memory dev tool.
func setupEventSink(cfg *config.Config, logger *zap.Logger) usecase.EventSink {
	if cfg.UseInMemory {
		return sink.NewNoop(&sink.NoopConfig{Logger: logger})
	}
	return sink.NewDiscard(logger)
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	repo usecase.OrderRepository,
	catalog usecase.PriceCatalog,
) *httpserver.Server {
	events := setupEventSink(cfg, logger)

	handler := httpserver.NewOrderHandler(
		usecase.NewCreateOrder(repo, events, domain.SystemClock, logger),
		usecase.NewAddItemToOrder(repo, events, catalog, logger),
		logger,
	)

	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		OrderHandler:  handler,
	})
}
