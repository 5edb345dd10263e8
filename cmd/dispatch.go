package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/outbox"
	"github.com/orderly-io/orderly/internal/sink"
	"github.com/orderly-io/orderly/internal/storage"
	"github.com/orderly-io/orderly/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run outbox dispatcher workers without the HTTP API",
	Long: `Runs only the outbox dispatcher against the configured database.
Useful for scaling event delivery independently of the API, or for
draining a backlog with --once.`,
	RunE: runDispatch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(dispatchCmd)
	dispatchCmd.Flags().Bool("once", false, "Drain the outbox once and exit instead of polling")
}

// dispatcherFromEnv builds a dispatcher plus a cleanup func releasing
// its resources. Shared by the dispatch, outbox-stats and
// outbox-cleanup commands.
func dispatcherFromEnv() (*outbox.Dispatcher, *zap.Logger, func(), error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.UseInMemory {
		return nil, nil, nil, fmt.Errorf("outbox commands need a database; unset USE_INMEMORY")
	}

	logger, err := config.NewLogger()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create logger: %w", err)
	}

	repo, err := storage.NewPostgresRepository(&storage.PostgresConfig{
		DatabaseURL: cfg.DatabaseURL,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
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
		DB:           repo.DB(),
		Sink:         rowSink,
		BatchSize:    cfg.OutboxBatchSize,
		PollInterval: cfg.OutboxPollInterval,
		Workers:      cfg.OutboxWorkers,
		Logger:       logger,
	})

	cleanup := func() {
		if kafkaSink != nil {
			_ = kafkaSink.Close()
		}
		_ = repo.Close()
		_ = logger.Sync()
	}

	return dispatcher, logger, cleanup, nil
}

func runDispatch(cmd *cobra.Command, args []string) error {
	dispatcher, logger, cleanup, err := dispatcherFromEnv()
	if err != nil {
		return err
	}
	defer cleanup()

	once, _ := cmd.Flags().GetBool("once")
	if once {
		published, err := dispatcher.ProcessOnce(context.Background())
		if err != nil {
			return fmt.Errorf("drain outbox: %w", err)
		}
		logger.Info("outbox-drained", zap.Int("published", published))
		return nil
	}

	dispatcher.Start(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))

	dispatcher.Stop()
	return nil
}
