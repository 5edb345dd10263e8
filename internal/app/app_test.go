package app

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/sink"
	"github.com/orderly-io/orderly/pkg/config"
)

func inMemoryConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		LogLevel:           "info",
		HTTPPort:           "0",
		UseInMemory:        true,
		OutboxEnabled:      true,
		OutboxBatchSize:    10,
		OutboxPollInterval: 5 * time.Second,
		OutboxWorkers:      1,
		KafkaTopic:         "order.events",
		PricingCacheTTL:    5 * time.Minute,
	}
}

func TestNew_InMemoryWiring(t *testing.T) {
	application, err := New(inMemoryConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if application.repo == nil {
		t.Error("expected repository to be wired")
	}
	if application.db != nil {
		t.Error("expected no database pool in in-memory mode")
	}
	// No outbox table exists without a database, so no dispatcher
	// regardless of OUTBOX_ENABLED.
	if application.dispatcher != nil {
		t.Error("expected no dispatcher in in-memory mode")
	}
	if application.kafkaSink != nil {
		t.Error("expected no kafka sink without brokers")
	}

	if err := application.Shutdown(); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}

func TestSetupEventSink_ByMode(t *testing.T) {
	logger := zap.NewNop()

	inMemory := inMemoryConfig()
	if _, ok := setupEventSink(inMemory, logger).(*sink.Noop); !ok {
		t.Error("expected the recording noop sink in in-memory mode")
	}

	persistent := inMemoryConfig()
	persistent.UseInMemory = false
	persistent.DatabaseURL = "postgres://localhost:5432/orderly"
	// Outbox rows carry durable delivery; the echo sink must not
	// retain events for the lifetime of the process.
	if _, ok := setupEventSink(persistent, logger).(*sink.Discard); !ok {
		t.Error("expected the discard sink in the persistent configuration")
	}
}
