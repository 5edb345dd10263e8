package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	HTTPPort string

	// Storage
	DatabaseURL string
	UseInMemory bool

	// Outbox dispatcher
	OutboxEnabled      bool
	OutboxBatchSize    int
	OutboxPollInterval time.Duration
	OutboxWorkers      int

	// Kafka delivery
	KafkaBrokers []string
	KafkaTopic   string

	// Pricing catalog
	PricingBaseURL  string
	PricingCacheTTL time.Duration

	// Env vars whose values failed to parse during load. Validate
	// reports them so a typo aborts start instead of silently running
	// on defaults.
	invalidEnv []string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	var invalid []string
	cfg := &Config{
		// Application defaults
		AppEnv:   getEnvOrDefault("APP_ENV", "development"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("PORT", "3000"),

		// Storage defaults
		DatabaseURL: os.Getenv("DATABASE_URL"),
		UseInMemory: getBoolOrDefault("USE_INMEMORY", false, &invalid),

		// Outbox defaults
		OutboxEnabled:      getBoolOrDefault("OUTBOX_ENABLED", true, &invalid),
		OutboxBatchSize:    getIntOrDefault("OUTBOX_BATCH_SIZE", 10, &invalid),
		OutboxPollInterval: time.Duration(getIntOrDefault("OUTBOX_POLL_INTERVAL_MS", 5000, &invalid)) * time.Millisecond,
		OutboxWorkers:      getIntOrDefault("OUTBOX_WORKERS", 1, &invalid),

		// Kafka defaults; empty brokers means the log sink is used
		KafkaBrokers: getSliceOrDefault("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnvOrDefault("KAFKA_TOPIC", "order.events"),

		// Pricing defaults; empty base URL means the static catalog
		PricingBaseURL:  os.Getenv("PRICING_BASE_URL"),
		PricingCacheTTL: getDurationOrDefault("PRICING_CACHE_TTL", 5*time.Minute, &invalid),
	}
	cfg.invalidEnv = invalid

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values and reports every offending
// variable in a single error.
func (c *Config) Validate() error {
	offending := append([]string(nil), c.invalidEnv...)

	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port < 1 || port > 65535 {
		offending = append(offending, "PORT")
	}
	if !c.UseInMemory && c.DatabaseURL == "" {
		offending = append(offending, "DATABASE_URL")
	}
	if c.OutboxBatchSize <= 0 {
		offending = append(offending, "OUTBOX_BATCH_SIZE")
	}
	if c.OutboxPollInterval <= 0 {
		offending = append(offending, "OUTBOX_POLL_INTERVAL_MS")
	}
	if c.OutboxWorkers <= 0 {
		offending = append(offending, "OUTBOX_WORKERS")
	}
	if c.PricingCacheTTL <= 0 {
		offending = append(offending, "PRICING_CACHE_TTL")
	}

	if len(offending) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(offending, ", "))
	}

	return nil
}

// IsProduction reports whether the service runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int, invalid *[]string) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		*invalid = append(*invalid, key)
		return defaultValue
	}

	return intVal
}

func getBoolOrDefault(key string, defaultValue bool, invalid *[]string) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		*invalid = append(*invalid, key)
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration, invalid *[]string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		*invalid = append(*invalid, key)
		return defaultValue
	}

	return duration
}

func getSliceOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
