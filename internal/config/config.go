package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kevin07696/payment-gateway/pkg/resilience"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Worker   WorkerConfig
	Test     TestConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int
	MetricsPort int
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// RedisConfig holds the queue backend endpoint.
type RedisConfig struct {
	URL string
}

// WorkerConfig holds worker-process tuning.
type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
	// SweepInterval is how often the reconciliation sweeper scans for
	// stuck pending payments and overdue webhook logs.
	SweepInterval time.Duration
}

// TestConfig carries the deterministic-mode switches used by end-to-end
// runs.
type TestConfig struct {
	TestMode             bool
	ProcessingDelay      time.Duration
	ForcePaymentSuccess  bool
	WebhookTestIntervals bool
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level       string
	Development bool
}

// LoadFromEnv loads configuration from environment variables. A .env file
// in the working directory is applied first when present.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("PORT", 8080),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Worker: WorkerConfig{
			Concurrency:   getEnvAsInt("WORKER_CONCURRENCY", 4),
			PollInterval:  getEnvAsDuration("WORKER_POLL_INTERVAL_MS", 200*time.Millisecond),
			SweepInterval: getEnvAsDuration("SWEEP_INTERVAL_MS", time.Minute),
		},
		Test: TestConfig{
			TestMode:             getEnvAsBool("TEST_MODE", false),
			ProcessingDelay:      getEnvAsDuration("TEST_PROCESSING_DELAY", time.Second),
			ForcePaymentSuccess:  getEnvAsBool("TEST_PAYMENT_SUCCESS", true),
			WebhookTestIntervals: getEnvAsBool("WEBHOOK_RETRY_INTERVALS_TEST", false),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// WebhookSchedule selects the retry backoff table for webhook delivery.
func (c *Config) WebhookSchedule() resilience.WebhookSchedule {
	if c.Test.WebhookTestIntervals {
		return resilience.TestWebhookSchedule
	}
	return resilience.ProductionWebhookSchedule
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads a millisecond count.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	ms, err := strconv.Atoi(valueStr)
	if err != nil || ms < 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
