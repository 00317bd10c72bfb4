// Package config loads and validates environment variables at startup.
// Fail-fast: a malformed or missing required variable aborts start-up.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all runtime configuration for the board service.
type Config struct {
	Port     string
	GRPCPort string

	StoreDriver string
	DatabaseURL string

	// RedisURL is optional; sessions stay in process memory without it.
	RedisURL   string
	SessionTTL time.Duration

	// NATSURL is optional; domain events are dropped without it.
	NATSURL         string
	NATSConnTimeout time.Duration

	// ClickHouseDSN is optional; search analytics are dropped without it.
	ClickHouseDSN      string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	OTelCollectorURL string

	PageSize            int
	ExpirySweepInterval time.Duration

	// RateLimitRPS of 0 disables REST rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	LogFormat string
}

// Load reads an optional .env file, then the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	pageSize, err := getEnvInt("PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", pageSize)
	}

	sweepMinutes, err := getEnvInt("EXPIRY_SWEEP_INTERVAL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	if sweepMinutes < 1 {
		return nil, fmt.Errorf("EXPIRY_SWEEP_INTERVAL_MINUTES must be positive, got %d", sweepMinutes)
	}

	sessionTTL, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", sessionTTL)
	}

	natsTimeout, err := getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, err
	}
	if rps < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %g", rps)
	}

	burst, err := getEnvInt("RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, err
	}
	if rps > 0 && burst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", burst)
	}

	cfg := &Config{
		Port:                getEnvString("BOARD_PORT", "8083"),
		GRPCPort:            getEnvString("GRPC_PORT", "9093"),
		StoreDriver:         getEnvString("STORE_DRIVER", StoreMemory),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		SessionTTL:          sessionTTL,
		NATSURL:             os.Getenv("NATS_URL"),
		NATSConnTimeout:     natsTimeout,
		ClickHouseDSN:       os.Getenv("CLICKHOUSE_DSN"),
		ClickHouseDatabase:  getEnvString("CLICKHOUSE_DATABASE", "jobverse"),
		ClickHouseUsername:  getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:  os.Getenv("CLICKHOUSE_PASSWORD"),
		OTelCollectorURL:    os.Getenv("OTEL_COLLECTOR_URL"),
		PageSize:            pageSize,
		ExpirySweepInterval: time.Duration(sweepMinutes) * time.Minute,
		RateLimitRPS:        rps,
		RateLimitBurst:      burst,
		LogFormat:           getEnvString("LOG_FORMAT", "json"),
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
