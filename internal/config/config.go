package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database (read-only contract and payment snapshots)
	DatabaseURL string

	// JWT verification of upstream session tokens
	JWTSecret string

	// Background Workers
	WorkerCount         int
	DelinquencyScanCron string

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string

	// Redis schedule cache. An empty address selects the in-process cache.
	RedisAddr        string
	ScheduleCacheTTL time.Duration

	// OpenTelemetry collector endpoint (host:port). Empty disables export.
	OTelEndpoint string

	// BusinessTimezone decides which calendar day "today" is when computing delays.
	BusinessTimezone *time.Location
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		WorkerCount:         getEnvAsInt("WORKER_COUNT", 5),
		DelinquencyScanCron: getEnv("DELINQUENCY_SCAN_CRON", "0 6 * * *"),
		AllowedOrigins:      getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		ScheduleCacheTTL:    time.Duration(getEnvAsInt("SCHEDULE_CACHE_TTL_MINUTES", 10)) * time.Minute,
		OTelEndpoint:        getEnv("OTEL_ENDPOINT", ""),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if _, err := cron.ParseStandard(cfg.DelinquencyScanCron); err != nil {
		return nil, fmt.Errorf("invalid DELINQUENCY_SCAN_CRON %q: %w", cfg.DelinquencyScanCron, err)
	}

	tz := getEnv("BUSINESS_TIMEZONE", "America/Tegucigalpa")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", tz, err)
	}
	cfg.BusinessTimezone = loc

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
