// Package config loads application configuration from the environment.
// A .env file in the working directory is picked up when present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// AppEnv is "development" or "production"
	AppEnv string

	// LogLevel: debug, info, warn, error
	LogLevel string

	// HTTPPort the API server listens on
	HTTPPort string

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string

	// DBMaxConns / DBMinConns bound the connection pool
	DBMaxConns int32
	DBMinConns int32

	// JWTSecret signs access tokens
	JWTSecret string

	// AccessTokenTTL is access token lifetime
	AccessTokenTTL time.Duration

	// UploadDir is where request attachments are stored
	UploadDir string

	// MetricsRefreshSchedule is the cron spec for the nightly lead-time
	// metrics recomputation. Empty disables the scheduler.
	MetricsRefreshSchedule string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		HTTPPort:               getEnv("APP_PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBMaxConns:             int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns:             int32(getEnvInt("DB_MIN_CONNS", 5)),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		AccessTokenTTL:         getEnvDuration("ACCESS_TOKEN_TTL", 8*time.Hour),
		UploadDir:              getEnv("UPLOAD_DIR", "./uploads"),
		MetricsRefreshSchedule: getEnv("METRICS_REFRESH_SCHEDULE", "0 2 * * *"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variable DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("required environment variable JWT_SECRET not set")
	}

	return cfg, nil
}

// IsDevelopment reports whether the application runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
