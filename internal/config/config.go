// Package config loads process-wide configuration from the environment.
// The resulting Config is constructed once at startup and passed explicitly
// to the components that need it; nothing reads configuration ambiently.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string
	Env  string

	// JWT session tokens
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data
	MarketDataDir string

	// Reporting timezone for the portfolio clock.
	Location *time.Location
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		JWTSecret:     getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		MarketDataDir: getEnv("MARKET_DATA_DIR", "data"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "30m")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN value %q: %w", expStr, err)
	}
	cfg.JWTExpirationDur = expDur

	tzName := getEnv("MARKET_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_TIMEZONE value %q: %w", tzName, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
