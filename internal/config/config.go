// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for the CLI, the SDK and the dev server.
type Config struct {
	// Environment: "development", "production" or "test".
	Env string

	// API client
	APIBaseURL     string
	RequestTimeout time.Duration

	// Local storage
	StoragePath string

	// Dev server
	Port             string
	DevDBPath        string
	JWTSecret        string
	JWTExpirationDur time.Duration
}

// Load reads configuration from environment variables, falling back to
// development defaults where a value is not set.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Env:         getEnv("AUTRACK_ENV", "development"),
		APIBaseURL:  getEnv("AUTRACK_API_URL", "http://localhost:8080/api/v1"),
		StoragePath: getEnv("AUTRACK_STORAGE_PATH", "autrack.db"),
		Port:        getEnv("PORT", "8080"),
		DevDBPath:   getEnv("AUTRACK_DEV_DB", "autrack-dev.db"),
		JWTSecret:   getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	timeout, err := parseDuration(getEnv("AUTRACK_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTRACK_REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	expDur, err := parseDuration(getEnv("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value, falling back to 24h\n")
		expDur = 24 * time.Hour
	}
	cfg.JWTExpirationDur = expDur

	return cfg, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %v", d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
