// Package config provides configuration loading for the resume tailoring
// service: server settings from the environment, plus JWT and password
// hashing configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration read from the environment.
type Config struct {
	Port               int
	DatabaseURL        string
	GeminiAPIKey       string
	FreeLimit          int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
}

// Load reads service configuration from environment variables.
// DATABASE_URL and GEMINI_API_KEY are required; everything else has a
// default.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required but not set")
	}

	cfg := &Config{
		Port:               getEnvInt("PORT", 8080),
		DatabaseURL:        databaseURL,
		GeminiAPIKey:       apiKey,
		FreeLimit:          getEnvInt("FREE_GENERATION_LIMIT", 2),
		CacheTTL:           getEnvDuration("GENERATION_CACHE_TTL", time.Hour),
		CacheSweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.FreeLimit < 0 {
		return fmt.Errorf("FREE_GENERATION_LIMIT must be non-negative: %d", c.FreeLimit)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("GENERATION_CACHE_TTL must be positive: %s", c.CacheTTL)
	}
	return nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
