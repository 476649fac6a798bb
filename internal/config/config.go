// Package config loads server settings from the environment. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mmynk/splitshare/internal/extraction"
)

const defaultPort = 3000

// Config holds the server settings.
type Config struct {
	Port int

	// AgentQLAPIKey authenticates calls to the extraction provider.
	AgentQLAPIKey  string
	AgentQLBaseURL string

	// GoogleCredentialsJSON is the service-account key used for Sheets.
	GoogleCredentialsJSON string

	LogLevel string
}

// Load reads the configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	port, err := intEnv("PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}

	return &Config{
		Port:                  port,
		AgentQLAPIKey:         os.Getenv("AGENTQL_API_KEY"),
		AgentQLBaseURL:        getEnv("AGENTQL_API_URL", extraction.DefaultBaseURL),
		GoogleCredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_KEY_JSON"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
