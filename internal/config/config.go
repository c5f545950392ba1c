// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and the example need to start.
type Config struct {
	DatabaseURL string // empty selects the in-memory repository
	ListenAddr  string
	APIURL      string // base URL of the persistence service, used by clients
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads files (default ".env") into the environment without
// overriding variables already set, then builds a Config.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Config{
		DatabaseURL: getenv("DATABASE_URL"),
		ListenAddr:  orDefault(getenv("LISTEN_ADDR"), ":3000"),
		APIURL:      orDefault(getenv("WORKFLOW_API_URL"), "http://localhost:3000"),
		LogLevel:    strings.ToLower(orDefault(getenv("LOG_LEVEL"), "info")),
		LogFormat:   strings.ToLower(orDefault(getenv("LOG_FORMAT"), "json")),
	}

	timeout, err := time.ParseDuration(orDefault(getenv("HTTP_TIMEOUT"), "10s"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, errors.New("config: HTTP_TIMEOUT must be positive")
	}
	cfg.HTTPTimeout = timeout

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("config: invalid LOG_LEVEL: must be 'debug', 'info', 'warn', or 'error'")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("config: invalid LOG_FORMAT: must be 'text' or 'json'")
	}
	return &cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
