// Package config loads service settings from environment variables, plus an
// optional TOML profile for quality thresholds.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/couchcryptid/quake-catalogue-etl/internal/quality"
	"github.com/couchcryptid/quake-catalogue-etl/internal/schema"
	"github.com/couchcryptid/quake-catalogue-etl/internal/validation"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Spool directories watched for catalogue uploads.
	InboxDir     string
	OutboxDir    string
	PollInterval time.Duration

	// Ingestion tunables.
	MinConfidence   float64
	MinQualityScore float64
	Thresholds      validation.QualityThresholds
}

// Load reads configuration from environment variables, applying defaults
// where unset. When THRESHOLDS_FILE points at a TOML profile, its values
// replace the built-in event quality thresholds.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parseDuration("POLL_INTERVAL", "2s")
	if err != nil {
		return nil, err
	}

	minConfidence, err := parseFloat("MIN_CONFIDENCE", schema.DefaultMinConfidence)
	if err != nil {
		return nil, err
	}

	minScore, err := parseFloat("MIN_QUALITY_SCORE", quality.DefaultMinScore)
	if err != nil {
		return nil, err
	}

	thresholds := validation.DefaultQualityThresholds()
	if path := os.Getenv("THRESHOLDS_FILE"); path != "" {
		thresholds, err = loadThresholds(path)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		InboxDir:     envOrDefault("INBOX_DIR", "data/inbox"),
		OutboxDir:    envOrDefault("OUTBOX_DIR", "data/outbox"),
		PollInterval: pollInterval,

		MinConfidence:   minConfidence,
		MinQualityScore: minScore,
		Thresholds:      thresholds,
	}

	if cfg.InboxDir == "" {
		return nil, errors.New("INBOX_DIR is required")
	}
	if cfg.OutboxDir == "" {
		return nil, errors.New("OUTBOX_DIR is required")
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, errors.New("MIN_CONFIDENCE must be between 0 and 1")
	}
	if cfg.MinQualityScore < 0 || cfg.MinQualityScore > 100 {
		return nil, errors.New("MIN_QUALITY_SCORE must be between 0 and 100")
	}

	return cfg, nil
}

// loadThresholds reads an event quality threshold profile from a TOML file.
func loadThresholds(path string) (validation.QualityThresholds, error) {
	t := validation.DefaultQualityThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading THRESHOLDS_FILE: %w", err)
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parsing THRESHOLDS_FILE: %w", err)
	}
	return t, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}
