package qrdetect

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MeKo-Tech/qrdetect/internal/config"
)

// Config is the file and environment configuration for a Detector.
type Config = config.Config

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// LoadConfig reads qrdetect.yaml from path, or from the standard search
// paths when path is empty, and applies QRDETECT_ environment overrides.
func LoadConfig(path string) (*Config, error) {
	return config.NewLoader().LoadWithFile(path)
}

// NewFromConfig builds a Detector on the default engine. Logs go to stderr
// as JSON at the configured level; metrics, when enabled, are registered on
// prometheus.DefaultRegisterer.
func NewFromConfig(cfg *Config) (*Detector, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	b := NewBuilder().
		WithEngineOptions(cfg.EngineOptions()).
		WithLogger(slog.New(handler))
	if cfg.Metrics.Enabled {
		b = b.WithMetrics(prometheus.DefaultRegisterer).WithMetricsNamespace(cfg.Metrics.Namespace)
	}
	return b.Build()
}
