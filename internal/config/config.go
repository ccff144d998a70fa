package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/MeKo-Tech/qrdetect/engine"
)

// DefaultNamespace prefixes every exported metric.
const DefaultNamespace = "qrdetect"

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	metricNameRe   = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	opts := engine.DefaultOptions()
	return Config{
		LogLevel: "info",
		Engine: EngineConfig{
			Multi:        opts.Multi,
			TryHarder:    opts.TryHarder,
			AlsoInverted: opts.AlsoInverted,
			CharacterSet: opts.CharacterSet,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: DefaultNamespace,
		},
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if err := ValidateCharacterSet(c.Engine.CharacterSet); err != nil {
		return err
	}
	if c.Metrics.Enabled && !metricNameRe.MatchString(c.Metrics.Namespace) {
		return fmt.Errorf("invalid metrics namespace: %q", c.Metrics.Namespace)
	}
	return nil
}

// ValidateCharacterSet accepts an empty name or any IANA-registered
// character set name or alias.
func ValidateCharacterSet(name string) error {
	if name == "" {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return fmt.Errorf("invalid character set: %s", name)
	}
	return nil
}

// EngineOptions converts the engine section to engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Multi:        c.Engine.Multi,
		TryHarder:    c.Engine.TryHarder,
		AlsoInverted: c.Engine.AlsoInverted,
		CharacterSet: c.Engine.CharacterSet,
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
