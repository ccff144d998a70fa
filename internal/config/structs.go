package config

// Config represents the complete configuration for a qrdetect Detector.
// It can be loaded from configuration files and environment variables.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// Decoder engine settings
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" json:"engine"`

	// Prometheus instrumentation
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// EngineConfig contains settings for the default gozxing engine.
type EngineConfig struct {
	Multi        bool   `mapstructure:"multi" yaml:"multi" json:"multi"`
	TryHarder    bool   `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	AlsoInverted bool   `mapstructure:"also_inverted" yaml:"also_inverted" json:"also_inverted"`
	CharacterSet string `mapstructure:"character_set" yaml:"character_set" json:"character_set"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
}
