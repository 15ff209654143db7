package config

import (
	"errors"
	"fmt"
	"strings"
)

// ObservabilityConfig contains observability-related configuration
type ObservabilityConfig struct {
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
// An empty Dir disables the combined/error log files.
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level" env:"LOG_LEVEL"`
	Format      string `json:"format" yaml:"format" env:"LOG_FORMAT"`
	Output      string `json:"output" yaml:"output" env:"LOG_OUTPUT"`
	Dir         string `json:"dir" yaml:"dir" env:"LOG_DIR"`
	MaxSizeMB   int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups  int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays  int    `json:"max_age_days" yaml:"max_age_days"`
	Development bool   `json:"development" yaml:"development"`
}

// MetricsConfig contains Prometheus exporter configuration
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `json:"path" yaml:"path" env:"METRICS_PATH"`
}

// TracingConfig contains OpenTelemetry configuration
type TracingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" env:"TRACING_ENABLED"`
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"json": true, "console": true}
	validOutputs = map[string]bool{"stdout": true, "stderr": true}
)

// Validate validates the observability configuration
func (o *ObservabilityConfig) Validate() error {
	var errs []error
	if err := o.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if o.Metrics.Enabled && !strings.HasPrefix(o.Metrics.Path, "/") {
		errs = append(errs, errors.New("metrics.path must start with /"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate validates the logging configuration
func (l *LoggingConfig) Validate() error {
	if !validLevels[strings.ToLower(l.Level)] {
		return fmt.Errorf("invalid level: %s, must be one of: debug, info, warn, error", l.Level)
	}
	if !validFormats[strings.ToLower(l.Format)] {
		return fmt.Errorf("invalid format: %s, must be one of: json, console", l.Format)
	}
	if !validOutputs[strings.ToLower(l.Output)] {
		return fmt.Errorf("invalid output: %s, must be one of: stdout, stderr", l.Output)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("log rotation limits must be non-negative")
	}
	return nil
}
