package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// Config represents the unified configuration structure
type Config struct {
	ServiceName   string              `json:"service_name" yaml:"service_name" env:"SERVICE_NAME"`
	Environment   string              `json:"environment" yaml:"environment" env:"APP_ENV"`
	Server        ServerConfig        `json:"server" yaml:"server"`
	TLS           TLSConfig           `json:"tls" yaml:"tls"`
	Security      SecurityConfig      `json:"security" yaml:"security"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
	Readiness     ReadinessConfig     `json:"readiness" yaml:"readiness"`
	HotReload     HotReloadConfig     `json:"hot_reload" yaml:"hot_reload"`

	// ConfigFile and EnvFile record where the configuration came from.
	ConfigFile string `json:"-" yaml:"-"`
	EnvFile    string `json:"-" yaml:"-" env:"ENV_FILE"`

	cliFlags *CLIFlags
}

// Flags returns the CLI flags the configuration was loaded with, so a reload
// keeps their precedence over the file.
func (c *Config) Flags() *CLIFlags {
	return c.cliFlags
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ServiceName) == "" {
		errs = append(errs, errors.New("service_name cannot be empty"))
	}
	if strings.TrimSpace(c.Environment) == "" {
		errs = append(errs, errors.New("environment cannot be empty"))
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if c.Observability.Metrics.Enabled && c.Server.Port == c.Server.MetricsPort {
		errs = append(errs, errors.New("server.port and server.metrics_port cannot be the same"))
	}
	if err := c.TLS.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tls: %w", err))
	}
	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("security: %w", err))
	}
	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("observability: %w", err))
	}
	if err := c.Readiness.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("readiness: %w", err))
	}
	if err := c.HotReload.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("hot_reload: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IsProduction reports whether stack traces must be withheld from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), constants.EnvironmentProd)
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetMetricsAddress returns the full metrics server address
func (c *Config) GetMetricsAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.MetricsPort)
}
