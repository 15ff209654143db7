package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// LoadConfig loads configuration with precedence:
// 1. Explicit CLI flags (highest priority)
// 2. Process environment variables
// 3. Variables from the env file (.env by default)
// 4. Configuration file values
// 5. Default configuration values (lowest priority)
func LoadConfig(configFile string, cliFlags *CLIFlags) (*Config, error) {
	config := DefaultConfig()

	if configFile != "" {
		absPath, err := loadFromFile(configFile, config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		config.ConfigFile = absPath
	}

	envFile, explicit := resolveEnvFile(cliFlags)
	environ, err := readEnvironment(envFile, explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	if err := loadFromEnv(config, environ); err != nil {
		return nil, err
	}

	if cliFlags != nil {
		overrideWithCLI(config, cliFlags)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.cliFlags = cliFlags

	return config, nil
}

// CLIFlags holds pointers to flag values registered on a FlagSet.
// Only flags the user actually set override other sources.
type CLIFlags struct {
	flags *pflag.FlagSet

	Host           *string
	Port           *string
	MetricsPort    *string
	Environment    *string
	EnvFile        *string
	MaxRequestSize *int64
	LogLevel       *string
	LogFormat      *string
	LogDir         *string
	MetricsEnabled *bool
	TracingEnabled *bool
	HotReload      *bool
	ReadTimeout    *time.Duration
	WriteTimeout   *time.Duration
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) *CLIFlags {
	return &CLIFlags{
		flags:          fs,
		Host:           fs.String("host", "0.0.0.0", "Host to bind the HTTP server to"),
		Port:           fs.StringP("port", "p", "3000", "Port to run the service on"),
		MetricsPort:    fs.String("metrics-port", "9090", "Port to run the metrics server on"),
		Environment:    fs.StringP("env", "e", constants.DefaultEnvironment, "Environment name (production hides stack traces)"),
		EnvFile:        fs.String("env-file", constants.DefaultEnvFile, "Path to a dotenv file"),
		MaxRequestSize: fs.Int64("max-request-size", constants.ServerMaxRequestSize, "Maximum request body size in bytes"),
		LogLevel:       fs.String("log-level", "info", "Log level: debug, info, warn, error"),
		LogFormat:      fs.String("log-format", "console", "Console log format: console, json"),
		LogDir:         fs.String("log-dir", "logs", "Directory for combined.log and error.log (empty disables files)"),
		MetricsEnabled: fs.Bool("metrics", false, "Enable the Prometheus metrics server"),
		TracingEnabled: fs.Bool("tracing", false, "Enable OpenTelemetry tracing to stdout"),
		HotReload:      fs.Bool("hot-reload", false, "Reload the config file log level on change"),
		ReadTimeout:    fs.Duration("read-timeout", constants.ServerReadTimeout, "HTTP server read timeout"),
		WriteTimeout:   fs.Duration("write-timeout", constants.ServerWriteTimeout, "HTTP server write timeout"),
	}
}

func (f *CLIFlags) changed(name string) bool {
	return f != nil && f.flags != nil && f.flags.Changed(name)
}

// loadFromFile decodes a YAML or JSON file over the existing values in config
func loadFromFile(filePath string, config *Config) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", filePath, err)
	}
	absPath = filepath.Clean(absPath)

	data, err := os.ReadFile(absPath) // #nosec G304 - operator supplied path
	if err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", absPath, err)
	}

	ext := filepath.Ext(absPath)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		return "", fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return "", fmt.Errorf("failed to parse config file %s: %w", absPath, err)
	}

	return absPath, nil
}

// resolveEnvFile picks the env file path and whether it was asked for explicitly
func resolveEnvFile(flags *CLIFlags) (string, bool) {
	if flags.changed("env-file") {
		return *flags.EnvFile, true
	}
	if val := os.Getenv(constants.EnvFile); val != "" {
		return val, true
	}
	return constants.DefaultEnvFile, false
}

// readEnvironment merges the env file with the process environment; process values win.
func readEnvironment(envFile string, explicit bool) (map[string]string, error) {
	environ := make(map[string]string)

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			for k, v := range fileVars {
				environ[k] = v
			}
			environ[constants.EnvFile] = envFile
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}

	return environ, nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(config, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	// NODE_ENV is honoured for compatibility when APP_ENV is absent.
	if environ[constants.EnvAppEnv] == "" && environ[constants.EnvNodeEnv] != "" {
		config.Environment = environ[constants.EnvNodeEnv]
	}
	return nil
}

// overrideWithCLI overrides configuration with CLI flag values
func overrideWithCLI(config *Config, flags *CLIFlags) {
	if flags.changed("host") {
		config.Server.Host = *flags.Host
	}
	if flags.changed("port") {
		config.Server.Port = *flags.Port
	}
	if flags.changed("metrics-port") {
		config.Server.MetricsPort = *flags.MetricsPort
	}
	if flags.changed("env") {
		config.Environment = *flags.Environment
	}
	if flags.changed("env-file") {
		config.EnvFile = *flags.EnvFile
	}
	if flags.changed("max-request-size") {
		config.Server.MaxRequestSize = *flags.MaxRequestSize
	}
	if flags.changed("read-timeout") {
		config.Server.ReadTimeout = *flags.ReadTimeout
	}
	if flags.changed("write-timeout") {
		config.Server.WriteTimeout = *flags.WriteTimeout
	}

	if flags.changed("log-level") {
		config.Observability.Logging.Level = *flags.LogLevel
	}
	if flags.changed("log-format") {
		config.Observability.Logging.Format = *flags.LogFormat
	}
	if flags.changed("log-dir") {
		config.Observability.Logging.Dir = *flags.LogDir
	}
	if flags.changed("metrics") {
		config.Observability.Metrics.Enabled = *flags.MetricsEnabled
	}
	if flags.changed("tracing") {
		config.Observability.Tracing.Enabled = *flags.TracingEnabled
	}

	if flags.changed("hot-reload") {
		config.HotReload.Enabled = *flags.HotReload
	}
}
