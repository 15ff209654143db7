package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables the loader reads so ambient CI settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "HOST", "APP_ENV", "NODE_ENV", "ENV_FILE", "SERVICE_NAME", "METRICS_PORT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_DIR", "METRICS_ENABLED", "RATE_LIMIT_ENABLED",
		"READINESS_DATABASE_DSN", "READINESS_REDIS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseFlags(t *testing.T, args ...string) *CLIFlags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return flags
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		fileContent string
		configFile  string
		envVars     map[string]string
		args        []string
		wantPort    string
		wantEnv     string
		wantErr     bool
	}{
		{
			name:     "Default Config Only",
			wantPort: "3000",
			wantEnv:  "development",
		},
		{
			name:        "Load from YAML file",
			fileName:    "config.yaml",
			fileContent: "server: {port: \"8081\"}\nenvironment: staging\n",
			wantPort:    "8081",
			wantEnv:     "staging",
		},
		{
			name:        "Load from JSON file",
			fileName:    "config.json",
			fileContent: `{"server": {"port": "8082"}}`,
			wantPort:    "8082",
			wantEnv:     "development",
		},
		{
			name:       "File not found",
			configFile: "nonexistent.yaml",
			wantErr:    true,
		},
		{
			name:        "Unsupported extension",
			fileName:    "config.txt",
			fileContent: `server: {port: "8083"}`,
			wantErr:     true,
		},
		{
			name:        "Malformed YAML",
			fileName:    "config.yaml",
			fileContent: `server: {port: "8081"`,
			wantErr:     true,
		},
		{
			name:     "Load from Environment Variables",
			envVars:  map[string]string{"PORT": "8083", "APP_ENV": "production"},
			wantPort: "8083",
			wantEnv:  "production",
		},
		{
			name:     "NODE_ENV fallback",
			envVars:  map[string]string{"NODE_ENV": "production"},
			wantPort: "3000",
			wantEnv:  "production",
		},
		{
			name:     "APP_ENV wins over NODE_ENV",
			envVars:  map[string]string{"NODE_ENV": "production", "APP_ENV": "staging"},
			wantPort: "3000",
			wantEnv:  "staging",
		},
		{
			name:     "Override with CLI Flags",
			args:     []string{"--port", "8084", "--env", "qa"},
			wantPort: "8084",
			wantEnv:  "qa",
		},
		{
			name:        "Precedence: CLI > Env > File > Default",
			fileName:    "config.yaml",
			fileContent: `server: {port: "8085"}`,
			envVars:     map[string]string{"PORT": "8086"},
			args:        []string{"--port", "8087"},
			wantPort:    "8087",
			wantEnv:     "development",
		},
		{
			name:     "Unchanged flag defaults do not override env",
			envVars:  map[string]string{"PORT": "8088"},
			args:     []string{},
			wantPort: "8088",
			wantEnv:  "development",
		},
		{
			name:    "Validation Error from CLI",
			args:    []string{"--port", "invalid-port"},
			wantErr: true,
		},
		{
			name:        "Validation Error from File",
			fileName:    "config.yaml",
			fileContent: `server: {port: "70000"}`,
			wantErr:     true,
		},
		{
			name:    "Validation Error from Env",
			envVars: map[string]string{"PORT": "invalid-port"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			configFile := tt.configFile
			if tt.fileContent != "" {
				configFile = writeFile(t, tt.fileName, tt.fileContent)
			}

			var flags *CLIFlags
			if tt.args != nil {
				flags = parseFlags(t, tt.args...)
			}

			cfg, err := LoadConfig(configFile, flags)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantEnv, cfg.Environment)
			if configFile != "" {
				assert.True(t, filepath.IsAbs(cfg.ConfigFile))
			}
		})
	}
}

func TestLoadConfig_RemembersFlags(t *testing.T) {
	flags := parseFlags(t, "--log-level", "debug")
	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Same(t, flags, cfg.Flags())

	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Flags())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, "service.env", "PORT=4100\nSERVICE_NAME=from-dotenv\nLOG_LEVEL=debug\n")
	t.Setenv("ENV_FILE", envFile)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "4100", cfg.Server.Port)
	assert.Equal(t, "from-dotenv", cfg.ServiceName)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, envFile, cfg.EnvFile)
}

func TestLoadConfig_ProcessEnvBeatsEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, "service.env", "PORT=4100\n")
	t.Setenv("PORT", "4200")

	cfg, err := LoadConfig("", parseFlags(t, "--env-file", envFile))
	require.NoError(t, err)
	assert.Equal(t, "4200", cfg.Server.Port)
}

func TestLoadConfig_MissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig("", parseFlags(t, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	require.Error(t, err)
}

func TestLoadConfig_NestedSections(t *testing.T) {
	clearEnv(t)
	configFile := writeFile(t, "config.yaml", `
service_name: lanc-test
server:
  max_request_size: 1024
  read_timeout: 5s
observability:
  logging:
    level: warn
    dir: ""
  metrics:
    enabled: true
security:
  cors:
    allowed_origins: ["https://a.example"]
readiness:
  timeout: 750ms
  redis_addr: localhost:6379
`)
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := LoadConfig(configFile, nil)
	require.NoError(t, err)

	assert.Equal(t, "lanc-test", cfg.ServiceName)
	assert.Equal(t, int64(1024), cfg.Server.MaxRequestSize)
	assert.Equal(t, "5s", cfg.Server.ReadTimeout.String())
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Empty(t, cfg.Observability.Logging.Dir)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, []string{"https://a.example"}, cfg.Security.CORS.AllowedOrigins)
	assert.Equal(t, "750ms", cfg.Readiness.Timeout.String())
	assert.Equal(t, "localhost:6379", cfg.Readiness.RedisAddr)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	// untouched sections keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.True(t, cfg.Security.Headers.Enabled)
}
