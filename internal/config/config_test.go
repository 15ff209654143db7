package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "test-lanc-compliance", cfg.ServiceName)
	assert.Equal(t, int64(10*1024*1024), cfg.Server.MaxRequestSize)
	assert.Equal(t, []string{"*"}, cfg.Security.CORS.AllowedOrigins)
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"Production", true},
		{" production ", true},
		{"development", false},
		{"prod", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Environment = tt.env
			assert.Equal(t, tt.want, cfg.IsProduction())
		})
	}
}

func TestConfig_Addresses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	assert.Equal(t, "127.0.0.1:3000", cfg.GetServerAddress())
	assert.Equal(t, "127.0.0.1:9090", cfg.GetMetricsAddress())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty service name", func(c *Config) { c.ServiceName = " " }},
		{"empty environment", func(c *Config) { c.Environment = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = "0" }},
		{"non numeric metrics port", func(c *Config) { c.Server.MetricsPort = "abc" }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero request size", func(c *Config) { c.Server.MaxRequestSize = 0 }},
		{"port collision with metrics", func(c *Config) {
			c.Observability.Metrics.Enabled = true
			c.Server.MetricsPort = c.Server.Port
		}},
		{"bad log level", func(c *Config) { c.Observability.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Observability.Logging.Format = "xml" }},
		{"bad log output", func(c *Config) { c.Observability.Logging.Output = "file" }},
		{"metrics path without slash", func(c *Config) {
			c.Observability.Metrics.Enabled = true
			c.Observability.Metrics.Path = "metrics"
		}},
		{"cors without origins", func(c *Config) { c.Security.CORS.AllowedOrigins = nil }},
		{"cors without methods", func(c *Config) { c.Security.CORS.AllowedMethods = nil }},
		{"rate limit without rps", func(c *Config) {
			c.Security.RateLimit.Enabled = true
			c.Security.RateLimit.RequestsPerSecond = 0
		}},
		{"bad trusted proxy", func(c *Config) {
			c.Security.RateLimit.Enabled = true
			c.Security.RateLimit.TrustedProxies = []string{"10.0.0.0/99"}
		}},
		{"zero readiness timeout", func(c *Config) { c.Readiness.Timeout = 0 }},
		{"negative hot reload debounce", func(c *Config) { c.HotReload.Debounce = -1 }},
		{"tls without cert", func(c *Config) { c.TLS.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_ValidateDisabledSectionsIgnoreEmptyValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Security.CORS = CORSConfig{Enabled: false}
	cfg.Security.RateLimit = RateLimitConfig{Enabled: false}
	cfg.Observability.Metrics = MetricsConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}

func TestTLSConfigValidate_SucceedsWithFiles(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, []byte("cert"), 0o600))
	require.NoError(t, os.WriteFile(keyPath, []byte("key"), 0o600))

	cfg := TLSConfig{Enabled: true, CertFile: certPath, KeyFile: keyPath}
	assert.NoError(t, cfg.Validate())

	cfg.KeyFile = filepath.Join(dir, "missing.pem")
	assert.Error(t, cfg.Validate())
}

func TestRateLimitConfig_TrustedNetworks(t *testing.T) {
	cfg := RateLimitConfig{TrustedProxies: []string{"10.1.2.3/8", " 192.0.2.7 ", "", "::1"}}

	prefixes, err := cfg.TrustedNetworks()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.0.2.7/32", prefixes[1].String())
	assert.Equal(t, "::1/128", prefixes[2].String())

	_, err = RateLimitConfig{TrustedProxies: []string{"proxy.internal"}}.TrustedNetworks()
	assert.Error(t, err)
}
