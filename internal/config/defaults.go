package config

import (
	"time"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ServiceName:   constants.DefaultServiceName,
		Environment:   constants.DefaultEnvironment,
		Server:        DefaultServerConfig(),
		TLS:           DefaultTLSConfig(),
		Security:      DefaultSecurityConfig(),
		Observability: DefaultObservabilityConfig(),
		Readiness:     DefaultReadinessConfig(),
		HotReload:     DefaultHotReloadConfig(),
	}
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           "3000",
		MetricsPort:    "9090",
		ReadTimeout:    constants.ServerReadTimeout,
		WriteTimeout:   constants.ServerWriteTimeout,
		IdleTimeout:    constants.ServerIdleTimeout,
		MaxRequestSize: constants.ServerMaxRequestSize,
	}
}

// DefaultTLSConfig returns default TLS configuration
func DefaultTLSConfig() TLSConfig {
	return TLSConfig{}
}

// DefaultSecurityConfig mirrors the header set and CORS policy of a stock helmet/cors pairing.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		Headers: DefaultSecurityHeadersConfig(),
		CORS:    DefaultCORSConfig(),
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 100,
			BurstSize:         200,
			CleanupInterval:   constants.RateLimitCleanupInterval,
		},
	}
}

// DefaultSecurityHeadersConfig returns the default security header values
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		Enabled: true,
		ContentSecurityPolicy: "default-src 'self';base-uri 'self';font-src 'self' https: data:;" +
			"form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';" +
			"script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';" +
			"upgrade-insecure-requests",
		HSTSMaxAge:     15552000, // 180 days
		FrameOptions:   "SAMEORIGIN",
		ReferrerPolicy: "no-referrer",
	}
}

// DefaultCORSConfig allows every origin
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
	}
}

// DefaultObservabilityConfig returns the default observability configuration
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Logging: DefaultLoggingConfig(),
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    constants.PathMetrics,
		},
		Tracing: TracingConfig{
			Enabled: false,
		},
	}
}

// DefaultLoggingConfig returns default logging configuration
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		Dir:        "logs",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// DefaultReadinessConfig returns default readiness configuration
func DefaultReadinessConfig() ReadinessConfig {
	return ReadinessConfig{
		Timeout: constants.ReadinessTimeout,
	}
}

// DefaultHotReloadConfig returns default hot reload configuration
func DefaultHotReloadConfig() HotReloadConfig {
	return HotReloadConfig{
		Enabled:  false,
		Debounce: 500 * time.Millisecond,
	}
}
