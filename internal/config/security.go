package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	Headers   SecurityHeadersConfig `json:"headers" yaml:"headers"`
	CORS      CORSConfig            `json:"cors" yaml:"cors"`
	RateLimit RateLimitConfig       `json:"rate_limit" yaml:"rate_limit"`
}

// SecurityHeadersConfig defines the response security headers
type SecurityHeadersConfig struct {
	Enabled               bool   `json:"enabled" yaml:"enabled" env:"SECURITY_HEADERS_ENABLED"`
	ContentSecurityPolicy string `json:"content_security_policy" yaml:"content_security_policy"`
	HSTSMaxAge            int    `json:"hsts_max_age" yaml:"hsts_max_age"`
	FrameOptions          string `json:"frame_options" yaml:"frame_options"`
	ReferrerPolicy        string `json:"referrer_policy" yaml:"referrer_policy"`
}

// CORSConfig contains CORS configuration
type CORSConfig struct {
	Enabled          bool     `json:"enabled" yaml:"enabled" env:"CORS_ENABLED"`
	AllowedOrigins   []string `json:"allowed_origins" yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowedMethods   []string `json:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers" yaml:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `json:"max_age" yaml:"max_age"`
}

// RateLimitConfig contains per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `json:"enabled" yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond int           `json:"requests_per_second" yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	BurstSize         int           `json:"burst_size" yaml:"burst_size" env:"RATE_LIMIT_BURST"`
	CleanupInterval   time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
	// TrustedProxies lists addresses or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers identify the client. Other peers are keyed by address.
	TrustedProxies []string `json:"trusted_proxies" yaml:"trusted_proxies" env:"RATE_LIMIT_TRUSTED_PROXIES" envSeparator:","`
}

// TrustedNetworks parses TrustedProxies. A bare address becomes a single-host prefix.
func (c RateLimitConfig) TrustedNetworks() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Validate validates the security configuration
func (s *SecurityConfig) Validate() error {
	var errs []error

	if s.Headers.Enabled && s.Headers.HSTSMaxAge < 0 {
		errs = append(errs, errors.New("headers.hsts_max_age must be non-negative"))
	}

	if s.CORS.Enabled {
		if len(s.CORS.AllowedOrigins) == 0 {
			errs = append(errs, errors.New("cors.allowed_origins cannot be empty when CORS is enabled"))
		}
		if len(s.CORS.AllowedMethods) == 0 {
			errs = append(errs, errors.New("cors.allowed_methods cannot be empty when CORS is enabled"))
		}
		if s.CORS.MaxAge < 0 {
			errs = append(errs, errors.New("cors.max_age must be non-negative"))
		}
	}

	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.BurstSize <= 0 {
			errs = append(errs, errors.New("rate_limit.burst_size must be positive"))
		}
		if _, err := s.RateLimit.TrustedNetworks(); err != nil {
			errs = append(errs, fmt.Errorf("rate_limit.trusted_proxies: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
