package middleware

import (
	"net/http"
	"strconv"

	"github.com/leslieo2/lanc-compliance/internal/config"
)

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders(cfg config.SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		headers := map[string]string{
			"Cross-Origin-Opener-Policy":        "same-origin",
			"Cross-Origin-Resource-Policy":      "same-origin",
			"Origin-Agent-Cluster":              "?1",
			"X-Content-Type-Options":            "nosniff",
			"X-DNS-Prefetch-Control":            "off",
			"X-Download-Options":                "noopen",
			"X-Permitted-Cross-Domain-Policies": "none",
			"X-XSS-Protection":                  "0",
		}
		if cfg.ContentSecurityPolicy != "" {
			headers["Content-Security-Policy"] = cfg.ContentSecurityPolicy
		}
		if cfg.FrameOptions != "" {
			headers["X-Frame-Options"] = cfg.FrameOptions
		}
		if cfg.ReferrerPolicy != "" {
			headers["Referrer-Policy"] = cfg.ReferrerPolicy
		}
		if cfg.HSTSMaxAge > 0 {
			headers["Strict-Transport-Security"] = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge) + "; includeSubDomains"
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for name, value := range headers {
				w.Header().Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
