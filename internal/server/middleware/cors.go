package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// CORS applies the cross-origin policy. OPTIONS requests are answered here
// with 204 and never reach the router.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		wildcard := false
		for _, o := range cfg.AllowedOrigins {
			if o == "*" {
				wildcard = true
				break
			}
		}
		methods := strings.Join(cfg.AllowedMethods, ",")
		headers := strings.Join(cfg.AllowedHeaders, ",")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(constants.HeaderOrigin)

			switch {
			case wildcard && !cfg.AllowCredentials:
				w.Header().Set(constants.HeaderAccessControlAllowOrigin, "*")
			case originAllowed(cfg.AllowedOrigins, origin, wildcard):
				w.Header().Set(constants.HeaderAccessControlAllowOrigin, origin)
				w.Header().Add(constants.HeaderVary, constants.HeaderOrigin)
			}
			if cfg.AllowCredentials {
				w.Header().Set(constants.HeaderAccessControlAllowCredentials, "true")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if methods != "" {
				w.Header().Set(constants.HeaderAccessControlAllowMethods, methods)
			}
			if headers != "" {
				w.Header().Set(constants.HeaderAccessControlAllowHeaders, headers)
			} else if requested := r.Header.Get(constants.HeaderAccessControlRequestHeaders); requested != "" {
				w.Header().Set(constants.HeaderAccessControlAllowHeaders, requested)
				w.Header().Add(constants.HeaderVary, constants.HeaderAccessControlRequestHeaders)
			}
			if cfg.MaxAge > 0 {
				w.Header().Set(constants.HeaderAccessControlMaxAge, strconv.Itoa(cfg.MaxAge))
			}
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowed []string, origin string, wildcard bool) bool {
	if origin == "" {
		return false
	}
	if wildcard {
		return true
	}
	for _, o := range allowed {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
