package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leslieo2/lanc-compliance/internal/observability"
)

const unmatchedRoute = "unmatched"

// Metrics records request count, latency and sizes labelled by route pattern,
// so that path parameters and unknown paths do not explode label cardinality.
func Metrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.InFlight.Inc()
			defer m.InFlight.Dec()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requestSize := r.ContentLength
			if requestSize < 0 {
				requestSize = 0
			}
			m.RecordRequest(r.Method, route, status, time.Since(start), requestSize, int64(ww.BytesWritten()))
		})
	}
}
