package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leslieo2/lanc-compliance/internal/constants"
	"github.com/leslieo2/lanc-compliance/internal/server/middleware"
)

// handlerFunc is a route handler whose error goes to the central error handler.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleError(w, r, err)
		}
	}
}

// newRouter builds the router with the full pipeline, in order: panic
// recovery, security headers, CORS, JSON body, URL-encoded body, request
// logging, then the optional rate limiter and metrics. Unmatched paths and
// methods fall through to the 404 handler.
func (s *Server) newRouter() chi.Router {
	maxSize := s.config.Server.MaxRequestSize

	r := chi.NewRouter()
	r.Use(
		middleware.Recover(s.handleError, s.logger.Logger),
		middleware.SecurityHeaders(s.config.Security.Headers),
		middleware.CORS(s.config.Security.CORS),
		middleware.JSONBody(maxSize, s.handleError),
		middleware.URLEncodedBody(maxSize, s.handleError),
		middleware.RequestLogger(s.logger.Logger),
	)
	if s.rateLimiter != nil {
		r.Use(s.rateLimiter.Middleware(s.handleError))
	}
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	// HEAD is answered by the GET handlers
	r.Use(chimw.GetHead)

	r.NotFound(s.handle(s.notFoundHandler))
	r.MethodNotAllowed(s.handle(s.notFoundHandler))

	r.Get(constants.PathHealth, s.handle(s.healthHandler))
	r.Get(constants.PathReadiness, s.handle(s.readinessHandler))
	r.Get(constants.PathLiveness, s.handle(s.livenessHandler))
	r.Get(constants.PathStatus, s.handle(s.statusHandler))
	r.Get(constants.PathHello, s.handle(s.helloHandler))

	return r
}

// buildHandler is the complete HTTP handler, wrapped in a tracing span when
// tracing is enabled.
func (s *Server) buildHandler() http.Handler {
	return s.tracer.Middleware(s.newRouter())
}
