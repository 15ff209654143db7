package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/constants"
	"github.com/leslieo2/lanc-compliance/internal/observability"
)

// healthHandler handles health check requests
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) error {
	_, span := s.tracer.StartSpan(r.Context(), "health_check")
	defer span.End()

	return writeJSON(w, http.StatusOK, observability.HealthStatus{
		Status:      constants.StatusHealthy,
		Timestamp:   s.process.Now(),
		Version:     s.version,
		Environment: s.config.Environment,
		Uptime:      s.process.UptimeSeconds(),
		Memory:      s.process.Memory(),
		Service:     s.config.ServiceName,
	})
}

// readinessHandler runs the registered dependency checks. Any failing check
// turns the response into a 503.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) error {
	ctx, span := s.tracer.StartSpan(r.Context(), "readiness_check")
	defer span.End()

	checks, ready := s.readiness.Run(ctx)
	status, code := constants.StatusReady, http.StatusOK
	if !ready {
		status, code = constants.StatusNotReady, http.StatusServiceUnavailable
	}
	if s.metrics != nil {
		s.metrics.SetHealthStatus(ready)
	}

	s.logger.Debug("Readiness check completed",
		zap.String("path", r.URL.Path),
		zap.Bool("ready", ready),
	)

	return writeJSON(w, code, observability.ReadinessStatus{
		Status:    status,
		Timestamp: s.process.Now(),
		Checks:    checks,
	})
}

func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, observability.LivenessStatus{
		Status:    constants.StatusAlive,
		Timestamp: s.process.Now(),
		Uptime:    s.process.UptimeSeconds(),
	})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, ServiceStatus{
		Service:     s.config.ServiceName,
		Status:      constants.StatusOperational,
		Timestamp:   s.process.Now(),
		Environment: s.config.Environment,
		Version:     s.version,
		Features: Features{
			HealthChecks: constants.FeatureEnabled,
			Logging:      constants.FeatureEnabled,
			Security:     constants.FeatureEnabled,
		},
	})
}

func (s *Server) helloHandler(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, Greeting{
		Message:   constants.HelloMessage,
		Timestamp: s.process.Now(),
	})
}
