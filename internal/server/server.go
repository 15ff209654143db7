package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/checks"
	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/observability"
	"github.com/leslieo2/lanc-compliance/internal/security"
	"github.com/leslieo2/lanc-compliance/internal/version"
)

type Server struct {
	config        *config.Config
	mu            sync.Mutex
	server        *http.Server
	metricsServer *http.Server
	version       string

	// Security
	rateLimiter *security.RateLimiter

	// Observability
	logger    *observability.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	readiness *observability.Registry
	process   *observability.Process

	quit chan os.Signal
	exit func(int)
}

// New wires the server. A nil registry gets the static database and
// dependencies checks.
func New(cfg *config.Config, logger *observability.Logger, readiness *observability.Registry) (*Server, error) {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	if readiness == nil {
		readiness = observability.NewRegistry(cfg.Readiness.Timeout, logger.Logger)
		readiness.Register(checks.NewStatic(checks.NameDatabase))
		readiness.Register(checks.NewStatic(checks.NameDependencies))
	}

	ver := version.Get()
	tracer, err := observability.NewTracer(cfg.Observability.Tracing, observability.TraceInfo{
		ServiceName: cfg.ServiceName,
		Version:     ver,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	s := &Server{
		config:    cfg,
		version:   ver,
		logger:    logger,
		tracer:    tracer,
		readiness: readiness,
		process:   observability.NewProcess(),
		quit:      make(chan os.Signal, 1),
		exit:      os.Exit,
	}

	if cfg.Observability.Metrics.Enabled {
		s.metrics = observability.NewMetrics()
	}
	if cfg.Security.RateLimit.Enabled {
		s.rateLimiter = security.NewRateLimiter(cfg.Security.RateLimit, logger.Logger)
	}

	return s, nil
}

// Start binds the configured address and serves until the listener fails or
// a termination signal ends the process.
func (s *Server) Start() error {
	addr := s.config.GetServerAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln. SIGINT and SIGTERM exit the process with status 0
// without waiting for in-flight requests.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:        s.buildHandler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	go s.waitForSignal()

	if s.metrics != nil {
		s.startMetricsServer()
		s.metrics.SetHealthStatus(true)
	}

	port := s.config.Server.Port
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
	}
	s.logger.Info("Test LANC Compliance service started",
		zap.String("port", port),
		zap.String("environment", s.config.Environment),
		zap.String("version", s.version),
		zap.String("timestamp", s.process.Now()),
		zap.Bool("tls", s.config.TLS.Enabled),
	)

	var err error
	if s.config.TLS.Enabled {
		err = srv.ServeTLS(ln, s.config.TLS.CertFile, s.config.TLS.KeyFile)
	} else {
		err = srv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle(s.config.Observability.Metrics.Path, s.metrics.Handler())
	metricsServer := &http.Server{
		Addr:              s.config.GetMetricsAddress(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.metricsServer = metricsServer
	s.mu.Unlock()

	s.logger.Info("Starting metrics server",
		zap.String("port", s.config.Server.MetricsPort),
		zap.String("path", s.config.Observability.Metrics.Path),
	)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}

func (s *Server) waitForSignal() {
	sig, ok := <-s.quit
	if !ok {
		return
	}
	s.handleSignal(sig)
}

// handleSignal logs the signal, flushes the log sinks and exits with status 0.
func (s *Server) handleSignal(sig os.Signal) {
	s.logger.Info(signalName(sig)+" received. Shutting down...", zap.String("signal", sig.String()))
	if s.metrics != nil {
		s.metrics.SetHealthStatus(false)
	}
	_ = s.logger.Close()
	s.exit(0)
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGINT:
		return "SIGINT"
	default:
		return sig.String()
	}
}

// Close stops listening immediately and releases background resources.
// Open connections are dropped, not drained.
func (s *Server) Close() error {
	signal.Stop(s.quit)

	s.mu.Lock()
	srv, metricsServer := s.server, s.metricsServer
	s.mu.Unlock()

	var errs []error
	if srv != nil {
		errs = append(errs, srv.Close())
	}
	if metricsServer != nil {
		errs = append(errs, metricsServer.Close())
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errs = append(errs, s.tracer.Shutdown(ctx))

	return errors.Join(errs...)
}
