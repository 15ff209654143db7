package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/config"
)

// Name identifies the server to the hot reload manager.
func (s *Server) Name() string {
	return "log-level"
}

// Reload re-reads the config file and applies its log level. Other settings
// need a restart. Flags and environment variables still take precedence over
// the file.
func (s *Server) Reload(ctx context.Context) error {
	if s.config.ConfigFile == "" {
		return nil
	}

	cfg, err := config.LoadConfig(s.config.ConfigFile, s.config.Flags())
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	level := cfg.Observability.Logging.Level
	if err := s.logger.SetLevel(level); err != nil {
		return err
	}

	s.logger.Info("Log level reloaded", zap.String("level", level))
	return nil
}
