package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/checks"
	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/hotreload"
	"github.com/leslieo2/lanc-compliance/internal/observability"
	"github.com/leslieo2/lanc-compliance/internal/server"
	"github.com/leslieo2/lanc-compliance/internal/version"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	configFile := fs.StringP("config", "c", "", "Path to configuration file (YAML or JSON)")
	showVersion := fs.BoolP("version", "v", false, "Print the version and exit")
	cliFlags := config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables override the config file; flags override both.\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s --port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  APP_ENV=production %s --config ./config.yaml\n", os.Args[0])
	}
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	cfg, err := config.LoadConfig(*configFile, cliFlags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Observability.Logging, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	checkers, closeChecks, err := checks.FromConfig(cfg.Readiness)
	if err != nil {
		logger.Fatal("Failed to initialize readiness checks", zap.Error(err))
	}
	defer func() { _ = closeChecks() }()

	readiness := observability.NewRegistry(cfg.Readiness.Timeout, logger.Logger)
	for _, c := range checkers {
		readiness.Register(c)
	}

	srv, err := server.New(cfg, logger, readiness)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	if cfg.HotReload.Enabled && cfg.ConfigFile != "" {
		manager := hotreload.NewManager(cfg.ConfigFile, cfg.HotReload.Debounce, logger.Logger)
		if err := manager.RegisterReloadable(srv); err != nil {
			logger.Fatal("Failed to register server for hot reload", zap.Error(err))
		}
		if err := manager.Start(context.Background()); err != nil {
			logger.Fatal("Failed to start hot reload", zap.Error(err))
		}
		defer manager.Stop()
	} else if cfg.HotReload.Enabled {
		logger.Warn("Hot reload requested without a config file; ignoring")
	}

	if cfg.Security.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.Security.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.Security.RateLimit.BurstSize),
		)
	}

	if err := srv.Start(); err != nil {
		logger.Error("Server failed", zap.Error(err))
		_ = logger.Close()
		os.Exit(1)
	}
}
