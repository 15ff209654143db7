package observability

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// Logger is the process-wide logging facility. It is built once in main and
// handed to every component that logs.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
	files []io.Closer
}

// NewLogger builds a logger that tees to three sinks:
//   - <dir>/combined.log, JSON, every entry at or above the configured level
//   - <dir>/error.log, JSON, error entries only
//   - stdout/stderr, colorized console (or JSON when format is json)
//
// All entries carry the service name.
func NewLogger(cfg config.LoggingConfig, service string) (*Logger, error) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(cfg.Format, encoderCfg), consoleSink(cfg.Output), level),
	}

	var files []io.Closer
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", cfg.Dir, err)
		}

		combined := rotatingFile(cfg, constants.CombinedLogFile)
		errorsOnly := rotatingFile(cfg, constants.ErrorLogFile)
		files = append(files, combined, errorsOnly)

		jsonEncoder := zapcore.NewJSONEncoder(encoderCfg)
		cores = append(cores,
			zapcore.NewCore(jsonEncoder, zapcore.AddSync(combined), level),
			zapcore.NewCore(jsonEncoder.Clone(), zapcore.AddSync(errorsOnly), zapcore.ErrorLevel),
		)
	}

	options := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		options = append(options, zap.Development())
	}

	logger := zap.New(zapcore.NewTee(cores...), options...).With(zap.String("service", service))

	return &Logger{Logger: logger, level: level, files: files}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// WrapLogger adapts an existing zap logger, mainly for tests using zaptest/observer.
func WrapLogger(l *zap.Logger) *Logger {
	return &Logger{Logger: l, level: zap.NewAtomicLevel()}
}

// SetLevel changes the minimum level of the console and combined sinks at runtime.
func (l *Logger) SetLevel(level string) error {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.level.SetLevel(parsed)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// Close flushes buffered entries and closes the log files.
func (l *Logger) Close() error {
	var errs []error
	// stdout sync fails on some terminals; that is not worth reporting
	_ = l.Sync()
	for _, f := range l.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func parseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func consoleEncoder(format string, base zapcore.EncoderConfig) zapcore.Encoder {
	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(base)
	}
	base.EncodeLevel = zapcore.CapitalColorLevelEncoder
	base.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(base)
}

func consoleSink(output string) zapcore.WriteSyncer {
	if strings.EqualFold(output, "stderr") {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.Lock(os.Stdout)
}

func rotatingFile(cfg config.LoggingConfig, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}
