package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// Logger is the leveled component logger used by the CLI and the HTTP
// server. Info and Success messages are demoted to debug unless verbose is
// set, so a plain `serve` prints only what needs attention.
type Logger struct {
	sugar   *zap.SugaredLogger
	verbose bool
}

// New builds a zap-backed logger from the logging config
func New(cfg entities.LoggingConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(string(cfg.GetLevel()))
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	zcfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	if cfg.JSONFormat {
		zcfg.Encoding = "json"
		zcfg.EncoderConfig = zap.NewProductionEncoderConfig()
	}
	if cfg.File != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.File)
	}

	z, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return NewFromZap(z, cfg.Verbose || level == zapcore.DebugLevel), nil
}

// NewFromZap wraps an existing zap logger
func NewFromZap(z *zap.Logger, verbose bool) *Logger {
	return &Logger{sugar: z.Sugar(), verbose: verbose}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return NewFromZap(zap.NewNop(), false)
}

// Named returns a child logger for a component ("http", "watcher")
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name), verbose: l.verbose}
}

// Sugar exposes the structured logger the domain services take
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

// Info logs an informational message
func (l *Logger) Info(msg string, args ...interface{}) {
	if !l.verbose {
		l.sugar.Debugf(msg, args...)
		return
	}
	l.sugar.Infof(msg, args...)
}

// Warn logs a warning
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

// Error logs an error
func (l *Logger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Success logs a completed step
func (l *Logger) Success(msg string, args ...interface{}) {
	s := l.sugar.With("status", "ok")
	if !l.verbose {
		s.Debugf(msg, args...)
		return
	}
	s.Infof(msg, args...)
}

// Sync flushes buffered output
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
