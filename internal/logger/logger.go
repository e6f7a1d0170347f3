// =============================================================================
// Transaction Widget - Logging Module
// =============================================================================
//
// This module builds the application's zap logger from the configuration:
//
//   log_file set   -> JSON lines appended to the file
//   log_file empty -> console output on stderr
//
// Formatted adapts a zap logger to the printf-style Logger interface used by
// the processing pipeline.
//
// =============================================================================

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options control how the logger is built.
type Options struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	// Empty means info.
	Level string

	// File, when set, receives JSON log lines (appended). Otherwise logs go
	// to stderr in console format.
	File string

	// Verbose forces the debug level.
	Verbose bool
}

// New creates a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{"stderr"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
		cfg.OutputPaths = []string{"stderr"}
	}

	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return built, nil
}

func resolveLevel(opts Options) (zap.AtomicLevel, error) {
	if opts.Verbose {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}
	if strings.TrimSpace(opts.Level) == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	var parsed zapcore.Level
	if err := parsed.Set(opts.Level); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}

// Formatted exposes printf-style Debug/Info/Warn/Error methods on top of a
// zap logger. It satisfies converter.Logger.
type Formatted struct {
	s *zap.SugaredLogger
}

// Sugared wraps l in a Formatted logger.
func Sugared(l *zap.Logger) *Formatted {
	if l == nil {
		l = zap.NewNop()
	}
	return &Formatted{s: l.Sugar()}
}

func (f *Formatted) Debug(msg string, args ...interface{}) { f.s.Debugf(msg, args...) }
func (f *Formatted) Info(msg string, args ...interface{})  { f.s.Infof(msg, args...) }
func (f *Formatted) Warn(msg string, args ...interface{})  { f.s.Warnf(msg, args...) }
func (f *Formatted) Error(msg string, args ...interface{}) { f.s.Errorf(msg, args...) }
