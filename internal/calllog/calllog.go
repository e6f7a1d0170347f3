// =============================================================================
// Transaction Widget - Call Log Module
// =============================================================================
//
// This module records one line per call of a wrapped operation:
//
//   <name> ok
//   <name> error: <ErrType>: <message>. Inputs: (<args>)
//
// Lines are appended to a file, or written to stdout when no file is given.
// A nil *Logger is valid and records nothing, so callers can wrap
// unconditionally whether or not a call log is configured.
//
// =============================================================================

package calllog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// =============================================================================
// CALL LOGGER
// =============================================================================

// Logger writes call lines.
type Logger struct {
	z    *zap.Logger
	file *os.File
}

// New opens a call log. An empty path writes to stdout.
func New(path string) (*Logger, error) {
	if path == "" {
		return newLogger(zapcore.Lock(os.Stdout), nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log: %w", err)
	}
	return newLogger(zapcore.AddSync(f), f), nil
}

func newLogger(ws zapcore.WriteSyncer, f *os.File) *Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, ws, zapcore.InfoLevel)
	return &Logger{z: zap.New(core), file: f}
}

// Close flushes the log and closes its file, if any.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	_ = l.z.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Record writes the line for one finished call.
func (l *Logger) Record(name string, err error, inputs ...any) {
	if l == nil {
		return
	}
	if err == nil {
		l.z.Info(name + " ok")
		return
	}
	l.z.Info(fmt.Sprintf("%s error: %s: %s. Inputs: (%s)", name, errorType(err), err.Error(), formatInputs(inputs)))
}

// WrapE runs fn once and records the outcome. The error is returned unchanged.
func (l *Logger) WrapE(name string, fn func() error, inputs ...any) error {
	err := fn()
	l.Record(name, err, inputs...)
	return err
}

// =============================================================================
// WRAPPERS
// =============================================================================

// Wrap decorates fn so that every call is recorded. fn takes a leading
// argument that is not logged (typically a context.Context) and one input
// that is.
func Wrap[C, A, R any](l *Logger, name string, fn func(C, A) (R, error)) func(C, A) (R, error) {
	if l == nil {
		return fn
	}
	return func(c C, a A) (R, error) {
		r, err := fn(c, a)
		l.Record(name, err, a)
		return r, err
	}
}

// errorType names the most specific error in the chain, skipping the
// wrappers created by fmt.Errorf and errors.Join.
func errorType(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		name := fmt.Sprintf("%T", e)
		if !strings.HasPrefix(name, "*fmt.") && !strings.HasPrefix(name, "*errors.") {
			return name
		}
	}
	return fmt.Sprintf("%T", err)
}

func formatInputs(inputs []any) string {
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		parts[i] = fmt.Sprintf("%v", in)
	}
	return strings.Join(parts, ", ")
}
