// Package logger provides verbose logging for the envio CLI.
// When verbose mode is enabled via the --verbose flag, structured debug
// messages are written to stderr so users can follow each carrier call.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	log               = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps make CLI output noisy and tests non-deterministic.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger(w)
}

func emit(level slog.Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		log.Log(context.Background(), level, fmt.Sprintf(format, args...))
	}
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, format, args...)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, format, args...)
}

// Warn logs a warning if verbose mode is enabled.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// With returns a logger carrying the given attributes, for callers that log
// several related events (a workflow run, a single request). Messages are
// dropped unless verbose mode is enabled when they are logged.
func With(args ...any) *Scoped {
	return &Scoped{attrs: args}
}

// Scoped logs with a fixed set of attributes.
type Scoped struct {
	attrs []any
}

func (s *Scoped) emit(level slog.Level, msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		log.With(s.attrs...).Log(context.Background(), level, msg, args...)
	}
}

// Debug logs msg with key/value args at debug level.
func (s *Scoped) Debug(msg string, args ...any) {
	s.emit(slog.LevelDebug, msg, args...)
}

// Info logs msg with key/value args at info level.
func (s *Scoped) Info(msg string, args ...any) {
	s.emit(slog.LevelInfo, msg, args...)
}

// Warn logs msg with key/value args at warn level.
func (s *Scoped) Warn(msg string, args ...any) {
	s.emit(slog.LevelWarn, msg, args...)
}

// With returns a copy of s carrying additional attributes.
func (s *Scoped) With(args ...any) *Scoped {
	attrs := make([]any, 0, len(s.attrs)+len(args))
	attrs = append(attrs, s.attrs...)
	attrs = append(attrs, args...)
	return &Scoped{attrs: attrs}
}
