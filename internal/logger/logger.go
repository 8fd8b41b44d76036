// Package logger provides logging utilities for auto-ops using the bullets library.
//
// It wraps [bullets.Logger] with convenience constructors for creating loggers
// at various levels and a silent logger for use in tests or when no output is desired.
//
// Usage:
//
//	log := logger.NewLogger("debug")
//	log.Debug("Starting operation")
//
//	silentLog := logger.NoLogger() // Suppresses all output
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sgaunet/bullets"
)

// Logger is the interface for logging in auto-ops.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogger creates a new logger that writes to stdout at the specified level.
//
// Parameters:
//   - logLevel: one of "debug", "info", "warn", "error" (defaults to "info" for unknown values)
// bulletsLogger adapts [bullets.Logger] to the variadic [Logger] interface by
// rendering slog-style key-value pairs into the message string.
type bulletsLogger struct {
	l *bullets.Logger
}

func (b *bulletsLogger) Debug(msg string, args ...any) { b.l.Debug(render(msg, args)) }
func (b *bulletsLogger) Info(msg string, args ...any)  { b.l.Info(render(msg, args)) }
func (b *bulletsLogger) Warn(msg string, args ...any)  { b.l.Warn(render(msg, args)) }
func (b *bulletsLogger) Error(msg string, args ...any) { b.l.Error(render(msg, args)) }

func render(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&sb, " %v", args[i])
		}
	}
	return sb.String()
}

func NewLogger(logLevel string) Logger {
	var level bullets.Level
	switch logLevel {
	case "debug":
		level = bullets.DebugLevel
	case "info":
		level = bullets.InfoLevel
	case "warn":
		level = bullets.WarnLevel
	case "error":
		level = bullets.ErrorLevel
	default:
		level = bullets.InfoLevel
	}
	logger := bullets.New(os.Stdout)
	logger.SetLevel(level)
	return &bulletsLogger{l: logger}
}

// NoLogger creates a logger that suppresses all output by setting the level to Fatal.
// Useful for tests and silent operation.
func NoLogger() Logger {
	logger := bullets.New(os.Stdout)
	logger.SetLevel(bullets.FatalLevel)
	return &bulletsLogger{l: logger}
}
