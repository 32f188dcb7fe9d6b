// Package logger provides structured logging for the simulation server.
// Every action the server takes on behalf of "Overwatch" (the AI squad
// lead) should be traceable through this.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured logging with context.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a new console logger instance.
func NewLogger() *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return &Logger{
		zl: zerolog.New(out).With().Timestamp().Logger(),
	}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Info logs informational messages.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msgf(msg, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msgf(msg, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msgf(msg, args...)
}

// Event logs a specific simulation event for after-action review.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.zl.Info().
		Str("event", eventType).
		Str("actor", actorID).
		Msg(details)
}
