// Package log provides the logging surface used across the engine.
// Components depend on the Logger interface only; the concrete backend
// (golog by default) is chosen by the caller.
package log

// LogLevel represents logging severity
type LogLevel int

const (
	// LogLevelDebug for detailed debugging information
	LogLevelDebug LogLevel = iota
	// LogLevelInfo for general informational messages
	LogLevelInfo
	// LogLevelWarn for warning messages
	LogLevelWarn
	// LogLevelError for error messages
	LogLevelError
	// LogLevelNone disables all logging
	LogLevelNone
)

// Logger is the minimal logging interface the engine components use.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// NopLogger discards all messages. Used as the default in tests and
// when no logger is configured.
type NopLogger struct{}

var _ Logger = (*NopLogger)(nil)

// Debug discards the message
func (NopLogger) Debug(format string, v ...any) {}

// Info discards the message
func (NopLogger) Info(format string, v ...any) {}

// Warn discards the message
func (NopLogger) Warn(format string, v ...any) {}

// Error discards the message
func (NopLogger) Error(format string, v ...any) {}
