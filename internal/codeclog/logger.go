// Package codeclog provides structured logging for ldapwire, backed by
// github.com/op/go-logging.
package codeclog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug is the most verbose level.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) goLoggingLevel() logging.Level {
	switch l {
	case LevelDebug:
		return logging.DEBUG
	case LevelInfo:
		return logging.INFO
	case LevelWarn:
		return logging.WARNING
	case LevelError:
		return logging.ERROR
	default:
		return logging.INFO
	}
}

// Format represents the log output format.
type Format int

const (
	// FormatText outputs logs in human-readable text format.
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format.
	FormatJSON
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatText
	}
}

const textFormat = `%{time:2006-01-02T15:04:05.000Z07:00} [%{level}] %{module} %{message}`
const jsonFormat = `{"ts":"%{time:2006-01-02T15:04:05.000Z07:00}","level":"%{level}","module":"%{module}","msg":%{message:q}}`

// Logger is the interface for structured logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
	// WithRequestID returns a new logger with the given request ID.
	WithRequestID(requestID string) Logger
	// WithFields returns a new logger with the given fields.
	WithFields(keysAndValues ...interface{}) Logger
}

// logger adapts go-logging's *logging.Logger to the Logger interface,
// folding request IDs and structured fields into the rendered message
// since go-logging itself has no field API.
type logger struct {
	backend   *logging.Logger
	mu        *sync.Mutex
	fields    map[string]interface{}
	requestID string
}

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
	Output string
}

// New creates a new Logger with the given configuration, registering a
// dedicated go-logging backend so concurrent loggers in the same
// process don't race over the package-level backend.
func New(cfg Config) Logger {
	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			output = os.Stdout
		} else {
			output = f
		}
	}
	return newWithWriter(output, cfg)
}

// newWithWriter builds a Logger writing to an arbitrary io.Writer,
// split out of New so tests can assert against an in-memory buffer
// instead of stdout/stderr/a file path.
func newWithWriter(output io.Writer, cfg Config) Logger {
	format := jsonFormat
	if ParseFormat(cfg.Format) == FormatText {
		format = textFormat
	}

	backend := logging.NewLogBackend(output, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(ParseLevel(cfg.Level).goLoggingLevel(), "")

	goLogger := logging.MustGetLogger(fmt.Sprintf("ldapwire-%p", output))
	goLogger.SetBackend(leveled)

	return &logger{
		backend: goLogger,
		mu:      &sync.Mutex{},
		fields:  make(map[string]interface{}),
	}
}

// NewDefault creates a new Logger with default settings.
func NewDefault() Logger {
	return New(Config{Level: "info", Format: "text", Output: "stdout"})
}

// NewNop creates a no-op logger that discards all output.
func NewNop() Logger {
	return &nopLogger{}
}

func (l *logger) Debug(msg string, keysAndValues ...interface{}) { l.log(LevelDebug, msg, keysAndValues...) }
func (l *logger) Info(msg string, keysAndValues ...interface{})  { l.log(LevelInfo, msg, keysAndValues...) }
func (l *logger) Warn(msg string, keysAndValues ...interface{})  { l.log(LevelWarn, msg, keysAndValues...) }
func (l *logger) Error(msg string, keysAndValues ...interface{}) { l.log(LevelError, msg, keysAndValues...) }

// WithRequestID returns a new logger with the given request ID.
func (l *logger) WithRequestID(requestID string) Logger {
	n := l.clone()
	n.requestID = requestID
	return n
}

// WithFields returns a new logger with the given fields.
func (l *logger) WithFields(keysAndValues ...interface{}) Logger {
	n := l.clone()
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			n.fields[key] = keysAndValues[i+1]
		}
	}
	return n
}

func (l *logger) clone() *logger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &logger{
		backend:   l.backend,
		mu:        l.mu,
		fields:    fields,
		requestID: l.requestID,
	}
}

func (l *logger) log(level Level, msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rendered := msg
	if l.requestID != "" {
		rendered += fmt.Sprintf(" request_id=%s", l.requestID)
	}
	for k, v := range l.fields {
		rendered += fmt.Sprintf(" %s=%v", k, v)
	}
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			rendered += fmt.Sprintf(" %s=%v", key, keysAndValues[i+1])
		}
	}

	switch level {
	case LevelDebug:
		l.backend.Debug(rendered)
	case LevelInfo:
		l.backend.Info(rendered)
	case LevelWarn:
		l.backend.Warning(rendered)
	case LevelError:
		l.backend.Error(rendered)
	}
}

// nopLogger is a no-op logger that discards all output.
type nopLogger struct{}

func (n *nopLogger) Debug(_ string, _ ...interface{})   {}
func (n *nopLogger) Info(_ string, _ ...interface{})    {}
func (n *nopLogger) Warn(_ string, _ ...interface{})    {}
func (n *nopLogger) Error(_ string, _ ...interface{})   {}
func (n *nopLogger) WithRequestID(_ string) Logger      { return n }
func (n *nopLogger) WithFields(_ ...interface{}) Logger { return n }
