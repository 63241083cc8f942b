package log

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
}

// Logger defines the logging interface used across Raccoon.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Infof(format string, args ...interface{})

	// With returns a logger that adds fields to every entry.
	With(fields ...Field) Logger
	// WithComponent tags entries with a component name.
	WithComponent(component string) Logger
	// WithError attaches err under the "error" key.
	WithError(err error) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter turns an entry into bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted entries.
type Output interface {
	Write(entry *Entry, formatted []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements Logger on top of slog.
type BaseLogger struct {
	core       *core
	slogLogger *slog.Logger
}

// core is shared between a logger and the children derived with With.
type core struct {
	level     Level
	formatter Formatter
	outputs   []Output
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{core: &core{
		level:     InfoLevel,
		formatter: &JSONFormatter{},
	}}
	for _, option := range options {
		option(logger)
	}
	if len(logger.core.outputs) == 0 {
		logger.core.outputs = append(logger.core.outputs, NewConsoleOutput())
	}
	logger.slogLogger = slog.New(newBridgeHandler(logger.core))
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) { l.core.level = level }
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) { l.core.formatter = formatter }
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) { l.core.outputs = append(l.core.outputs, output) }
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), msg, attrsFromFields(fields)...)
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

func (l *BaseLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...), nil)
}

func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{core: l.core, slogLogger: slog.New(l.slogLogger.Handler().WithAttrs(attrsFromFields(fields)))}
}

func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

func (l *BaseLogger) WithError(err error) Logger {
	return l.With(Err(err))
}

func (l *BaseLogger) SetLevel(level Level) { l.core.level = level }
func (l *BaseLogger) GetLevel() Level      { return l.core.level }

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewLogger(WithOutput(NullOutput{}))
}
