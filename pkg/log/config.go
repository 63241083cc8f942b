package log

import (
	"fmt"
	"strings"
)

// Config declares how to build a logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// File, when set, adds a file output next to the console.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ParseLevel parses debug|info|warn|error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("invalid log format %q; use text|json", cfg.Format)
	}
	opts := []LoggerOption{WithLevel(level), WithFormatter(formatter), WithOutput(NewConsoleOutput())}
	if cfg.File != "" {
		fo, err := NewFileOutput(cfg.File)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithOutput(fo))
	}
	return NewLogger(opts...), nil
}
