// Package log provides Raccoon's structured logging facade.
//
// # Overview
//
// Logger exposes leveled methods taking Field values for structured context.
// Records flow through log/slog via a bridge handler that hands them to our
// Formatter and Outputs, so slog-aware code and the facade share one pipeline.
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("host")
//	l.Info("document saved", log.Str("doc", "bracket"), log.Int("records", 3))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text|json
// format, optional file output). RedirectStdLog routes the standard library
// logger, which Pebble uses, through a Logger.
package log
