package log

import (
	stdlog "log"
	"strings"
)

type stdWriter struct {
	logger Logger
}

func (w stdWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimRight(string(p), "\n"), Str("source", "stdlog"))
	return len(p), nil
}

// RedirectStdLog sends output of the standard library logger to l.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{logger: l})
}
