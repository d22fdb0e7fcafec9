package gclib

import (
	"log"

	"github.com/zephyrtronium/gclib/internal"
)

// Logger receives the collector's diagnostics: one line per completed
// collection cycle, giving the cycle number, the resulting alloc size, and
// the number of terminated thread records reaped. Individual phases (freeze,
// sweep) are not logged. The default is a no-op; install one with SetLogger
// or (*Collector).SetLogger.
type Logger = internal.Logger

// stdLogger adapts a standard library *log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger backed by l.
func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l: l}
}

func (s stdLogger) Logf(format string, args ...any) {
	s.l.Printf(format, args...)
}
