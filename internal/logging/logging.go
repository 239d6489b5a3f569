// Package logging gives the emoji-prefixed log.Printf calls scattered across
// this module (catalog.go's 📋, the orchestrator's 🚨, and so on) a single
// point to redirect or silence, without introducing a logging library the
// teacher itself never reaches for.
package logging

import (
	"io"
	"log"
)

// Logger is the minimal surface every package here depends on.
type Logger interface {
	Printf(format string, args ...any)
}

// stdLogger adapts the standard library's *log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Printf(format string, args ...any) { s.l.Printf(format, args...) }

// Default wraps log.Default(), preserving every existing log.Printf call
// site's output destination and flags.
func Default() Logger {
	return stdLogger{l: log.Default()}
}

// Discard silences all output, for tests and for callers embedding this
// module that want to own their own logging pipeline.
func Discard() Logger {
	return stdLogger{l: log.New(io.Discard, "", 0)}
}

// New builds a Logger writing to w with the given prefix, mirroring
// log.New's signature so call sites can redirect output without adopting a
// different logging convention.
func New(w io.Writer, prefix string) Logger {
	return stdLogger{l: log.New(w, prefix, log.LstdFlags)}
}
