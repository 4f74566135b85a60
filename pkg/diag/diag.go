// Package diag is the diagnostic channel shared by every vista package.
//
// Structural misuse, numeric degeneracy and missing inputs are reported here
// as warnings instead of being returned as errors, so traversal and rendering
// keep going. By default nothing is printed.
package diag

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used for diagnostics. Pass nil to silence them.
// Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current diagnostic logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Warn reports a recoverable problem on the diagnostic channel.
func Warn(msg string, args ...any) {
	loggerPtr.Load().Warn(msg, args...)
}
