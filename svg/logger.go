package svg

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/ByLCY/svgbridge/engine"
)

// nopHandler discards every record; Enabled reports false so messages are never formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package logger. By default nothing is logged;
// nil restores that.
//
// The logger is also handed to the default engine when it accepts one.
// Levels used:
//   - [slog.LevelDebug]: handle acquire and release, output geometry
//   - [slog.LevelWarn]: handles released by the runtime because Close was never called
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	if s, ok := defaultLoader().eng.(engine.LoggerSetter); ok {
		s.SetLogger(l)
	}
}

// Logger returns the current package logger. It is never nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
