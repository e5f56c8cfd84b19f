// Package log provides the structured logger used across segboost,
// wrapping github.com/rs/zerolog the way the teacher packages
// (sklearn/lightgbm/trainer.go, sklearn/pipeline/pipeline.go) consume
// pkg/log: a single process-wide logger plus small level helpers.
package log

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Logger returns the package-level zerolog.Logger. Callers that need a
// component-scoped logger should call Logger().With().Str("component",
// name).Logger().
func Logger() zerolog.Logger {
	return base
}

// SetLevel adjusts the global minimum log level, mirroring the
// verbosity knob exposed by the teacher's TrainingParams.Verbosity.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Warn logs a warning-level message with optional key/value fields.
func Warn(msg string, fields map[string]interface{}) {
	ev := base.Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Info logs an info-level message with optional key/value fields.
func Info(msg string, fields map[string]interface{}) {
	ev := base.Info()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Debug logs a debug-level message with optional key/value fields.
func Debug(msg string, fields map[string]interface{}) {
	ev := base.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Counter is a rate-limit counter for CountedWarn, matching the
// original's g_cLogGenerateTermUpdate: a shared int32 counted down to
// zero so a hot call path logs only its first N invocations.
type Counter struct {
	remaining atomic.Int32
}

// NewCounter creates a Counter that permits n more log emissions.
func NewCounter(n int32) *Counter {
	c := &Counter{}
	c.remaining.Store(n)
	return c
}

// CountedWarn logs msg at warning level only while the counter has not
// yet reached zero, then decrements it. Safe for concurrent use across
// independent booster shells, matching §5's "single log-rate-limit
// counter" allowance.
func CountedWarn(c *Counter, msg string, fields map[string]interface{}) {
	for {
		n := c.remaining.Load()
		if n <= 0 {
			return
		}
		if c.remaining.CompareAndSwap(n, n-1) {
			Warn(msg, fields)
			return
		}
	}
}
