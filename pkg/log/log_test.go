package log_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezoic/segboost/pkg/log"
)

func TestCountedWarnPastBudgetDoesNotPanic(t *testing.T) {
	c := log.NewCounter(2)

	require.NotPanics(t, func() {
		log.CountedWarn(c, "first", nil)
		log.CountedWarn(c, "second", nil)
		log.CountedWarn(c, "third", nil)
	})
}

func TestCountedWarnWithZeroBudgetDoesNotPanic(t *testing.T) {
	c := log.NewCounter(0)
	require.NotPanics(t, func() {
		log.CountedWarn(c, "never", map[string]interface{}{"k": "v"})
	})
}

func TestLoggerLevelSurvivesSetLevel(t *testing.T) {
	l := log.Logger()
	require.NotPanics(t, func() {
		log.SetLevel(l.GetLevel())
	})
}

func TestLevelHelpersDoNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		log.Info("info message", map[string]interface{}{"a": 1})
		log.Debug("debug message", nil)
		log.Warn("warn message", map[string]interface{}{"b": "c"})
	})
}
