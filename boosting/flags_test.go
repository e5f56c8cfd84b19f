package boosting_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezoic/segboost/boosting"
)

func TestDefaultFlagsUseNewtonEverything(t *testing.T) {
	f := boosting.FlagsDefault
	require.True(t, f.UseNewtonGain())
	require.True(t, f.UseNewtonUpdate())
	require.True(t, f.NeedsHessians())
	require.False(t, f.UseRandomSplits())
}

func TestGradientSumsModeSkipsHessiansOnlyWhenNewtonFullyDisabled(t *testing.T) {
	f := boosting.FlagGradientSums | boosting.FlagDisableNewtonGain | boosting.FlagDisableNewtonUpdate
	require.False(t, f.NeedsHessians())

	partial := boosting.FlagGradientSums | boosting.FlagDisableNewtonGain
	require.True(t, partial.NeedsHessians())
}

func TestRandomSplitsFlag(t *testing.T) {
	f := boosting.FlagRandomSplits
	require.True(t, f.UseRandomSplits())
	require.True(t, f.UseNewtonGain())
}
