package boosting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSinglePartitionUpdate(t *testing.T) {
	require.InDelta(t, -2.0, computeSinglePartitionUpdate(4, 2), 1e-12)
	require.InDelta(t, -4.0, computeSinglePartitionUpdate(4, 0), 1e-12)
}

func TestComputeSinglePartitionUpdateGradientSum(t *testing.T) {
	require.InDelta(t, -3.5, computeSinglePartitionUpdateGradientSum(3.5), 1e-12)
}

func TestSplitGain(t *testing.T) {
	require.InDelta(t, 8.0, splitGain(4, 2), 1e-12)
	require.Equal(t, 0.0, splitGain(4, 0))
	require.Equal(t, 0.0, splitGain(4, -1))
}

func TestSplitGainSum(t *testing.T) {
	require.InDelta(t, 1.6, splitGainSum(4, 10), 1e-12)
	require.Equal(t, 0.0, splitGainSum(4, 0))
}
