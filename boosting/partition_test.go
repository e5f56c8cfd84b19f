package boosting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func binOf(count, grad, hess float64) Bin {
	return Bin{Count: count, GradientSum: []float64{grad}, HessianSum: []float64{hess}}
}

func TestPartitionOneDimensionalFindsObviousSplit(t *testing.T) {
	bins := []Bin{
		binOf(10, -20, 10),
		binOf(10, -20, 10),
		binOf(10, 20, 10),
		binOf(10, 20, 10),
	}
	tn, gain, err := PartitionOneDimensionalBoosting(bins, 1, 0, 1, FlagsDefault, 1, 0, 3)
	require.NoError(t, err)
	require.Greater(t, gain, 0.0)
	require.Equal(t, 1, tn.D())
	require.Equal(t, 1, tn.CountDivisions(0))
	require.Equal(t, 1, tn.Divisions(0)[0])
	vals := tn.Values()
	require.Greater(t, vals[0], 0.0)
	require.Less(t, vals[1], 0.0)
}

func TestPartitionOneDimensionalFallsBackWhenMinSamplesLeafBlocksEverything(t *testing.T) {
	bins := []Bin{binOf(1, -5, 1), binOf(1, 5, 1)}
	tn, gain, err := PartitionOneDimensionalBoosting(bins, 1, 0, 1, FlagsDefault, 100, 0, 3)
	require.NoError(t, err)
	require.Equal(t, 0.0, gain)
	require.Equal(t, 0, tn.CountDivisions(0))
}

func TestPartitionOneDimensionalHonorsCSplitsMax(t *testing.T) {
	// Three splits' worth of signal (four gradient levels), but cSplitsMax
	// caps growth at one.
	bins := []Bin{
		binOf(10, -30, 10), binOf(10, -10, 10),
		binOf(10, 10, 10), binOf(10, 30, 10),
	}
	tn, _, err := PartitionOneDimensionalBoosting(bins, 1, 0, 1, FlagsDefault, 1, 0, 1)
	require.NoError(t, err)
	require.LessOrEqual(t, tn.CountDivisions(0), 1)
}

func TestPartitionOneDimensionalZeroCSplitsMaxCollapsesToSingleLeaf(t *testing.T) {
	bins := []Bin{binOf(10, -20, 10), binOf(10, 20, 10)}
	tn, gain, err := PartitionOneDimensionalBoosting(bins, 1, 0, 1, FlagsDefault, 1, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, gain)
	require.Equal(t, 0, tn.CountDivisions(0))
}

func TestPartitionOneDimensionalPlacesDivisionsOnRequestedAxis(t *testing.T) {
	// dimCount 3, real axis at position 1 (axes 0 and 2 are trivial).
	bins := []Bin{
		binOf(10, -20, 10),
		binOf(10, -20, 10),
		binOf(10, 20, 10),
		binOf(10, 20, 10),
	}
	tn, gain, err := PartitionOneDimensionalBoosting(bins, 3, 1, 1, FlagsDefault, 1, 0, 3)
	require.NoError(t, err)
	require.Greater(t, gain, 0.0)
	require.Equal(t, 3, tn.D())
	require.Equal(t, 0, tn.CountDivisions(0))
	require.Equal(t, 1, tn.CountDivisions(1))
	require.Equal(t, 0, tn.CountDivisions(2))
}

func TestPartitionTwoDimensionalPicksBetterAxis(t *testing.T) {
	// shape [2,2]; axis 1 (columns) carries all the signal.
	bins := []Bin{
		binOf(10, -20, 10), binOf(10, 20, 10),
		binOf(10, -20, 10), binOf(10, 20, 10),
	}
	tn, gain, err := PartitionTwoDimensionalBoosting(bins, []int{2, 2}, 2, 0, 1, 1, FlagsDefault, 1, 0)
	require.NoError(t, err)
	require.Greater(t, gain, 0.0)
	require.Equal(t, 0, tn.CountDivisions(0))
	require.Equal(t, 1, tn.CountDivisions(1))
}

func TestPartitionTwoDimensionalPlacesDivisionsOnRequestedAxes(t *testing.T) {
	// dimCount 3, real axes at positions 0 and 2; axis 1 is trivial
	// (single bin), so it adds no cells to the grid.
	bins := []Bin{
		binOf(10, -20, 10), binOf(10, 20, 10),
		binOf(10, -20, 10), binOf(10, 20, 10),
	}
	tn, gain, err := PartitionTwoDimensionalBoosting(bins, []int{2, 1, 2}, 3, 0, 2, 1, FlagsDefault, 1, 0)
	require.NoError(t, err)
	require.Greater(t, gain, 0.0)
	require.Equal(t, 3, tn.D())
	require.Equal(t, 0, tn.CountDivisions(1))
}

type fakeRNG struct {
	n int
}

func (f *fakeRNG) IntN(n int) int   { return f.n % n }
func (f *fakeRNG) Float64() float64 { return 0.5 }

func TestPartitionRandomProducesValidTensor(t *testing.T) {
	bins := []Bin{
		binOf(10, -20, 10), binOf(10, 20, 10),
		binOf(10, -20, 10), binOf(10, 20, 10),
	}
	tn, _, err := PartitionRandomBoosting(bins, []int{2, 2}, 1, FlagsDefault, &fakeRNG{n: 0}, 0)
	require.NoError(t, err)
	require.Equal(t, 2, tn.D())
	require.Equal(t, 1, tn.CountDivisions(0))
	require.Equal(t, 1, tn.CountDivisions(1))
}
