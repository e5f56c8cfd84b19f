package overflow_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezoic/segboost/core/overflow"
)

func TestMultiplyOverflows(t *testing.T) {
	require.False(t, overflow.MultiplyOverflows(0, 0))
	require.False(t, overflow.MultiplyOverflows(math.MaxUint64, 1))
	require.False(t, overflow.MultiplyOverflows(1, math.MaxUint64))
	require.True(t, overflow.MultiplyOverflows(math.MaxUint64, 2))
	require.True(t, overflow.MultiplyOverflows(1<<40, 1<<40))
}

func TestAddOverflows(t *testing.T) {
	require.False(t, overflow.AddOverflows(0, math.MaxUint64))
	require.True(t, overflow.AddOverflows(1, math.MaxUint64))
}

func TestMultiplyInt(t *testing.T) {
	v, overflowed := overflow.MultiplyInt(3, 4)
	require.False(t, overflowed)
	require.Equal(t, 12, v)

	_, overflowed = overflow.MultiplyInt(-1, 4)
	require.True(t, overflowed)

	_, overflowed = overflow.MultiplyInt(math.MaxInt64, 2)
	require.True(t, overflowed)
}

func TestAddInt(t *testing.T) {
	v, overflowed := overflow.AddInt(3, 4)
	require.False(t, overflowed)
	require.Equal(t, 7, v)

	_, overflowed = overflow.AddInt(math.MaxInt64, 1)
	require.True(t, overflowed)
}

func TestGrowthCapacity(t *testing.T) {
	v, overflowed := overflow.GrowthCapacity(10)
	require.False(t, overflowed)
	require.Equal(t, 15, v)

	v, overflowed = overflow.GrowthCapacity(1)
	require.False(t, overflowed)
	require.Equal(t, 1, v)

	_, overflowed = overflow.GrowthCapacity(math.MaxInt64)
	require.True(t, overflowed)
}
