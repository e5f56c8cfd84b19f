package errors_test

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	scigoErrors "github.com/ezoic/segboost/pkg/errors"
)

func TestValueErrorAs(t *testing.T) {
	err := scigoErrors.NewValueError("Allocate", "cVectorLength must be >= 1")

	var valueErr *scigoErrors.ValueError
	require.True(t, goerrors.As(err, &valueErr))
	require.Equal(t, "Allocate", valueErr.Op)
	require.Equal(t, scigoErrors.IllegalParamVal, scigoErrors.ToCode(err))
}

func TestDimensionErrorAs(t *testing.T) {
	err := scigoErrors.NewDimensionError("Copy", 3, 2, 0)

	var dimErr *scigoErrors.DimensionError
	require.True(t, goerrors.As(err, &dimErr))
	require.Equal(t, 3, dimErr.Expected)
	require.Equal(t, 2, dimErr.Got)
	require.Equal(t, scigoErrors.IllegalParamVal, scigoErrors.ToCode(err))
}

func TestOverflowErrorMapsToOutOfMemory(t *testing.T) {
	err := scigoErrors.NewOverflowError("EnsureValueCapacity", "cNewValueCapacity * sizeof(TValues) overflows")
	require.Equal(t, scigoErrors.OutOfMemory, scigoErrors.ToCode(err))
}

func TestInternalErrorMapsToUnexpectedInternal(t *testing.T) {
	err := scigoErrors.NewInternalError("BoostMultiDimensional", "realDim != 2")
	require.Equal(t, scigoErrors.UnexpectedInternal, scigoErrors.ToCode(err))
}

func TestNilMapsToNone(t *testing.T) {
	require.Equal(t, scigoErrors.None, scigoErrors.ToCode(nil))
}

func TestWrapfPreservesType(t *testing.T) {
	base := scigoErrors.NewOverflowError("SetCountDivisions", "cNewDivisionCapacity overflow")
	wrapped := scigoErrors.Wrapf(base, "Add: dimension %d", 2)

	var overflowErr *scigoErrors.OverflowError
	require.True(t, goerrors.As(wrapped, &overflowErr))
}
