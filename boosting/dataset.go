package boosting

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	scigoerrors "github.com/ezoic/segboost/pkg/errors"
)

// Dataset stages one round's training rows as dense per-score gradient
// and Hessian columns plus a bin-index table, the way a real boosting
// engine accumulates a pass over the data before handing row subsets to
// BinSumsBoosting. Using mat.Dense here (rather than a slice of Sample
// from the start) lets a caller fill a round's data with a single
// row-by-row write pass, and gives GradientMean/GradientStdDev access to
// gonum/stat's weighted moment helpers for monitoring.
type Dataset struct {
	n          int
	scoreCount int
	gradients  *mat.Dense
	hessians   *mat.Dense
	weights    []float64
	binIndices [][]int
}

// NewDataset allocates a dataset for n rows with the given per-row
// score count (1 for regression/binary, K for K-class).
func NewDataset(n, scoreCount int) *Dataset {
	return &Dataset{
		n:          n,
		scoreCount: scoreCount,
		gradients:  mat.NewDense(n, scoreCount, nil),
		hessians:   mat.NewDense(n, scoreCount, nil),
		weights:    make([]float64, n),
		binIndices: make([][]int, n),
	}
}

// SetRow fills row i's gradient, Hessian, weight, and per-term bin
// indices.
func (d *Dataset) SetRow(i int, binIndices []int, gradient, hessian []float64, weight float64) error {
	if i < 0 || i >= d.n {
		return scigoerrors.NewValueError("Dataset.SetRow", "row index out of range")
	}
	if len(gradient) != d.scoreCount {
		return scigoerrors.NewDimensionError("Dataset.SetRow", d.scoreCount, len(gradient), -1)
	}
	d.gradients.SetRow(i, gradient)
	if hessian != nil {
		if len(hessian) != d.scoreCount {
			return scigoerrors.NewDimensionError("Dataset.SetRow", d.scoreCount, len(hessian), -1)
		}
		d.hessians.SetRow(i, hessian)
	}
	d.weights[i] = weight
	d.binIndices[i] = binIndices
	return nil
}

// Rows returns the dataset's row count.
func (d *Dataset) Rows() int { return d.n }

// Subset converts the rows named by indices into the []Sample shape
// BinSumsBoosting consumes. withHessians controls whether the Hessian
// column is copied out (a round that doesn't need Hessians skips the
// copy entirely).
func (d *Dataset) Subset(indices []int, withHessians bool) []Sample {
	out := make([]Sample, len(indices))
	for pos, i := range indices {
		s := Sample{
			BinIndices: d.binIndices[i],
			Gradient:   append([]float64(nil), d.gradients.RawRowView(i)...),
			Weight:     d.weights[i],
		}
		if withHessians {
			s.Hessian = append([]float64(nil), d.hessians.RawRowView(i)...)
		}
		out[pos] = s
	}
	return out
}

// GradientMean returns the weighted mean gradient for one score
// dimension across every row, using gonum/stat's weighted mean so the
// caller can monitor whether a round's residuals are still centered
// near zero.
func (d *Dataset) GradientMean(score int) float64 {
	col := mat.Col(nil, score, d.gradients)
	return stat.Mean(col, d.weights)
}

// GradientStdDev returns the weighted standard deviation of the
// gradient column for one score dimension, a cheap per-round signal
// for detecting gradient blow-up before it reaches MultiplyAndCheckForIssues.
func (d *Dataset) GradientStdDev(score int) float64 {
	col := mat.Col(nil, score, d.gradients)
	_, variance := stat.MeanVariance(col, d.weights)
	return math.Sqrt(variance)
}
