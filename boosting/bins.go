package boosting

import scigoerrors "github.com/ezoic/segboost/pkg/errors"

// Bin accumulates the sufficient statistics needed to score a
// candidate split or leaf: a weighted sample count, a gradient sum, and
// (unless the round's flags disable it) a Hessian sum, one pair per
// score dimension.
type Bin struct {
	Count       float64
	GradientSum []float64
	HessianSum  []float64
}

// NewBin allocates a zeroed bin for a model with the given number of
// scores (1 for regression/binary classification, K for K-class).
func NewBin(scoreCount int, withHessians bool) Bin {
	b := Bin{GradientSum: make([]float64, scoreCount)}
	if withHessians {
		b.HessianSum = make([]float64, scoreCount)
	}
	return b
}

// Zero resets a bin to its allocated-but-empty state, preserving
// capacity.
func (b *Bin) Zero() {
	b.Count = 0
	for i := range b.GradientSum {
		b.GradientSum[i] = 0
	}
	for i := range b.HessianSum {
		b.HessianSum[i] = 0
	}
}

// Add accumulates o's statistics into b in place.
func (b *Bin) Add(o Bin) {
	b.Count += o.Count
	for i := range b.GradientSum {
		b.GradientSum[i] += o.GradientSum[i]
	}
	for i := range b.HessianSum {
		b.HessianSum[i] += o.HessianSum[i]
	}
}

// Sample is one training row's contribution to a term's bins: the bin
// index it falls into along each of the term's dimensions, its
// per-score gradient, and (unless the round disables Hessians) its
// per-score Hessian.
type Sample struct {
	BinIndices []int
	Gradient   []float64
	Hessian    []float64
	Weight     float64
}

// binGridSize returns Π feature.CountBins over dims, and the per-axis
// stride needed to flatten a coordinate tuple with the last axis
// varying fastest, matching core/tensor's segment ordering.
func binGridSize(features []Feature) (total int, strides []int) {
	strides = make([]int, len(features))
	total = 1
	for i := len(features) - 1; i >= 0; i-- {
		strides[i] = total
		total *= features[i].CountBins
	}
	return total, strides
}

func flatBinIndex(strides []int, coords []int) int {
	idx := 0
	for i, s := range strides {
		idx += coords[i] * s
	}
	return idx
}

// BinSumsBoosting aggregates samples into the dense bin grid for term's
// dimensions: one Bin per combination of per-axis bin indices, laid out
// in row-major order with the last dimension fastest (the same
// convention core/tensor.Expand and core/tensor.Add use for their
// segment grids), so a bin grid and a tensor's segment grid of the same
// shape line up index-for-index.
func BinSumsBoosting(term *Term, samples []Sample, scoreCount int, withHessians bool) ([]Bin, []int, error) {
	if term.CountDimensions() == 0 {
		bin := NewBin(scoreCount, withHessians)
		for _, s := range samples {
			accumulateSample(&bin, s, withHessians)
		}
		return []Bin{bin}, nil, nil
	}

	total, strides := binGridSize(term.Features)
	bins := make([]Bin, total)
	for i := range bins {
		bins[i] = NewBin(scoreCount, withHessians)
	}
	shape := make([]int, len(term.Features))
	for i, f := range term.Features {
		shape[i] = f.CountBins
	}

	for _, s := range samples {
		if len(s.BinIndices) != len(term.Features) {
			return nil, nil, scigoerrors.NewDimensionError("BinSumsBoosting", len(term.Features), len(s.BinIndices), -1)
		}
		idx := flatBinIndex(strides, s.BinIndices)
		if idx < 0 || idx >= total {
			return nil, nil, scigoerrors.NewValueError("BinSumsBoosting", "sample bin index out of range")
		}
		accumulateSample(&bins[idx], s, withHessians)
	}
	return bins, shape, nil
}

func accumulateSample(bin *Bin, s Sample, withHessians bool) {
	bin.Count += s.Weight
	for i, g := range s.Gradient {
		bin.GradientSum[i] += g * s.Weight
	}
	if withHessians && bin.HessianSum != nil {
		for i, h := range s.Hessian {
			bin.HessianSum[i] += h * s.Weight
		}
	}
}

// ConvertAddBin merges src into dst element-wise. dst and src must have
// the same length; it is the boundary used to fold a per-subset bin
// grid, computed independently (e.g. per inner bag), into the round's
// running main bin grid.
func ConvertAddBin(dst, src []Bin) error {
	if len(dst) != len(src) {
		return scigoerrors.NewDimensionError("ConvertAddBin", len(dst), len(src), -1)
	}
	for i := range dst {
		dst[i].Add(src[i])
	}
	return nil
}
