package boosting

import (
	"github.com/ezoic/segboost/core/tensor"
	scigoerrors "github.com/ezoic/segboost/pkg/errors"
)

// OneDimensionalPartitioner searches a single feature's histogram for
// up to cSplitsMax best-gain splits and returns the resulting update
// tensor (with dimCount axes, all divisions on axis) together with the
// split's total gain.
type OneDimensionalPartitioner func(bins []Bin, dimCount, axis, scoreCount int, flags TermBoostFlags, minSamplesLeaf, minHessian float64, cSplitsMax int) (*tensor.Tensor, float64, error)

// TwoDimensionalPartitioner searches a two-feature bin grid for the
// best-gain axis-aligned split and returns the resulting update tensor
// (with dimCount axes, all divisions on axis0 or axis1) together with
// the split's gain.
type TwoDimensionalPartitioner func(bins []Bin, shape []int, dimCount, axis0, axis1, scoreCount int, flags TermBoostFlags, minSamplesLeaf, minHessian float64) (*tensor.Tensor, float64, error)

// RandomPartitioner draws one split per real dimension uniformly at
// random and returns the resulting update tensor together with the
// split's gain.
type RandomPartitioner func(bins []Bin, shape []int, scoreCount int, flags TermBoostFlags, rng RNG, minSamplesLeaf float64) (*tensor.Tensor, float64, error)

// sumBins totals a flat bin slice into a single Bin.
func sumBins(bins []Bin, scoreCount int, withHessians bool) Bin {
	total := NewBin(scoreCount, withHessians)
	for _, b := range bins {
		total.Add(b)
	}
	return total
}

// leafValue returns the leaf update for one score dimension under the
// round's flags.
func leafValue(grad, hess float64, flags TermBoostFlags) float64 {
	if flags.UseNewtonUpdate() && !flags.Has(FlagGradientSums) {
		return computeSinglePartitionUpdate(grad, hess)
	}
	return computeSinglePartitionUpdateGradientSum(grad)
}

// splitScore returns one score dimension's contribution to a split's
// gain under the round's flags.
func splitScore(grad, hess, count float64, flags TermBoostFlags) float64 {
	if flags.UseNewtonGain() {
		return splitGain(grad, hess)
	}
	return splitGainSum(grad, count)
}

// splitSearchResult holds the winning split location along a single
// marginal histogram, or found == false when no candidate respected
// minSamplesLeaf/minHessian.
type splitSearchResult struct {
	split                int
	gain                 float64
	leftCount            float64
	rightCount           float64
	leftGrad, rightGrad   []float64
	leftHess, rightHess   []float64
	found                bool
}

// searchBestSplit scans every interior boundary of a 1D histogram
// (bins ordered by bin index) for the split with the highest gain over
// the no-split baseline, honoring minSamplesLeaf and, when Newton gain
// is in use, minHessian on both sides. This is the core loop shared by
// the one-dimensional partitioner and each axis of the two-dimensional
// partitioner's marginal search, grounded on the teacher's
// findBestSplitForFeatureWithHistogram left-to-right accumulation.
func searchBestSplit(bins []Bin, scoreCount int, flags TermBoostFlags, minSamplesLeaf, minHessian float64) splitSearchResult {
	withHessians := flags.NeedsHessians()
	total := sumBins(bins, scoreCount, withHessians)

	baseline := 0.0
	for i := 0; i < scoreCount; i++ {
		h := 0.0
		if total.HessianSum != nil {
			h = total.HessianSum[i]
		}
		baseline += splitScore(total.GradientSum[i], h, total.Count, flags)
	}

	best := splitSearchResult{split: -1}
	leftGrad := make([]float64, scoreCount)
	leftHess := make([]float64, scoreCount)
	leftCount := 0.0

	for j := 0; j < len(bins)-1; j++ {
		leftCount += bins[j].Count
		for i := 0; i < scoreCount; i++ {
			leftGrad[i] += bins[j].GradientSum[i]
			if withHessians && bins[j].HessianSum != nil {
				leftHess[i] += bins[j].HessianSum[i]
			}
		}
		rightCount := total.Count - leftCount
		if leftCount < minSamplesLeaf || rightCount < minSamplesLeaf {
			continue
		}

		gain := 0.0
		ok := true
		for i := 0; i < scoreCount; i++ {
			rg := total.GradientSum[i] - leftGrad[i]
			if withHessians {
				rh := total.HessianSum[i] - leftHess[i]
				if flags.UseNewtonGain() && (leftHess[i] < minHessian || rh < minHessian) {
					ok = false
					break
				}
				gain += splitScore(leftGrad[i], leftHess[i], leftCount, flags) + splitScore(rg, rh, rightCount, flags)
			} else {
				gain += splitScore(leftGrad[i], 0, leftCount, flags) + splitScore(rg, 0, rightCount, flags)
			}
		}
		if !ok {
			continue
		}
		gain -= baseline
		if gain > best.gain || best.split < 0 {
			best = splitSearchResult{
				split:      j,
				gain:       gain,
				leftCount:  leftCount,
				rightCount: rightCount,
				leftGrad:   append([]float64(nil), leftGrad...),
				rightGrad:  make([]float64, scoreCount),
				found:      true,
			}
			for i := 0; i < scoreCount; i++ {
				best.rightGrad[i] = total.GradientSum[i] - leftGrad[i]
			}
			if withHessians {
				best.leftHess = append([]float64(nil), leftHess...)
				best.rightHess = make([]float64, scoreCount)
				for i := 0; i < scoreCount; i++ {
					best.rightHess[i] = total.HessianSum[i] - leftHess[i]
				}
			}
		}
	}
	if best.split < 0 || best.gain <= 0 {
		return splitSearchResult{split: -1, found: false}
	}
	return best
}

// cellIndexForAxis returns the number of divisions <= coord, i.e. the
// cell a raw bin coordinate falls into given a sorted list of split
// points along that axis. Mirrors core/tensor's own segment lookup so
// bin-grid cells and tensor segments agree index-for-index.
func cellIndexForAxis(divisions []int, coord int) int {
	lo, hi := 0, len(divisions)
	for lo < hi {
		mid := (lo + hi) / 2
		if divisions[mid] <= coord {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// aggregateGrid collapses a dense bin grid of the given shape into a
// coarser grid defined by one sorted split-point list per axis (an
// empty list leaves that axis unsplit), summing every raw bin into the
// cell its coordinates land in.
func aggregateGrid(bins []Bin, shape []int, divisionsPerAxis [][]int, scoreCount int, withHessians bool) ([]Bin, []int, error) {
	d := len(shape)
	cellShape := make([]int, d)
	for i := range shape {
		cellShape[i] = len(divisionsPerAxis[i]) + 1
	}
	cellStrides := make([]int, d)
	total := 1
	for i := d - 1; i >= 0; i-- {
		cellStrides[i] = total
		total *= cellShape[i]
	}
	rawStrides := make([]int, d)
	rawTotal := 1
	for i := d - 1; i >= 0; i-- {
		rawStrides[i] = rawTotal
		rawTotal *= shape[i]
	}
	if len(bins) != rawTotal {
		return nil, nil, scigoerrors.NewDimensionError("aggregateGrid", rawTotal, len(bins), -1)
	}

	cells := make([]Bin, total)
	for i := range cells {
		cells[i] = NewBin(scoreCount, withHessians)
	}

	coords := make([]int, d)
	for linear := 0; linear < rawTotal; linear++ {
		rem := linear
		for i := 0; i < d; i++ {
			coords[i] = rem / rawStrides[i]
			rem %= rawStrides[i]
		}
		cellIdx := 0
		for i := 0; i < d; i++ {
			c := cellIndexForAxis(divisionsPerAxis[i], coords[i])
			cellIdx += c * cellStrides[i]
		}
		cells[cellIdx].Add(bins[linear])
	}
	return cells, cellShape, nil
}

// marginalizeAxis collapses a D-dimensional bin grid of the given shape
// down to the 1D histogram along axis, summing over every other axis
// (including any trivial single-bin ones). Used by
// PartitionTwoDimensionalBoosting's marginal search so a real
// dimension's position among a term's full axis list, not just its
// position within the pair of real dimensions, can be searched
// directly.
func marginalizeAxis(bins []Bin, shape []int, axis, scoreCount int, withHessians bool) []Bin {
	d := len(shape)
	strides := make([]int, d)
	total := 1
	for i := d - 1; i >= 0; i-- {
		strides[i] = total
		total *= shape[i]
	}

	out := make([]Bin, shape[axis])
	for i := range out {
		out[i] = NewBin(scoreCount, withHessians)
	}

	coords := make([]int, d)
	for linear := 0; linear < total; linear++ {
		rem := linear
		for i := 0; i < d; i++ {
			coords[i] = rem / strides[i]
			rem %= strides[i]
		}
		out[coords[axis]].Add(bins[linear])
	}
	return out
}
