package boosting

import "github.com/ezoic/segboost/core/tensor"

// PartitionRandomBoosting draws one uniformly random interior split
// point per real dimension (axes with a single bin get none), builds
// the resulting grid's leaf values, and reports the resulting gain
// relative to the unsplit baseline. Used when FlagRandomSplits is set,
// trading split-search cost for a lower-quality but much cheaper tree,
// the same trade the spec's RandomSplits flag exists to make.
func PartitionRandomBoosting(bins []Bin, shape []int, scoreCount int, flags TermBoostFlags, rng RNG, minSamplesLeaf float64) (*tensor.Tensor, float64, error) {
	withHessians := flags.NeedsHessians()
	d := len(shape)

	divisionsPerAxis := make([][]int, d)
	for i, k := range shape {
		if k <= 1 {
			divisionsPerAxis[i] = nil
			continue
		}
		split := 1 + rng.IntN(k-1)
		divisionsPerAxis[i] = []int{split}
	}

	cells, cellShape, err := aggregateGrid(bins, shape, divisionsPerAxis, scoreCount, withHessians)
	if err != nil {
		return nil, 0, err
	}

	tn, err := tensor.Allocate(d, scoreCount)
	if err != nil {
		return nil, 0, err
	}
	for i := 0; i < d; i++ {
		k := cellShape[i] - 1
		if err := tn.SetCountDivisions(i, k); err != nil {
			return nil, 0, err
		}
		copy(tn.Divisions(i), divisionsPerAxis[i])
	}
	if err := tn.EnsureValueCapacity(tn.ValueCount()); err != nil {
		return nil, 0, err
	}

	total := sumBins(bins, scoreCount, withHessians)
	baseline := 0.0
	for i := 0; i < scoreCount; i++ {
		h := 0.0
		if total.HessianSum != nil {
			h = total.HessianSum[i]
		}
		baseline += splitScore(total.GradientSum[i], h, total.Count, flags)
	}

	vals := tn.Values()
	gain := -baseline
	degenerate := false
	for c, cell := range cells {
		if cell.Count < minSamplesLeaf {
			degenerate = true
		}
		for i := 0; i < scoreCount; i++ {
			h := 0.0
			if cell.HessianSum != nil {
				h = cell.HessianSum[i]
			}
			vals[c*scoreCount+i] = leafValue(cell.GradientSum[i], h, flags)
			gain += splitScore(cell.GradientSum[i], h, cell.Count, flags)
		}
	}
	if degenerate || gain < 0 {
		gain = 0
	}
	return tn, gain, nil
}
