package boosting

import "github.com/ezoic/segboost/core/tensor"

// partitionSegment is one contiguous run of bins along the significant
// axis that a growth round may still split further.
type partitionSegment struct {
	lo, hi int
}

// PartitionOneDimensionalBoosting grows a single feature's bin histogram
// into up to cSplitsMax + 1 leaves: starting from the whole-axis
// segment, it repeatedly finds the highest-gain split among the
// segments still eligible to split (in the style of the teacher's
// findBestSplitForFeatureWithHistogram, reused unchanged per segment via
// searchBestSplit) and applies it, stopping when no remaining segment
// has a split that clears minSamplesLeaf/minHessian or when the split
// count reaches cSplitsMax. dimCount is the term's full axis count and
// axis is this feature's position within it; every other axis of the
// returned tensor stays undivided.
func PartitionOneDimensionalBoosting(bins []Bin, dimCount, axis, scoreCount int, flags TermBoostFlags, minSamplesLeaf, minHessian float64, cSplitsMax int) (*tensor.Tensor, float64, error) {
	withHessians := flags.NeedsHessians()
	if cSplitsMax < 0 {
		cSplitsMax = 0
	}

	segments := []partitionSegment{{0, len(bins)}}
	totalGain := 0.0

	for len(segments)-1 < cSplitsMax {
		bestSeg := -1
		var best splitSearchResult
		for i, seg := range segments {
			if seg.hi-seg.lo < 2 {
				continue
			}
			r := searchBestSplit(bins[seg.lo:seg.hi], scoreCount, flags, minSamplesLeaf, minHessian)
			if r.found && (bestSeg == -1 || r.gain > best.gain) {
				bestSeg = i
				best = r
			}
		}
		if bestSeg == -1 {
			break
		}

		seg := segments[bestSeg]
		mid := seg.lo + best.split + 1
		grown := make([]partitionSegment, 0, len(segments)+1)
		grown = append(grown, segments[:bestSeg]...)
		grown = append(grown, partitionSegment{seg.lo, mid}, partitionSegment{mid, seg.hi})
		grown = append(grown, segments[bestSeg+1:]...)
		segments = grown
		totalGain += best.gain
	}

	tn, err := tensor.Allocate(dimCount, scoreCount)
	if err != nil {
		return nil, 0, err
	}

	k := len(segments) - 1
	if k > 0 {
		if err := tn.SetCountDivisions(axis, k); err != nil {
			return nil, 0, err
		}
		divs := tn.Divisions(axis)
		for i := 0; i < k; i++ {
			divs[i] = segments[i].hi - 1
		}
	}

	if err := tn.EnsureValueCapacity(tn.ValueCount()); err != nil {
		return nil, 0, err
	}
	vals := tn.Values()
	for i, seg := range segments {
		total := sumBins(bins[seg.lo:seg.hi], scoreCount, withHessians)
		for s := 0; s < scoreCount; s++ {
			h := 0.0
			if total.HessianSum != nil {
				h = total.HessianSum[s]
			}
			vals[i*scoreCount+s] = leafValue(total.GradientSum[s], h, flags)
		}
	}
	return tn, totalGain, nil
}
