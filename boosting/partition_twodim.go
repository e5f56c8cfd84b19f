package boosting

import "github.com/ezoic/segboost/core/tensor"

// PartitionTwoDimensionalBoosting searches both real features' marginal
// histograms for the single best axis-aligned split (a true 2D grid
// search is cartesian-prohibitive for deep terms, so like the teacher's
// histogram split finder this picks whichever one-axis cut gains the
// most) and returns the update tensor for it. dimCount is the term's
// full axis count; axis0/axis1 are the two real features' positions
// within it. bins/shape span all dimCount axes (including any trivial
// single-bin ones), so marginalizeAxis's stride arithmetic is what lets
// axis0/axis1 sit anywhere in that larger shape.
func PartitionTwoDimensionalBoosting(bins []Bin, shape []int, dimCount, axis0, axis1, scoreCount int, flags TermBoostFlags, minSamplesLeaf, minHessian float64) (*tensor.Tensor, float64, error) {
	withHessians := flags.NeedsHessians()

	marg0 := marginalizeAxis(bins, shape, axis0, scoreCount, withHessians)
	marg1 := marginalizeAxis(bins, shape, axis1, scoreCount, withHessians)
	result0 := searchBestSplit(marg0, scoreCount, flags, minSamplesLeaf, minHessian)
	result1 := searchBestSplit(marg1, scoreCount, flags, minSamplesLeaf, minHessian)

	tn, err := tensor.Allocate(dimCount, scoreCount)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case !result0.found && !result1.found:
		total := sumBins(bins, scoreCount, withHessians)
		vals := tn.Values()
		for i := 0; i < scoreCount; i++ {
			h := 0.0
			if total.HessianSum != nil {
				h = total.HessianSum[i]
			}
			vals[i] = leafValue(total.GradientSum[i], h, flags)
		}
		return tn, 0, nil

	case result0.found && (!result1.found || result0.gain >= result1.gain):
		if err := tn.SetCountDivisions(axis0, 1); err != nil {
			return nil, 0, err
		}
		tn.Divisions(axis0)[0] = result0.split
		if err := tn.EnsureValueCapacity(tn.ValueCount()); err != nil {
			return nil, 0, err
		}
		vals := tn.Values()
		for i := 0; i < scoreCount; i++ {
			lh, rh := 0.0, 0.0
			if withHessians {
				lh, rh = result0.leftHess[i], result0.rightHess[i]
			}
			vals[i] = leafValue(result0.leftGrad[i], lh, flags)
			vals[scoreCount+i] = leafValue(result0.rightGrad[i], rh, flags)
		}
		return tn, result0.gain, nil

	default:
		if err := tn.SetCountDivisions(axis1, 1); err != nil {
			return nil, 0, err
		}
		tn.Divisions(axis1)[0] = result1.split
		if err := tn.EnsureValueCapacity(tn.ValueCount()); err != nil {
			return nil, 0, err
		}
		vals := tn.Values()
		for i := 0; i < scoreCount; i++ {
			lh, rh := 0.0, 0.0
			if withHessians {
				lh, rh = result1.leftHess[i], result1.rightHess[i]
			}
			vals[i] = leafValue(result1.leftGrad[i], lh, flags)
			vals[scoreCount+i] = leafValue(result1.rightGrad[i], rh, flags)
		}
		return tn, result1.gain, nil
	}
}
