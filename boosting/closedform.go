package boosting

// computeSinglePartitionUpdate returns the Newton-step leaf value
// -gradientSum/hessianSum for one score dimension, falling back to the
// negative gradient sum when the Hessian sum is zero (a pure leaf with
// no curvature information, or Newton updates disabled upstream).
func computeSinglePartitionUpdate(gradientSum, hessianSum float64) float64 {
	if hessianSum == 0 {
		return -gradientSum
	}
	return -gradientSum / hessianSum
}

// computeSinglePartitionUpdateGradientSum returns the gradient-sum leaf
// value used when FlagDisableNewtonUpdate (or FlagGradientSums) is set:
// plain negative gradient sum, ignoring curvature entirely.
func computeSinglePartitionUpdateGradientSum(gradientSum float64) float64 {
	return -gradientSum
}

// splitGain returns the single-split gain contribution
// gradientSum^2/hessianSum for one side of a candidate split, the term
// that featured in both the Newton gain formula and (summed over both
// sides minus the parent's own term) the total gain of a split.
func splitGain(gradientSum, hessianSum float64) float64 {
	if hessianSum <= 0 {
		return 0
	}
	return gradientSum * gradientSum / hessianSum
}

// splitGainSum is the gradient-sum approximation to splitGain used when
// FlagDisableNewtonGain is set: the squared gradient sum scaled by the
// bin count instead of the Hessian sum, so leaves with more samples
// don't get an inflated gain purely from Hessian noise.
func splitGainSum(gradientSum float64, count float64) float64 {
	if count <= 0 {
		return 0
	}
	return gradientSum * gradientSum / count
}
