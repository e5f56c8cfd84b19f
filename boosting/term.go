package boosting

// MonotoneDirection constrains how a term's update may vary along one
// of its features.
type MonotoneDirection int8

const (
	// MonotoneNone applies no constraint.
	MonotoneNone MonotoneDirection = 0
	// MonotoneIncreasing requires the update to be non-decreasing along
	// the feature's bin order.
	MonotoneIncreasing MonotoneDirection = 1
	// MonotoneDecreasing requires the update to be non-increasing along
	// the feature's bin order.
	MonotoneDecreasing MonotoneDirection = -1
)

// Feature describes one axis a term is defined over: how many bins the
// binned data has along it, and any monotonicity constraint.
type Feature struct {
	CountBins int
	Monotone  MonotoneDirection
}

// Term is one additive-model term: an ordered list of feature indices
// (into the caller's feature set) this term's tensor is built over.
type Term struct {
	// Index is this term's position in the caller's term table, the
	// value GenerateTermUpdate commits to the shell's current-term slot
	// once its parameters pass validation.
	Index int
	// FeatureIndices names, in tensor-axis order, which feature each
	// tensor dimension corresponds to.
	FeatureIndices []int
	Features       []Feature
}

// CountDimensions returns the term's dimensionality (0 for an
// intercept-only term). This is the tensor's axis count D, and includes
// single-bin features: they still occupy a (trivial, zero-division)
// axis in the update tensor.
func (t *Term) CountDimensions() int {
	return len(t.FeatureIndices)
}

// CountRealDimensions returns the number of dimensions whose feature has
// more than one bin. Single-bin features contribute no split structure
// and are treated the same as an absent dimension during dispatch.
func (t *Term) CountRealDimensions() int {
	n := 0
	for _, f := range t.Features {
		if f.CountBins > 1 {
			n++
		}
	}
	return n
}

// RealDimensions is the result of a term's dimension analysis (spec.md
// §4.3 "Dimension analysis" / §4.4): which axes carry real split
// structure, and, when there is exactly one, its position and bin
// count for the direction-aware one-dimensional path.
type RealDimensions struct {
	// Count is the number of axes with more than one bin.
	Count int
	// Axes holds the axis positions of every real dimension, in
	// increasing order.
	Axes []int
	// SignificantAxis is Axes[0] when Count == 1, else -1.
	SignificantAxis int
	// SignificantBins is Features[SignificantAxis].CountBins when
	// Count == 1, else 0.
	SignificantBins int
	// HasMonotone reports whether any real dimension carries a
	// monotone constraint, the OR-union spec.md §4.4 describes.
	HasMonotone bool
}

// AnalyzeRealDimensions walks the term's features once, counting real
// dimensions and recording the single significant dimension's position
// and bin count when there is exactly one, plus whether any real
// dimension carries a monotone direction constraint.
func (t *Term) AnalyzeRealDimensions() RealDimensions {
	info := RealDimensions{SignificantAxis: -1}
	for i, f := range t.Features {
		if f.CountBins <= 1 {
			continue
		}
		info.Count++
		info.Axes = append(info.Axes, i)
		if f.Monotone != MonotoneNone {
			info.HasMonotone = true
		}
	}
	if info.Count == 1 {
		info.SignificantAxis = info.Axes[0]
		info.SignificantBins = t.Features[info.SignificantAxis].CountBins
	}
	return info
}
