package boosting

import (
	"math"

	"github.com/ezoic/segboost/core/tensor"
	scigoerrors "github.com/ezoic/segboost/pkg/errors"
	"github.com/ezoic/segboost/pkg/log"
)

// IllegalGain is the sentinel returned in place of a round's gain when
// the update tensor's final multiply produced a non-finite score, or
// the accumulated gain itself overflowed. Callers must not use it for
// early-stopping comparisons; a caller that sees it should treat the
// round as having made no measurable progress.
var IllegalGain = math.Inf(-1)

// ErrorCode is the stable boundary return value GenerateTermUpdate
// reports alongside its Go error, matching the four-value taxonomy a
// caller outside this package's error types can still switch on.
type ErrorCode = scigoerrors.Code

const (
	// ErrorNone indicates success.
	ErrorNone = scigoerrors.None
	// ErrorIllegalParamVal indicates a bad handle or an out-of-range
	// parameter.
	ErrorIllegalParamVal = scigoerrors.IllegalParamVal
	// ErrorOutOfMemory indicates an allocation or overflow failure
	// anywhere in the call.
	ErrorOutOfMemory = scigoerrors.OutOfMemory
	// ErrorUnexpectedInternal indicates an unsupported path or an
	// invariant violation.
	ErrorUnexpectedInternal = scigoerrors.UnexpectedInternal
)

// smallestPositiveNormal is the smallest positive IEEE-754 double that
// is not subnormal (2^-1022). minHessian is floored to this, not to
// math.SmallestNonzeroFloat64 (the smallest subnormal, 2^-1074): a
// subnormal floor still lets denormalized arithmetic through the
// Newton-gain Hessian check it exists to guard.
const smallestPositiveNormal = 2.2250738585072014e-308

// UpdateParams configures one GenerateTermUpdate call, the Go analogue
// of the teacher's TrainingParams: a plain value type the caller fills
// in and passes by value, with defaulting left to the caller rather
// than a functional-options constructor, since every field here is
// mandatory per round (there is no sensible zero value for a learning
// rate).
type UpdateParams struct {
	LearningRate   float64
	MinSamplesLeaf float64
	MinHessian     float64
	// LeavesMaxPerDim caps the number of leaves (splits + 1) the
	// one-dimensional partitioner may introduce along each dimension,
	// keyed by the term's FeatureIndices position (the axis position
	// within the term, not the feature index stored there). A nil
	// LeavesMaxPerDim, or a position past its end, means "no
	// leaves-max given for this dimension": per spec.md §4.3, a term whose sole real dimension
	// has no leaves-max collapses to a single bin rather than growing
	// unboundedly.
	LeavesMaxPerDim []int
	Flags           TermBoostFlags
}

// leavesMaxFor returns the leaves-max configured for the feature at the
// given FeatureIndices position, and whether one was given at all.
func leavesMaxFor(leavesMaxPerDim []int, featureIndex int) (int, bool) {
	if featureIndex < 0 || featureIndex >= len(leavesMaxPerDim) {
		return 0, false
	}
	return leavesMaxPerDim[featureIndex], true
}

// GenerateTermUpdate computes one term's update tensor for one boosting
// round: it validates parameters, analyzes the term's real dimensions
// and monotone constraints, bins every inner bag's samples, partitions
// each bag independently (single-leaf/one/two-dimensional greedy
// search, or uniform random splits under FlagRandomSplits), unions the
// bags' partitions into the shell's term-update tensor, averages over
// bags, scales by the learning rate (halved for two-score models,
// matching the symmetric log-odds parameterization), and commits the
// term index to the shell. shell is mutated in place and its returned
// tensor is only valid until the next call that reuses it.
//
// Its fourth return value is the idiomatic Go error; the third is that
// error classified into the stable four-value ErrorCode boundary
// spec.md §6 describes, computed once at this single return point
// regardless of which branch below produced the error.
func GenerateTermUpdate(shell *BoosterShell, term *Term, subsets [][]Sample, scoreCount int, params UpdateParams, rng RNG) (tn *tensor.Tensor, gain float64, code ErrorCode, err error) {
	defer func() {
		code = scigoerrors.ToCode(err)
	}()

	if shell == nil {
		err = scigoerrors.NewValueError("GenerateTermUpdate", "shell must not be nil")
		return
	}
	if term == nil {
		err = scigoerrors.NewValueError("GenerateTermUpdate", "term must not be nil")
		return
	}
	if scoreCount < 0 {
		err = scigoerrors.NewValueError("GenerateTermUpdate", "scoreCount must be >= 0")
		return
	}
	if len(subsets) == 0 {
		err = scigoerrors.NewValueError("GenerateTermUpdate", "at least one inner bag subset is required")
		return
	}

	shell.SetCurrentTerm(term.Index)

	if scoreCount == 0 {
		// A zero-length score vector carries no gradients to boost:
		// per spec.md §4.3, this is a degenerate success, not an
		// error. There is nothing to allocate a tensor over (every
		// leaf would hold zero values), so tn stays nil.
		gain = 0
		return
	}

	learningRate := params.LearningRate
	if math.IsNaN(learningRate) || math.IsInf(learningRate, 0) {
		log.CountedWarn(shell.Warnings(), "non-finite learning rate, disabling this round's update", map[string]interface{}{
			"term": shell.CurrentTerm(),
		})
		learningRate = 0
	}

	minSamplesLeaf := params.MinSamplesLeaf
	if minSamplesLeaf < 0 {
		minSamplesLeaf = 0
	}

	minHessian := params.MinHessian
	if math.IsNaN(minHessian) || minHessian <= 0 {
		minHessian = smallestPositiveNormal
	}

	dimCount := term.CountDimensions()
	real := term.AnalyzeRealDimensions()
	collapse := shouldCollapse(real, params.LeavesMaxPerDim, term)
	if real.Count > 2 && !collapse && !params.Flags.UseRandomSplits() {
		err = scigoerrors.NewInternalError("GenerateTermUpdate", "greedy search only supports 1 or 2 real dimensions; set FlagRandomSplits for higher-dimensional terms")
		return
	}

	totalSamples := 0
	for _, s := range subsets {
		totalSamples += len(s)
	}

	termUpdate, allocErr := shell.TermUpdate(dimCount, scoreCount)
	if allocErr != nil {
		err = scigoerrors.Wrapf(allocErr, "GenerateTermUpdate: allocate term update")
		return
	}

	if totalSamples == 0 {
		tn, gain = termUpdate, 0
		return
	}

	withHessians := params.Flags.NeedsHessians()
	multiple := learningRate
	if scoreCount == 2 {
		multiple *= 0.5
	}

	totalGain := 0.0
	for _, samples := range subsets {
		bagTensor, bagGain, bagErr := boostOneSubset(term, dimCount, real, collapse, params.LeavesMaxPerDim, samples, scoreCount, params.Flags, withHessians, minSamplesLeaf, minHessian, rng)
		if bagErr != nil {
			err = scigoerrors.Wrapf(bagErr, "GenerateTermUpdate: inner bag")
			return
		}
		totalGain += bagGain

		innerTn, innerErr := shell.InnerTermUpdate(dimCount, scoreCount)
		if innerErr != nil {
			err = scigoerrors.Wrapf(innerErr, "GenerateTermUpdate: inner scratch")
			return
		}
		if copyErr := innerTn.Copy(bagTensor); copyErr != nil {
			err = scigoerrors.Wrapf(copyErr, "GenerateTermUpdate: copy inner bag")
			return
		}
		if addErr := termUpdate.Add(innerTn); addErr != nil {
			err = scigoerrors.Wrapf(addErr, "GenerateTermUpdate: accumulate inner bag")
			return
		}
	}

	combined := multiple / float64(len(subsets))
	if termUpdate.MultiplyAndCheckForIssues(combined) {
		log.CountedWarn(shell.Warnings(), "term update produced non-finite scores, resetting", map[string]interface{}{
			"term": shell.CurrentTerm(),
		})
		termUpdate.Reset()
		if resetErr := termUpdate.SetCountDimensions(dimCount); resetErr != nil {
			err = scigoerrors.Wrapf(resetErr, "GenerateTermUpdate: reset after poisoning")
			return
		}
		tn, gain = termUpdate, IllegalGain
		return
	}

	averageGain := totalGain / float64(len(subsets))
	if math.IsNaN(averageGain) || math.IsInf(averageGain, 0) {
		averageGain = IllegalGain
	}
	tn, gain = termUpdate, averageGain
	return
}

// shouldCollapse implements spec.md §4.3/§4.4's rule for falling back to
// the single-leaf path regardless of real dimension count: a term with
// exactly one real dimension collapses when that dimension has no
// leaves-max configured (nothing to bound its growth), and a term with
// more than one real dimension collapses when any of them carries a
// monotone constraint (the greedy multi-axis searches below don't
// reason about monotonicity, so a monotone multi-dimensional term has
// no safe partitioner to dispatch to).
func shouldCollapse(real RealDimensions, leavesMaxPerDim []int, term *Term) bool {
	switch {
	case real.Count == 1:
		_, ok := leavesMaxFor(leavesMaxPerDim, real.SignificantAxis)
		return !ok
	case real.Count > 1:
		return real.HasMonotone
	default:
		return false
	}
}

// boostOneSubset dispatches a single inner bag's samples to the
// single-leaf, one-dimensional, two-dimensional, or random partitioner,
// based on the term's real-dimension analysis, the monotone-collapse
// rule, and the round's flags.
func boostOneSubset(term *Term, dimCount int, real RealDimensions, collapse bool, leavesMaxPerDim []int, samples []Sample, scoreCount int, flags TermBoostFlags, withHessians bool, minSamplesLeaf, minHessian float64, rng RNG) (*tensor.Tensor, float64, error) {
	if collapse || real.Count == 0 {
		return boostSingleLeaf(dimCount, samples, scoreCount, flags, withHessians)
	}

	bins, shape, err := BinSumsBoosting(term, samples, scoreCount, withHessians)
	if err != nil {
		return nil, 0, err
	}

	if flags.UseRandomSplits() {
		if rng == nil {
			rng = NewRNG()
		}
		return PartitionRandomBoosting(bins, shape, scoreCount, flags, rng, minSamplesLeaf)
	}

	switch real.Count {
	case 1:
		axis := real.SignificantAxis
		leavesMax, _ := leavesMaxFor(leavesMaxPerDim, axis)
		cSplitsMax := leavesMax - 1
		if cSplitsMax < 0 {
			cSplitsMax = 0
		}
		return PartitionOneDimensionalBoosting(bins, dimCount, axis, scoreCount, flags, minSamplesLeaf, minHessian, cSplitsMax)
	case 2:
		return PartitionTwoDimensionalBoosting(bins, shape, dimCount, real.Axes[0], real.Axes[1], scoreCount, flags, minSamplesLeaf, minHessian)
	default:
		return nil, 0, scigoerrors.NewInternalError("GenerateTermUpdate", "greedy search only supports 1 or 2 real dimensions")
	}
}

// boostSingleLeaf computes the single-leaf update for a term with no
// dispatchable real dimension this round: an intercept term (dimCount
// == 0), a term all of whose features happen to have a single bin, or
// a term collapsed per shouldCollapse. The returned tensor still has
// dimCount axes (all undivided) so it composes with terms that do have
// real dimensions in other rounds.
func boostSingleLeaf(dimCount int, samples []Sample, scoreCount int, flags TermBoostFlags, withHessians bool) (*tensor.Tensor, float64, error) {
	bin := NewBin(scoreCount, withHessians)
	for _, s := range samples {
		accumulateSample(&bin, s, withHessians)
	}
	tn, err := tensor.Allocate(dimCount, scoreCount)
	if err != nil {
		return nil, 0, err
	}
	if err := tn.EnsureValueCapacity(tn.ValueCount()); err != nil {
		return nil, 0, err
	}
	vals := tn.Values()
	for i := 0; i < scoreCount; i++ {
		h := 0.0
		if bin.HessianSum != nil {
			h = bin.HessianSum[i]
		}
		vals[i] = leafValue(bin.GradientSum[i], h, flags)
	}
	return tn, 0, nil
}
