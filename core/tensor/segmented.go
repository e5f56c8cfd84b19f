// Package tensor implements the segmented tensor: a compressed,
// piecewise-constant representation of a function from an N-dimensional
// integer bin coordinate space into a fixed-length score vector, and its
// algebra (Copy, Reset, Multiply, Expand, Add, AddExpanded). It is the
// hard core of the boosting update engine in package boosting, which
// composes per-round update tensors out of these primitives.
//
// The type plays the role the teacher's core/tensor.Tensor played for a
// dense 2D matrix wrapping gonum/mat: an exclusively-owned, explicitly
// growable buffer type with errors.* constructors for every failure
// path. Here the buffer is a flat []float64 plus one []int per axis
// rather than a mat.Dense, because the grid's shape is itself part of
// the mutable state (each axis's division count can change every
// round), which mat.Dense cannot represent.
package tensor

import (
	"math"

	"github.com/ezoic/segboost/core/overflow"
	scigoerrors "github.com/ezoic/segboost/pkg/errors"
)

const (
	initialDivisionCapacity = 1
	initialValueCapacityMul = 2
)

// axis holds one dimension's division points: a strictly increasing
// sequence of coordinates at which the piecewise-constant function may
// change value, plus the allocated capacity backing it.
type axis struct {
	divisions []int
	divCap    int
	k         int
}

// Tensor is a segmented piecewise-constant tensor over a D-dimensional
// integer bin grid, with score vectors of length L per segment.
type Tensor struct {
	l        int
	dmax     int
	d        int
	dims     []axis
	values   []float64
	valCap   int
	expanded bool
}

// Allocate produces a tensor with D == Dmax, every axis empty (K_i ==
// 0), and a zeroed single segment of L scores, per spec.md §4.2.
func Allocate(dmax, l int) (*Tensor, error) {
	if dmax < 0 {
		return nil, scigoerrors.NewValueError("Allocate", "cDimensionsMax must be >= 0")
	}
	if l < 1 {
		return nil, scigoerrors.NewValueError("Allocate", "cVectorLength must be >= 1")
	}

	valCap, overflowed := overflow.MultiplyInt(l, initialValueCapacityMul)
	if overflowed {
		return nil, scigoerrors.NewOverflowError("Allocate", "cVectorLength * k_initialValueCapacity overflows")
	}

	dims := make([]axis, dmax)
	for i := range dims {
		dims[i] = axis{
			divisions: make([]int, initialDivisionCapacity),
			divCap:    initialDivisionCapacity,
		}
	}

	return &Tensor{
		l:      l,
		dmax:   dmax,
		d:      dmax,
		dims:   dims,
		values: make([]float64, valCap),
		valCap: valCap,
	}, nil
}

// Free releases the tensor's owned buffers. Go's garbage collector
// reclaims the backing arrays once no reference remains; Free exists so
// callers can make the teardown point explicit and symmetrical with
// Allocate, matching the ownership discipline of spec.md §3.
func (t *Tensor) Free() {
	t.values = nil
	t.valCap = 0
	t.dims = nil
	t.d = 0
}

// L returns the score vector length.
func (t *Tensor) L() int { return t.l }

// D returns the current active dimension count.
func (t *Tensor) D() int { return t.d }

// Dmax returns the maximum dimension count fixed at allocation.
func (t *Tensor) Dmax() int { return t.dmax }

// Expanded reports whether the tensor is densified over the full grid.
func (t *Tensor) Expanded() bool { return t.expanded }

// CountDivisions returns K_i for axis i.
func (t *Tensor) CountDivisions(i int) int { return t.dims[i].k }

// Divisions returns axis i's meaningful division points. The returned
// slice aliases internal storage and must not be retained past the next
// mutating call.
func (t *Tensor) Divisions(i int) []int { return t.dims[i].divisions[:t.dims[i].k] }

// segmentCount returns Π(K_i + 1) over the active dimensions.
func (t *Tensor) segmentCount() int {
	c := 1
	for i := 0; i < t.d; i++ {
		c *= t.dims[i].k + 1
	}
	return c
}

// ValueCount returns L * Π(K_i + 1), the number of meaningful score
// slots, per invariant 2 of spec.md §3.
func (t *Tensor) ValueCount() int { return t.l * t.segmentCount() }

// Values returns the meaningful scores. The returned slice aliases
// internal storage and must not be retained past the next mutating call.
func (t *Tensor) Values() []float64 { return t.values[:t.ValueCount()] }

// SetCountDimensions sets the active dimension count. It does not touch
// any per-dimension data.
func (t *Tensor) SetCountDimensions(d int) error {
	if d < 0 || d > t.dmax {
		return scigoerrors.NewValueError("SetCountDimensions", "cDimensions must be in [0, cDimensionsMax]")
	}
	t.d = d
	return nil
}

// Reset zeros every active axis's division count and the single base
// segment's scores, and clears expanded. Capacities are not reduced.
func (t *Tensor) Reset() {
	for i := 0; i < t.d; i++ {
		t.dims[i].k = 0
	}
	for i := 0; i < t.l; i++ {
		t.values[i] = 0
	}
	t.expanded = false
}

// SetCountDivisions grows axis i's division buffer to at least k
// entries with a 1.5x amortized policy, preserving existing contents,
// then records K_i := k without initializing any new entries (the
// caller writes them). It fails without mutating the tensor if growth
// would overflow.
func (t *Tensor) SetCountDivisions(i, k int) error {
	if i < 0 || i >= t.d {
		return scigoerrors.NewValueError("SetCountDivisions", "iDimension out of range")
	}
	dim := &t.dims[i]
	if t.expanded && k > dim.k {
		return scigoerrors.NewInternalError("SetCountDivisions", "cannot grow divisions past an expanded tensor's bins")
	}
	if dim.divCap < k {
		newCap, overflowed := overflow.GrowthCapacity(k)
		if overflowed {
			return scigoerrors.NewOverflowError("SetCountDivisions", "cNewDivisionCapacity overflows")
		}
		newBuf := make([]int, newCap)
		copy(newBuf, dim.divisions[:dim.k])
		dim.divisions = newBuf
		dim.divCap = newCap
	}
	dim.k = k
	return nil
}

// EnsureValueCapacity grows the values buffer to at least n slots with
// the same 1.5x amortized policy, preserving existing contents.
func (t *Tensor) EnsureValueCapacity(n int) error {
	if t.expanded && n > t.valCap {
		return scigoerrors.NewInternalError("EnsureValueCapacity", "cannot grow values past an expanded tensor's bins")
	}
	if t.valCap < n {
		newCap, overflowed := overflow.GrowthCapacity(n)
		if overflowed {
			return scigoerrors.NewOverflowError("EnsureValueCapacity", "cNewValueCapacity overflows")
		}
		newBuf := make([]float64, newCap)
		copy(newBuf, t.values[:t.valCap])
		t.values = newBuf
		t.valCap = newCap
	}
	return nil
}

// Copy overwrites t to equal rhs structurally and numerically. Both
// tensors must have the same D.
func (t *Tensor) Copy(rhs *Tensor) error {
	if t.d != rhs.d {
		return scigoerrors.NewDimensionError("Copy", rhs.d, t.d, -1)
	}
	for i := 0; i < t.d; i++ {
		k := rhs.dims[i].k
		if err := t.SetCountDivisions(i, k); err != nil {
			return scigoerrors.Wrapf(err, "Copy: axis %d", i)
		}
		copy(t.dims[i].divisions[:k], rhs.dims[i].divisions[:k])
	}
	n := rhs.ValueCount()
	if err := t.EnsureValueCapacity(n); err != nil {
		return scigoerrors.Wrapf(err, "Copy: values")
	}
	copy(t.values[:n], rhs.values[:n])
	t.expanded = rhs.expanded
	return nil
}

// Multiply scales every meaningful score by v.
func (t *Tensor) Multiply(v float64) {
	n := t.ValueCount()
	for i := 0; i < n; i++ {
		t.values[i] *= v
	}
}

// MultiplyAndCheckForIssues scales every meaningful score by v and
// reports whether any resulting score is NaN or +/-Inf.
func (t *Tensor) MultiplyAndCheckForIssues(v float64) bool {
	n := t.ValueCount()
	bad := false
	for i := 0; i < n; i++ {
		t.values[i] *= v
		if math.IsNaN(t.values[i]) || math.IsInf(t.values[i], 0) {
			bad = true
		}
	}
	return bad
}

// upperBound returns the count of divisions[:k] that are <= coord: the
// index of the segment that coord falls into, since segment j covers
// coordinates in [divisions[j-1], divisions[j]).
func upperBound(divisions []int, coord int) int {
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

// Expand densifies the tensor onto the full rectangular grid of size
// Π binsPerDim[i]. Idempotent when already expanded.
//
// Rather than the source implementation's in-place reverse-order
// traversal (load-bearing only because the destination buffer aliases
// the source buffer mid-growth), this builds the dense grid into a
// fresh local buffer and swaps it in: correctness is identical and the
// result is immune to the aliasing hazard entirely, at the cost of one
// full-size allocation per Expand call. See DESIGN.md.
func (t *Tensor) Expand(binsPerDim []int) error {
	if t.d == 0 {
		return scigoerrors.NewValueError("Expand", "cannot expand a zero-dimensional tensor")
	}
	if len(binsPerDim) != t.d {
		return scigoerrors.NewDimensionError("Expand", t.d, len(binsPerDim), -1)
	}
	if t.expanded {
		return nil
	}

	oldSizes := make([]int, t.d)
	newSizes := make([]int, t.d)
	total := 1
	for i := 0; i < t.d; i++ {
		if binsPerDim[i] < 1 {
			return scigoerrors.NewValueError("Expand", "binsPerDim entries must be >= 1")
		}
		oldSizes[i] = t.dims[i].k + 1
		newSizes[i] = binsPerDim[i]
		v, overflowed := overflow.MultiplyInt(total, newSizes[i])
		if overflowed {
			return scigoerrors.NewOverflowError("Expand", "Π binsPerDim overflows")
		}
		total = v
	}
	totalValues, overflowed := overflow.MultiplyInt(total, t.l)
	if overflowed {
		return scigoerrors.NewOverflowError("Expand", "Π binsPerDim * cVectorLength overflows")
	}

	newValues := make([]float64, totalValues)
	coords := make([]int, t.d)
	for linear := 0; linear < total; linear++ {
		rem := linear
		for i := t.d - 1; i >= 0; i-- {
			coords[i] = rem % newSizes[i]
			rem /= newSizes[i]
		}
		flatOld := 0
		for i := 0; i < t.d; i++ {
			seg := upperBound(t.dims[i].divisions[:t.dims[i].k], coords[i])
			flatOld = flatOld*oldSizes[i] + seg
		}
		dstOff := linear * t.l
		srcOff := flatOld * t.l
		copy(newValues[dstOff:dstOff+t.l], t.values[srcOff:srcOff+t.l])
	}

	if err := t.EnsureValueCapacity(totalValues); err != nil {
		return scigoerrors.Wrapf(err, "Expand: values")
	}
	copy(t.values[:totalValues], newValues)

	for i := 0; i < t.d; i++ {
		newK := binsPerDim[i] - 1
		if err := t.SetCountDivisions(i, newK); err != nil {
			return scigoerrors.Wrapf(err, "Expand: axis %d", i)
		}
		for j := 0; j < newK; j++ {
			t.dims[i].divisions[j] = j
		}
	}
	t.expanded = true
	return nil
}

// mergeDivisions computes the sorted union of two strictly-increasing
// division sequences and, for each of the len(union)+1 resulting
// segments, the source segment index it maps to in a and in b. segA and
// segB both have length len(union)+1.
func mergeDivisions(a []int, b []int) (union, segA, segB []int) {
	ka, kb := len(a), len(b)
	union = make([]int, 0, ka+kb)
	segA = make([]int, 0, ka+kb+1)
	segB = make([]int, 0, ka+kb+1)

	curA, curB := 0, 0
	segA = append(segA, curA)
	segB = append(segB, curB)

	ia, ib := 0, 0
	for ia < ka || ib < kb {
		var d int
		advanceA, advanceB := false, false
		switch {
		case ia < ka && ib < kb && a[ia] == b[ib]:
			d = a[ia]
			advanceA, advanceB = true, true
		case ia < ka && (ib >= kb || a[ia] < b[ib]):
			d = a[ia]
			advanceA = true
		default:
			d = b[ib]
			advanceB = true
		}
		if advanceA {
			ia++
			curA++
		}
		if advanceB {
			ib++
			curB++
		}
		union = append(union, d)
		segA = append(segA, curA)
		segB = append(segB, curB)
	}
	return union, segA, segB
}

// Add merges rhs's segmentation into t's segmentation along every axis
// by a per-axis sorted union of division points, then overwrites values
// so each resulting segment's score is the sum of the source segments
// that contain it. Both operands must have the same D and L.
func (t *Tensor) Add(rhs *Tensor) error {
	if t.d != rhs.d {
		return scigoerrors.NewDimensionError("Add", rhs.d, t.d, -1)
	}
	if t.l != rhs.l {
		return scigoerrors.NewDimensionError("Add", rhs.l, t.l, -1)
	}

	if t.d == 0 {
		for i := 0; i < t.l; i++ {
			t.values[i] += rhs.values[i]
		}
		return nil
	}

	unionDivs := make([][]int, t.d)
	segThis := make([][]int, t.d)
	segRhs := make([][]int, t.d)
	newSizes := make([]int, t.d)
	thisSizes := make([]int, t.d)
	rhsSizes := make([]int, t.d)

	for i := 0; i < t.d; i++ {
		u, sa, sb := mergeDivisions(t.dims[i].divisions[:t.dims[i].k], rhs.dims[i].divisions[:rhs.dims[i].k])
		unionDivs[i] = u
		segThis[i] = sa
		segRhs[i] = sb
		newSizes[i] = len(u) + 1
		thisSizes[i] = t.dims[i].k + 1
		rhsSizes[i] = rhs.dims[i].k + 1
	}

	totalNewSegs := 1
	for _, s := range newSizes {
		v, overflowed := overflow.MultiplyInt(totalNewSegs, s)
		if overflowed {
			return scigoerrors.NewOverflowError("Add", "Π new segment counts overflows")
		}
		totalNewSegs = v
	}
	totalNewValues, overflowed := overflow.MultiplyInt(totalNewSegs, t.l)
	if overflowed {
		return scigoerrors.NewOverflowError("Add", "Π new segment counts * cVectorLength overflows")
	}

	newValues := make([]float64, totalNewValues)
	coords := make([]int, t.d)
	for linear := 0; linear < totalNewSegs; linear++ {
		rem := linear
		for i := t.d - 1; i >= 0; i-- {
			coords[i] = rem % newSizes[i]
			rem /= newSizes[i]
		}
		flatThis, flatRhs := 0, 0
		for i := 0; i < t.d; i++ {
			flatThis = flatThis*thisSizes[i] + segThis[i][coords[i]]
			flatRhs = flatRhs*rhsSizes[i] + segRhs[i][coords[i]]
		}
		dstOff := linear * t.l
		srcThisOff := flatThis * t.l
		srcRhsOff := flatRhs * t.l
		for s := 0; s < t.l; s++ {
			newValues[dstOff+s] = t.values[srcThisOff+s] + rhs.values[srcRhsOff+s]
		}
	}

	for i := 0; i < t.d; i++ {
		if err := t.SetCountDivisions(i, len(unionDivs[i])); err != nil {
			return scigoerrors.Wrapf(err, "Add: axis %d", i)
		}
		copy(t.dims[i].divisions[:len(unionDivs[i])], unionDivs[i])
	}
	if err := t.EnsureValueCapacity(totalNewValues); err != nil {
		return scigoerrors.Wrapf(err, "Add: values")
	}
	copy(t.values[:totalNewValues], newValues)
	return nil
}

// AddExpanded element-wise adds L * Π(K_i + 1) scores from src into an
// already-expanded tensor. Requires Expanded() == true.
func (t *Tensor) AddExpanded(src []float64) error {
	if !t.expanded {
		return scigoerrors.NewInternalError("AddExpanded", "tensor must be expanded")
	}
	n := t.ValueCount()
	if len(src) < n {
		return scigoerrors.NewDimensionError("AddExpanded", n, len(src), -1)
	}
	for i := 0; i < n; i++ {
		t.values[i] += src[i]
	}
	return nil
}

// IsEqual reports structural and numerical equality: same D, same K_i,
// same division sequences, same meaningful scores. Debug/test use only.
func (t *Tensor) IsEqual(rhs *Tensor) bool {
	if t.d != rhs.d || t.l != rhs.l {
		return false
	}
	for i := 0; i < t.d; i++ {
		if t.dims[i].k != rhs.dims[i].k {
			return false
		}
		for j := 0; j < t.dims[i].k; j++ {
			if t.dims[i].divisions[j] != rhs.dims[i].divisions[j] {
				return false
			}
		}
	}
	n := t.ValueCount()
	for i := 0; i < n; i++ {
		if t.values[i] != rhs.values[i] {
			return false
		}
	}
	return true
}
