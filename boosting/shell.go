package boosting

import (
	"github.com/ezoic/segboost/core/tensor"
	"github.com/ezoic/segboost/pkg/log"
)

// BoosterShell holds the per-booster scratch state GenerateTermUpdate
// reuses across rounds rather than reallocating: the round's update
// tensor, a scratch tensor for per-inner-bag work, the term currently
// being boosted, and the shared rate-limited warning counter. One shell
// belongs to exactly one boosting run; it is not safe for concurrent
// use by multiple goroutines racing on the same round.
type BoosterShell struct {
	termUpdate       *tensor.Tensor
	innerTermUpdate  *tensor.Tensor
	currentTermIndex int
	warnings         *log.Counter
}

// NewBoosterShell returns a shell with a fresh rate-limited warning
// counter, matching the original's per-process g_cLogGenerateTermUpdate
// budget.
func NewBoosterShell() *BoosterShell {
	return &BoosterShell{
		currentTermIndex: -1,
		warnings:         log.NewCounter(10),
	}
}

// TermUpdate returns the shell's round-update tensor, reallocating it
// only if it is too small for dmax/scoreCount, and resetting it
// in place otherwise.
func (s *BoosterShell) TermUpdate(dmax, scoreCount int) (*tensor.Tensor, error) {
	return s.scratch(&s.termUpdate, dmax, scoreCount)
}

// InnerTermUpdate returns the shell's scratch tensor used to build one
// inner bag's partition result before it is folded into TermUpdate.
func (s *BoosterShell) InnerTermUpdate(dmax, scoreCount int) (*tensor.Tensor, error) {
	return s.scratch(&s.innerTermUpdate, dmax, scoreCount)
}

func (s *BoosterShell) scratch(slot **tensor.Tensor, dmax, scoreCount int) (*tensor.Tensor, error) {
	existing := *slot
	if existing == nil || existing.Dmax() < dmax || existing.L() != scoreCount {
		tn, err := tensor.Allocate(dmax, scoreCount)
		if err != nil {
			return nil, err
		}
		*slot = tn
		return tn, nil
	}
	existing.Reset()
	if err := existing.SetCountDimensions(dmax); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetCurrentTerm records which term index the next GenerateTermUpdate
// call is boosting, used only for warning messages.
func (s *BoosterShell) SetCurrentTerm(index int) {
	s.currentTermIndex = index
}

// CurrentTerm returns the index set by SetCurrentTerm, or -1 if none.
func (s *BoosterShell) CurrentTerm() int {
	return s.currentTermIndex
}

// Warnings returns the shell's shared rate-limited warning counter.
func (s *BoosterShell) Warnings() *log.Counter {
	return s.warnings
}
