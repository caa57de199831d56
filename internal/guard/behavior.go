package guard

import (
	"github.com/skuldlang/skuld/internal/evaluator"
)

// Behavior decides what a call produces when a guard fails. The set is
// closed: Raise, Handler or Sentinel.
type Behavior interface {
	isBehavior()
}

// Raise turns the failure into a catchable runtime error of the given kind.
type Raise struct {
	Kind string
}

// Handler invokes a callable with the failure message followed by the
// original arguments; its return value becomes the call result.
type Handler struct {
	Fn evaluator.Object
}

// Sentinel returns a fixed value; the wrapped function is never invoked.
type Sentinel struct {
	Value evaluator.Object
}

func (Raise) isBehavior()    {}
func (Handler) isBehavior()  {}
func (Sentinel) isBehavior() {}

// DefaultBehavior raises a GuardFailure error.
func DefaultBehavior() Behavior {
	return Raise{Kind: evaluator.KindGuardFailure}
}
