// Package guard implements ordered fail-fast argument validation around
// callable values. A wrap carries a list of named guards; at call time each
// guard sees the full argument set and either passes or fails with a
// message. The first failure stops evaluation and the configured failure
// behavior decides what the caller sees.
package guard

import (
	"github.com/skuldlang/skuld/internal/evaluator"
)

// DefaultFailMessage is used when a guard fails without supplying its own
// message.
const DefaultFailMessage = "Guard clause failed"

// Result is the outcome of one guard check. There is no truthiness
// involved: a guard either passes or fails with a message. A guard that
// itself raises an error reports it through Propagate and the raised error
// becomes the call result, bypassing the failure behavior.
type Result struct {
	failed  bool
	message string
	raised  evaluator.Object
}

func Pass() Result { return Result{} }

func Fail(message string) Result {
	if message == "" {
		message = DefaultFailMessage
	}
	return Result{failed: true, message: message}
}

// Propagate carries an error the guard raised while checking.
func Propagate(err evaluator.Object) Result {
	return Result{failed: true, raised: err}
}

func (r Result) Passed() bool             { return !r.failed }
func (r Result) Message() string          { return r.message }
func (r Result) Raised() evaluator.Object { return r.raised }
