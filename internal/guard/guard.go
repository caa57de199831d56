package guard

import (
	"github.com/skuldlang/skuld/internal/evaluator"
)

// Call is the argument set a guard inspects: the positional values of the
// pending call plus the wrapped function's parameter names, so guards can
// address arguments by name.
type Call struct {
	Args   []evaluator.Object
	Params []string
}

// Arg extracts an argument by parameter name, falling back to the given
// position when the name is unknown. Pass a negative position to require
// the name.
func (c Call) Arg(name string, pos int) (evaluator.Object, bool) {
	for i, p := range c.Params {
		if p == name && i < len(c.Args) {
			return c.Args[i], true
		}
	}
	if pos >= 0 && pos < len(c.Args) {
		return c.Args[pos], true
	}
	return nil, false
}

// Guard is one named predicate over a call's arguments.
type Guard struct {
	Name  string
	Check func(Call) Result
}
