package guard

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/skuldlang/skuld/internal/ast"
	"github.com/skuldlang/skuld/internal/evaluator"
)

// Runtime wraps callables with guard checking. Log, when set, receives one
// record per guard failure before the behavior is applied.
type Runtime struct {
	Eval *evaluator.Evaluator
	Log  io.Writer
}

// Wrap returns a callable that evaluates the guards strictly in the given
// order on every call. The first failure short-circuits the rest and the
// behavior decides the result; when every guard passes, the wrapped
// function runs with the original arguments and its errors propagate
// untouched.
func (r *Runtime) Wrap(fn evaluator.Object, guards []Guard, behavior Behavior) *evaluator.WrappedFunction {
	if behavior == nil {
		behavior = DefaultBehavior()
	}
	name, doc, params := describe(fn)
	paramNames := make([]string, len(params))
	for i, p := range params {
		paramNames[i] = p.Name.Value
	}
	wrapID := uuid.NewString()

	return &evaluator.WrappedFunction{
		Name:       name,
		Doc:        doc,
		Parameters: params,
		Inner:      fn,
		InvokeFn: func(args []evaluator.Object) evaluator.Object {
			call := Call{Args: args, Params: paramNames}
			for _, g := range guards {
				res := g.Check(call)
				if res.Passed() {
					continue
				}
				if raised := res.Raised(); raised != nil {
					return raised
				}
				if r.Log != nil {
					fmt.Fprintf(r.Log, "guard failure wrap=%s fn=%s guard=%s message=%q\n",
						wrapID, name, g.Name, res.Message())
				}
				return r.applyBehavior(behavior, res.Message(), args)
			}
			return r.Eval.Apply(fn, args)
		},
	}
}

func (r *Runtime) applyBehavior(behavior Behavior, message string, args []evaluator.Object) evaluator.Object {
	switch b := behavior.(type) {
	case Raise:
		kind := b.Kind
		if kind == "" {
			kind = evaluator.KindGuardFailure
		}
		return &evaluator.Error{Kind: kind, Message: message}
	case Handler:
		handlerArgs := make([]evaluator.Object, 0, len(args)+1)
		handlerArgs = append(handlerArgs, &evaluator.String{Value: message})
		handlerArgs = append(handlerArgs, args...)
		return r.Eval.Apply(b.Fn, handlerArgs)
	case Sentinel:
		if b.Value == nil {
			return &evaluator.Nil{}
		}
		return b.Value
	default:
		return &evaluator.Error{Kind: evaluator.KindGuardFailure, Message: message}
	}
}

func describe(fn evaluator.Object) (name, doc string, params []*ast.Parameter) {
	switch fn := fn.(type) {
	case *evaluator.Function:
		return fn.Name, fn.Doc, fn.Parameters
	case *evaluator.WrappedFunction:
		return fn.Name, fn.Doc, fn.Parameters
	case *evaluator.Builtin:
		return fn.Name, "", nil
	default:
		return "", "", nil
	}
}
