package engine

import (
	"errors"
	"fmt"

	"github.com/skuldlang/skuld/internal/evaluator"
	"github.com/skuldlang/skuld/internal/guard"
)

// RegisterBuiltins installs the transform and guard surface into the
// builtin table. It lives here rather than in the evaluator so the
// evaluator stays free of engine and guard imports.
func RegisterBuiltins() {
	evaluator.Builtins["implicit"] = &evaluator.Builtin{Name: "implicit", Fn: builtinImplicit}
	evaluator.Builtins["guarded"] = &evaluator.Builtin{Name: "guarded", Fn: builtinGuarded}
	evaluator.Builtins["guardedWith"] = &evaluator.Builtin{Name: "guardedWith", Fn: builtinGuardedWith}
	evaluator.Builtins["plainGuarded"] = &evaluator.Builtin{Name: "plainGuarded", Fn: builtinPlainGuarded}
}

// implicit(fn) rewrites fn to implicit-return form. Definition-time
// failures raise immediately as TransformError.
func builtinImplicit(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) != 1 {
		return arityError("implicit", "1 argument", len(args))
	}
	return materializeArg(args[0])
}

// guarded(fn, [guards...]) wraps fn with guards, implicit-return on, and
// raises GuardFailure on the first failing guard.
func builtinGuarded(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) < 1 || len(args) > 2 {
		return arityError("guarded", "1 or 2 arguments", len(args))
	}
	fn := materializeArg(args[0])
	if isErrorObj(fn) {
		return fn
	}
	list, listErr := guardsArg(args, 1)
	if listErr != nil {
		return listErr
	}
	guards, errObj := scriptGuards(e, list)
	if errObj != nil {
		return errObj
	}
	rt := &guard.Runtime{Eval: e, Log: e.GuardLog}
	return rt.Wrap(fn, guards, guard.DefaultBehavior())
}

// guardedWith(fn, [guards...], onError) chooses the failure behavior from
// the onError value: a string raises an error of that kind, a function
// handles the failure, anything else is returned as a sentinel.
func builtinGuardedWith(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) != 3 {
		return arityError("guardedWith", "3 arguments", len(args))
	}
	fn := materializeArg(args[0])
	if isErrorObj(fn) {
		return fn
	}
	list, listErr := guardsArg(args, 1)
	if listErr != nil {
		return listErr
	}
	guards, errObj := scriptGuards(e, list)
	if errObj != nil {
		return errObj
	}
	rt := &guard.Runtime{Eval: e, Log: e.GuardLog}
	return rt.Wrap(fn, guards, behaviorFor(args[2]))
}

// plainGuarded(fn, [guards...]) wraps fn with guards only, leaving the
// body unrewritten.
func builtinPlainGuarded(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) < 1 || len(args) > 2 {
		return arityError("plainGuarded", "1 or 2 arguments", len(args))
	}
	switch args[0].(type) {
	case *evaluator.Function, *evaluator.Builtin, *evaluator.WrappedFunction:
	default:
		return &evaluator.Error{
			Kind:    evaluator.KindTypeError,
			Message: "expected a function, got " + evaluator.TypeName(args[0]),
		}
	}
	list, listErr := guardsArg(args, 1)
	if listErr != nil {
		return listErr
	}
	guards, errObj := scriptGuards(e, list)
	if errObj != nil {
		return errObj
	}
	rt := &guard.Runtime{Eval: e, Log: e.GuardLog}
	return rt.Wrap(args[0], guards, guard.DefaultBehavior())
}

func behaviorFor(onError evaluator.Object) guard.Behavior {
	switch v := onError.(type) {
	case *evaluator.String:
		return guard.Raise{Kind: v.Value}
	case *evaluator.Function, *evaluator.Builtin, *evaluator.WrappedFunction:
		return guard.Handler{Fn: onError}
	default:
		return guard.Sentinel{Value: v}
	}
}

// materializeArg runs the implicit-return transform on a callable script
// value. Wrapped functions pass through unchanged, so wrapping twice is
// harmless.
func materializeArg(arg evaluator.Object) evaluator.Object {
	switch fn := arg.(type) {
	case *evaluator.Function:
		materialized, err := Materialize(fn)
		if err != nil {
			return transformError(err)
		}
		return materialized
	case *evaluator.WrappedFunction:
		return fn
	default:
		return &evaluator.Error{
			Kind:    evaluator.KindTypeError,
			Message: "expected a function, got " + evaluator.TypeName(arg),
		}
	}
}

// transformError converts a definition-time engine error into a script
// error of kind TransformError, keeping the source position.
func transformError(err error) *evaluator.Error {
	out := &evaluator.Error{Kind: evaluator.KindTransformError, Message: err.Error()}
	var explicitRet *ExplicitReturnDisallowedError
	var missing *MissingImplicitReturnError
	var unsupported *UnsupportedConstructError
	switch {
	case errors.As(err, &explicitRet):
		out.Line, out.Column = explicitRet.Line, explicitRet.Column
	case errors.As(err, &missing):
		out.Line, out.Column = missing.Line, missing.Column
	case errors.As(err, &unsupported):
		out.Line, out.Column = unsupported.Line, unsupported.Column
	}
	return out
}

func scriptGuards(e *evaluator.Evaluator, list *evaluator.List) ([]guard.Guard, evaluator.Object) {
	if list == nil {
		return nil, nil
	}
	guards := make([]guard.Guard, 0, len(list.Elements))
	for _, el := range list.Elements {
		switch el.(type) {
		case *evaluator.Function, *evaluator.Builtin, *evaluator.WrappedFunction:
		default:
			return nil, &evaluator.Error{
				Kind:    evaluator.KindTypeError,
				Message: "guard must be a function, got " + evaluator.TypeName(el),
			}
		}
		guards = append(guards, adaptScriptGuard(e, el))
	}
	return guards, nil
}

// adaptScriptGuard bridges the script-level guard contract onto Result:
// true passes, a string fails with that message, anything else fails with
// the default message. Errors the guard raises propagate to the caller.
func adaptScriptGuard(e *evaluator.Evaluator, g evaluator.Object) guard.Guard {
	name := evaluator.CallableLabel(g)
	if name == "<lambda>" {
		name = "<guard>"
	}
	return guard.Guard{
		Name: name,
		Check: func(call guard.Call) guard.Result {
			res := e.Apply(g, call.Args)
			switch v := res.(type) {
			case *evaluator.Error:
				return guard.Propagate(v)
			case *evaluator.Boolean:
				if v.Value {
					return guard.Pass()
				}
				return guard.Fail("")
			case *evaluator.String:
				return guard.Fail(v.Value)
			default:
				return guard.Fail("")
			}
		},
	}
}

func guardsArg(args []evaluator.Object, idx int) (*evaluator.List, *evaluator.Error) {
	if idx >= len(args) {
		return nil, nil
	}
	list, ok := args[idx].(*evaluator.List)
	if !ok {
		return nil, &evaluator.Error{
			Kind:    evaluator.KindTypeError,
			Message: "guards must be a List, got " + evaluator.TypeName(args[idx]),
		}
	}
	return list, nil
}

func isErrorObj(obj evaluator.Object) bool {
	_, ok := obj.(*evaluator.Error)
	return ok
}

func arityError(name, want string, got int) *evaluator.Error {
	return &evaluator.Error{
		Kind:    evaluator.KindArityError,
		Message: fmt.Sprintf("%s expects %s, got %d", name, want, got),
	}
}
