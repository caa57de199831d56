package evaluator

import (
	"github.com/skuldlang/skuld/internal/ast"
)

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	function := e.Eval(node.Function, env)
	if isError(function) {
		return function
	}

	args := make([]Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		arg := e.Eval(a, env)
		if isError(arg) {
			return arg
		}
		args = append(args, arg)
	}

	tok := node.GetToken()
	return e.apply(function, args, tok.Line, tok.Column)
}

// Apply invokes a callable value with already-evaluated arguments. It is
// the entry point native code (guard adapters, the embedding API) uses to
// call script functions.
func (e *Evaluator) Apply(fn Object, args []Object) Object {
	return e.apply(fn, args, 0, 0)
}

func (e *Evaluator) apply(fn Object, args []Object, line, column int) Object {
	limit := e.MaxDepth
	if limit <= 0 {
		limit = MaxCallDepth
	}
	if len(e.CallStack) >= limit {
		return e.attachStack(newKindError(KindRuntimeError, line, column,
			"call depth limit exceeded"))
	}

	switch fn := fn.(type) {
	case *Function:
		if len(args) != len(fn.Parameters) {
			return e.attachStack(newKindError(KindArityError, line, column,
				"%s expects %d arguments, got %d", callableName(fn.Name), len(fn.Parameters), len(args)))
		}
		callEnv := NewEnclosedEnvironment(fn.Env)
		for i, p := range fn.Parameters {
			callEnv.Set(p.Name.Value, args[i])
		}
		if fn.ResultBinding != "" {
			callEnv.Set(fn.ResultBinding, &Nil{})
		}

		e.PushCall(callableName(fn.Name), fn.Line, fn.Column)
		result := e.Eval(fn.Body, callEnv)
		// Attach the trace while this frame is still on the stack.
		if err, ok := result.(*Error); ok {
			e.attachStack(err)
		}
		e.PopCall()

		if result == nil {
			return &Nil{}
		}
		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		case *BreakSignal, *ContinueSignal:
			return e.attachStack(newKindError(KindRuntimeError, fn.Line, fn.Column,
				"break or continue outside of a loop"))
		default:
			// Direct style: without an explicit return a function yields nil.
			return &Nil{}
		}

	case *Builtin:
		result := fn.Fn(e, args...)
		if err, ok := result.(*Error); ok {
			if err.Line == 0 {
				err.Line, err.Column = line, column
			}
			return e.attachStack(err)
		}
		return result

	case *WrappedFunction:
		return fn.InvokeFn(args)

	case *Pipeable:
		all := make([]Object, 0, len(fn.Bound)+len(args))
		all = append(all, fn.Bound...)
		all = append(all, args...)
		if arity, known := callableArity(fn.Fn); known && len(all) < arity {
			// Not enough arguments yet: bind them for a later pipe.
			return &Pipeable{Fn: fn.Fn, Bound: all}
		}
		return e.apply(fn.Fn, all, line, column)

	default:
		return e.attachStack(newKindError(KindTypeError, line, column,
			"not a function: %s", TypeName(fn)))
	}
}

// callableArity reports how many parameters a callable declares. Builtins
// check their own arity, so theirs is unknown.
func callableArity(fn Object) (int, bool) {
	switch fn := fn.(type) {
	case *Function:
		return len(fn.Parameters), true
	case *WrappedFunction:
		return len(fn.Parameters), true
	}
	return 0, false
}

func callableName(name string) string {
	if name == "" {
		return "<lambda>"
	}
	return name
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isError(index) {
		return index
	}

	idx, ok := index.(*Integer)
	if !ok {
		tok := node.GetToken()
		return newKindError(KindTypeError, tok.Line, tok.Column,
			"index must be Int, got %s", TypeName(index))
	}

	tok := node.GetToken()
	switch left := left.(type) {
	case *List:
		if idx.Value < 0 || idx.Value >= int64(len(left.Elements)) {
			return newKindError(KindIndexError, tok.Line, tok.Column,
				"index %d out of range for list of length %d", idx.Value, len(left.Elements))
		}
		return left.Elements[idx.Value]
	case *String:
		runes := []rune(left.Value)
		if idx.Value < 0 || idx.Value >= int64(len(runes)) {
			return newKindError(KindIndexError, tok.Line, tok.Column,
				"index %d out of range for string of length %d", idx.Value, len(runes))
		}
		return &String{Value: string(runes[idx.Value])}
	default:
		return newKindError(KindTypeError, tok.Line, tok.Column,
			"cannot index %s", TypeName(left))
	}
}
