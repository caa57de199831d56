package evaluator

import (
	"fmt"
	"math"
)

// Builtins holds the native functions available to every script. Hosts
// extend the set by adding entries before the first Eval call.
var Builtins = map[string]*Builtin{
	"print": {
		Name: "print",
		Fn: func(e *Evaluator, args ...Object) Object {
			parts := make([]interface{}, len(args))
			for i, a := range args {
				if s, ok := a.(*String); ok {
					parts[i] = s.Value
				} else {
					parts[i] = a.Inspect()
				}
			}
			fmt.Fprintln(e.Out, parts...)
			return &Nil{}
		},
	},
	"len": {
		Name: "len",
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newKindError(KindArityError, 0, 0, "len expects 1 argument, got %d", len(args))
			}
			switch arg := args[0].(type) {
			case *String:
				return &Integer{Value: int64(len([]rune(arg.Value)))}
			case *List:
				return &Integer{Value: int64(len(arg.Elements))}
			default:
				return newKindError(KindTypeError, 0, 0, "len not supported on %s", TypeName(args[0]))
			}
		},
	},
	"typeOf": {
		Name: "typeOf",
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newKindError(KindArityError, 0, 0, "typeOf expects 1 argument, got %d", len(args))
			}
			return &String{Value: TypeName(args[0])}
		},
	},
	"str": {
		Name: "str",
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newKindError(KindArityError, 0, 0, "str expects 1 argument, got %d", len(args))
			}
			if s, ok := args[0].(*String); ok {
				return s
			}
			return &String{Value: args[0].Inspect()}
		},
	},
	"fail": {
		Name: "fail",
		Fn: func(e *Evaluator, args ...Object) Object {
			kind := KindUserError
			message := "failure"
			switch len(args) {
			case 1:
				if s, ok := args[0].(*String); ok {
					message = s.Value
				} else {
					message = args[0].Inspect()
				}
			case 2:
				if k, ok := args[0].(*String); ok {
					kind = k.Value
				} else {
					return newKindError(KindTypeError, 0, 0, "fail kind must be String, got %s", TypeName(args[0]))
				}
				if s, ok := args[1].(*String); ok {
					message = s.Value
				} else {
					message = args[1].Inspect()
				}
			default:
				return newKindError(KindArityError, 0, 0, "fail expects 1 or 2 arguments, got %d", len(args))
			}
			return newKindError(kind, 0, 0, "%s", message)
		},
	},
	"inf": {
		Name: "inf",
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 0 {
				return newKindError(KindArityError, 0, 0, "inf expects no arguments, got %d", len(args))
			}
			return &Float{Value: math.Inf(1)}
		},
	},
	"pipeable": {
		Name: "pipeable",
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newKindError(KindArityError, 0, 0, "pipeable expects 1 argument, got %d", len(args))
			}
			switch fn := args[0].(type) {
			case *Pipeable:
				return fn
			case *Function, *Builtin, *WrappedFunction:
				return &Pipeable{Fn: fn}
			default:
				return newKindError(KindTypeError, 0, 0, "pipeable expects a function, got %s", TypeName(args[0]))
			}
		},
	},
}
