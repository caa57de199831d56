// Package skuld is the high-level embedding API. A VM evaluates scripts,
// exchanges values with Go and wraps script functions with guards and the
// implicit-return transform.
package skuld

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skuldlang/skuld/internal/engine"
	"github.com/skuldlang/skuld/internal/evaluator"
	"github.com/skuldlang/skuld/internal/guard"
	"github.com/skuldlang/skuld/internal/parser"
)

// VM wraps the evaluator and root environment and provides a high-level
// embedding API.
type VM struct {
	eval       *evaluator.Evaluator
	env        *evaluator.Environment
	marshaller *Marshaller
}

// ScriptError is a runtime error raised by script code.
type ScriptError struct {
	Kind    string
	Message string
	Line    int
	Column  int
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates a new Skuld VM instance.
func New() *VM {
	engine.RegisterBuiltins()
	return &VM{
		eval:       evaluator.New(),
		env:        evaluator.NewEnvironment(),
		marshaller: NewMarshaller(),
	}
}

// SetOutput redirects script print output. Defaults to stdout.
func (v *VM) SetOutput(w io.Writer) {
	v.eval.Out = w
}

// SetGuardLog routes guard-failure records to w.
func (v *VM) SetGuardLog(w io.Writer) {
	v.eval.GuardLog = w
}

// Run executes Skuld code and returns the value of the last expression.
func (v *VM) Run(code string) (interface{}, error) {
	p := parser.New(code)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("parse failed:\n%s", strings.Join(msgs, "\n"))
	}

	result := v.eval.Eval(program, v.env)
	if err, ok := result.(*evaluator.Error); ok {
		return nil, scriptError(err)
	}
	return v.marshaller.FromValue(result)
}

// RunFile reads and executes a script file.
func (v *VM) RunFile(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return v.Run(string(data))
}

// Set defines a global variable in the VM.
func (v *VM) Set(name string, val interface{}) error {
	obj, err := v.marshaller.ToValue(val)
	if err != nil {
		return err
	}
	v.env.Set(name, obj)
	return nil
}

// Get retrieves a global variable from the VM.
func (v *VM) Get(name string) (interface{}, error) {
	obj, ok := v.env.Get(name)
	if !ok {
		return nil, fmt.Errorf("variable %q not found", name)
	}
	return v.marshaller.FromValue(obj)
}

// Call calls a function defined in the script (or set from Go) by name.
func (v *VM) Call(name string, args ...interface{}) (interface{}, error) {
	fn, ok := v.env.Get(name)
	if !ok {
		return nil, fmt.Errorf("function %q not found", name)
	}

	scriptArgs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := v.marshaller.ToValue(arg)
		if err != nil {
			return nil, err
		}
		scriptArgs[i] = obj
	}

	result := v.eval.Apply(fn, scriptArgs)
	if err, ok := result.(*evaluator.Error); ok {
		return nil, scriptError(err)
	}
	return v.marshaller.FromValue(result)
}

// Guard validates one call from Go. Check receives the positional
// arguments, already converted to Go values; returning ok=false fails the
// guard with the given message.
type Guard struct {
	Name  string
	Check func(args []interface{}) (ok bool, message string)
}

type wrapConfig struct {
	behavior       guard.Behavior
	handler        func(message string, args []interface{}) interface{}
	sentinel       *interface{}
	implicitReturn bool
	log            io.Writer
}

// WrapOption configures Wrap.
type WrapOption func(*wrapConfig)

// WithRaise makes guard failures raise an error of the given kind.
func WithRaise(kind string) WrapOption {
	return func(c *wrapConfig) { c.behavior = guard.Raise{Kind: kind} }
}

// WithHandler routes guard failures to a Go handler; its return value
// becomes the call result.
func WithHandler(fn func(message string, args []interface{}) interface{}) WrapOption {
	return func(c *wrapConfig) { c.handler = fn }
}

// WithSentinel makes guard failures return a fixed value instead of
// invoking the function.
func WithSentinel(val interface{}) WrapOption {
	return func(c *wrapConfig) { c.sentinel = &val }
}

// WithImplicitReturn toggles the implicit-return rewrite. On by default.
func WithImplicitReturn(on bool) WrapOption {
	return func(c *wrapConfig) { c.implicitReturn = on }
}

// WithLog routes this wrap's guard-failure records to w.
func WithLog(w io.Writer) WrapOption {
	return func(c *wrapConfig) { c.log = w }
}

// Wrap replaces the named script function with a guard-wrapped version.
// The wrapped function keeps the original name, doc and signature. By
// default the body is rewritten to implicit-return form and guard failures
// raise a GuardFailure error.
func (v *VM) Wrap(name string, guards []Guard, opts ...WrapOption) error {
	obj, ok := v.env.Get(name)
	if !ok {
		return fmt.Errorf("function %q not found", name)
	}

	cfg := wrapConfig{
		behavior:       guard.DefaultBehavior(),
		implicitReturn: true,
		log:            v.eval.GuardLog,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	behavior, err := v.resolveBehavior(cfg)
	if err != nil {
		return err
	}

	if cfg.implicitReturn {
		fn, isFn := obj.(*evaluator.Function)
		if !isFn {
			if _, isWrapped := obj.(*evaluator.WrappedFunction); !isWrapped {
				return fmt.Errorf("%q is not a script function", name)
			}
		} else {
			materialized, err := engine.Materialize(fn)
			if err != nil {
				return err
			}
			obj = materialized
		}
	}

	rt := &guard.Runtime{Eval: v.eval, Log: cfg.log}
	wrapped := rt.Wrap(obj, v.adaptGuards(guards), behavior)
	v.env.Set(name, wrapped)
	return nil
}

func (v *VM) resolveBehavior(cfg wrapConfig) (guard.Behavior, error) {
	switch {
	case cfg.handler != nil:
		handler := cfg.handler
		fn := &evaluator.Builtin{
			Name: "<guard handler>",
			Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
				message := ""
				if len(args) > 0 {
					if s, ok := args[0].(*evaluator.String); ok {
						message = s.Value
					}
				}
				goArgs := make([]interface{}, 0, len(args))
				for _, a := range args[1:] {
					val, err := v.marshaller.FromValue(a)
					if err != nil {
						return &evaluator.Error{Kind: evaluator.KindTypeError, Message: err.Error()}
					}
					goArgs = append(goArgs, val)
				}
				result, err := v.marshaller.ToValue(handler(message, goArgs))
				if err != nil {
					return &evaluator.Error{Kind: evaluator.KindTypeError, Message: err.Error()}
				}
				return result
			},
		}
		return guard.Handler{Fn: fn}, nil
	case cfg.sentinel != nil:
		obj, err := v.marshaller.ToValue(*cfg.sentinel)
		if err != nil {
			return nil, err
		}
		return guard.Sentinel{Value: obj}, nil
	default:
		return cfg.behavior, nil
	}
}

func (v *VM) adaptGuards(guards []Guard) []guard.Guard {
	out := make([]guard.Guard, len(guards))
	for i, g := range guards {
		check := g.Check
		out[i] = guard.Guard{
			Name: g.Name,
			Check: func(call guard.Call) guard.Result {
				goArgs := make([]interface{}, len(call.Args))
				for j, a := range call.Args {
					val, err := v.marshaller.FromValue(a)
					if err != nil {
						return guard.Fail(err.Error())
					}
					goArgs[j] = val
				}
				if ok, msg := check(goArgs); !ok {
					return guard.Fail(msg)
				}
				return guard.Pass()
			},
		}
	}
	return out
}

func scriptError(err *evaluator.Error) *ScriptError {
	return &ScriptError{
		Kind:    err.Kind,
		Message: err.Message,
		Line:    err.Line,
		Column:  err.Column,
	}
}
