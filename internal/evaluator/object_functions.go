package evaluator

import (
	"fmt"
	"strings"

	"github.com/skuldlang/skuld/internal/ast"
)

// Function is a user-defined function value. Source holds the exact text
// of the definition so the function remains retrievable for re-parsing;
// it is empty for callables constructed without backing source. Implicit
// marks a function whose body has already been rewritten to
// implicit-return form, which prevents re-wrapping on repeated
// application.
type Function struct {
	Name       string // empty for lambdas
	Doc        string
	Parameters []*ast.Parameter
	ReturnType *ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
	Source     string
	Implicit   bool
	// ResultBinding is the name the rewritten body assigns its value
	// through. Seeded into every call environment so the assignments
	// never rebind a same-named variable in an enclosing scope.
	ResultBinding string
	Line          int
	Column        int
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Name.Value
	}
	name := f.Name
	if name == "" {
		name = "fun"
	} else {
		name = "fun " + name
	}
	return fmt.Sprintf("%s(%s) { ... }", name, strings.Join(params, ", "))
}

// ParameterNames returns the function's parameter names in order.
func (f *Function) ParameterNames() []string {
	names := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		names[i] = p.Name.Value
	}
	return names
}

// BuiltinFunction is the signature of a native builtin.
type BuiltinFunction func(e *Evaluator, args ...Object) Object

// Builtin is a native function exposed to scripts. Builtins have no
// retrievable source.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// WrappedFunction decorates another callable with native logic (guard
// checking) while keeping the original's name, doc and parameter
// signature visible to introspection.
type WrappedFunction struct {
	Name       string
	Doc        string
	Parameters []*ast.Parameter
	Inner      Object
	InvokeFn   func(args []Object) Object
}

func (w *WrappedFunction) Type() ObjectType { return WRAPPED_FUNCTION_OBJ }
func (w *WrappedFunction) Inspect() string {
	params := make([]string, len(w.Parameters))
	for i, p := range w.Parameters {
		params[i] = p.Name.Value
	}
	name := w.Name
	if name == "" {
		name = "fun"
	} else {
		name = "fun " + name
	}
	return fmt.Sprintf("%s(%s) { ... }", name, strings.Join(params, ", "))
}

// ParameterNames returns the wrapped function's parameter names in order.
func (w *WrappedFunction) ParameterNames() []string {
	names := make([]string, len(w.Parameters))
	for i, p := range w.Parameters {
		names[i] = p.Name.Value
	}
	return names
}

// Pipeable stages a callable for pipeline composition: `value | p`
// applies the underlying callable with the value as its first argument,
// followed by any bound arguments. Calling a Pipeable with fewer
// arguments than the callable takes binds them and returns a new
// Pipeable instead of invoking.
type Pipeable struct {
	Fn    Object
	Bound []Object
}

func (p *Pipeable) Type() ObjectType { return PIPEABLE_OBJ }
func (p *Pipeable) Inspect() string {
	if len(p.Bound) == 0 {
		return "pipeable " + CallableLabel(p.Fn)
	}
	bound := make([]string, len(p.Bound))
	for i, b := range p.Bound {
		bound[i] = b.Inspect()
	}
	return fmt.Sprintf("pipeable %s(%s)", CallableLabel(p.Fn), strings.Join(bound, ", "))
}

// CallableLabel names a callable value for diagnostics and log records.
func CallableLabel(obj Object) string {
	switch fn := obj.(type) {
	case *Function:
		if fn.Name != "" {
			return fn.Name
		}
	case *Builtin:
		if fn.Name != "" {
			return fn.Name
		}
	case *WrappedFunction:
		if fn.Name != "" {
			return fn.Name
		}
	case *Pipeable:
		return CallableLabel(fn.Fn)
	}
	return "<lambda>"
}
