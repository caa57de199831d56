package evaluator

import "fmt"

// Shared singletons; booleans carry no state so two instances suffice.
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func boolObject(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Kind: KindRuntimeError, Message: fmt.Sprintf(format, a...)}
}

func newKindError(kind string, line, column int, format string, a ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
		Line:    line,
		Column:  column,
	}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Nil:
		return false
	default:
		return true
	}
}

// PushCall adds a call frame to the stack.
func (e *Evaluator) PushCall(name string, line, column int) {
	e.CallStack = append(e.CallStack, CallFrame{Name: name, Line: line, Column: column})
}

// PopCall removes the top call frame.
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

func (e *Evaluator) attachStack(err *Error) *Error {
	if len(err.StackTrace) > 0 || len(e.CallStack) == 0 {
		return err
	}
	err.StackTrace = make([]StackFrame, len(e.CallStack))
	for i, frame := range e.CallStack {
		err.StackTrace[i] = StackFrame{Name: frame.Name, Line: frame.Line, Column: frame.Column}
	}
	return err
}

// Equals reports deep value equality between two objects.
func Equals(a, b Object) bool {
	switch a := a.(type) {
	case *Integer:
		switch b := b.(type) {
		case *Integer:
			return a.Value == b.Value
		case *Float:
			return float64(a.Value) == b.Value
		}
		return false
	case *Float:
		switch b := b.(type) {
		case *Float:
			return a.Value == b.Value
		case *Integer:
			return a.Value == float64(b.Value)
		}
		return false
	case *Boolean:
		b, ok := b.(*Boolean)
		return ok && a.Value == b.Value
	case *String:
		b, ok := b.(*String)
		return ok && a.Value == b.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equals(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
