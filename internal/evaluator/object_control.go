package evaluator

import (
	"fmt"
)

// ReturnValue unwinds evaluation to the enclosing function call.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal unwinds evaluation to the enclosing loop.
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

// ContinueSignal skips to the next iteration of the enclosing loop.
type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

// Error kinds raised by the runtime itself. try handlers select on these
// names; fail() can raise any user-chosen kind.
const (
	KindRuntimeError   = "RuntimeError"
	KindTypeError      = "TypeError"
	KindNameError      = "NameError"
	KindArityError     = "ArityError"
	KindIndexError     = "IndexError"
	KindDivisionByZero = "DivisionByZero"
	KindMatchError     = "MatchError"
	KindGuardFailure   = "GuardFailure"
	KindTransformError = "TransformError"
	KindUserError      = "UserError"
)

// StackFrame is one call-stack entry for error traces.
type StackFrame struct {
	Name   string
	Line   int
	Column int
}

// Error is a raised runtime error. It propagates out of evaluation until
// a try handler whose kind list covers Kind catches it.
type Error struct {
	Kind       string
	Message    string
	Line       int
	Column     int
	StackTrace []StackFrame
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var result string
	if e.Line > 0 {
		result = fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
	} else {
		result = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		frame := e.StackTrace[i]
		result += fmt.Sprintf("\n  in %s at %d:%d", frame.Name, frame.Line, frame.Column)
	}
	return result
}
