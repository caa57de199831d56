package engine

import "fmt"

// Definition-time errors. They surface when a function is materialized,
// never during a call, and are not recoverable by retrying with the same
// source.

// ExplicitReturnDisallowedError reports a return statement in a function
// body that is being rewritten to implicit-return form.
type ExplicitReturnDisallowedError struct {
	FuncName string
	Line     int
	Column   int
}

func (e *ExplicitReturnDisallowedError) Error() string {
	return fmt.Sprintf("%s: explicit return not allowed in implicit-return function at %d:%d",
		e.FuncName, e.Line, e.Column)
}

// MissingImplicitReturnError reports a branch that cannot produce a value:
// an if without else, an empty block, an empty handler or match arm.
type MissingImplicitReturnError struct {
	FuncName string
	Detail   string
	Line     int
	Column   int
}

func (e *MissingImplicitReturnError) Error() string {
	return fmt.Sprintf("%s: %s at %d:%d", e.FuncName, e.Detail, e.Line, e.Column)
}

// UnsupportedConstructError reports a statement that has no value-producing
// rewrite in tail position, such as a loop or a nested function definition.
type UnsupportedConstructError struct {
	FuncName  string
	Construct string
	Line      int
	Column    int
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: %s cannot produce a value in tail position at %d:%d",
		e.FuncName, e.Construct, e.Line, e.Column)
}

// SourceUnavailableError reports a function whose definition text cannot be
// retrieved, typically a builtin or a host-constructed callable.
type SourceUnavailableError struct {
	FuncName string
	Reason   string
}

func (e *SourceUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: source unavailable, cannot rewrite: %s", e.FuncName, e.Reason)
	}
	return fmt.Sprintf("%s: source unavailable, cannot rewrite", e.FuncName)
}
