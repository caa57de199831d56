// Package engine turns an ordinary function value into its implicit-return
// form: it retrieves the definition source, re-parses it, proves that every
// branch ends in a value-producing position, rewrites those tails into
// assignments to a synthesized result binding and appends a single terminal
// return. The rewritten function closes over the original definition
// environment, so free names resolve exactly as they did before.
package engine

import (
	"strings"

	"github.com/skuldlang/skuld/internal/ast"
	"github.com/skuldlang/skuld/internal/evaluator"
	"github.com/skuldlang/skuld/internal/parser"
)

// Materialize returns the implicit-return form of fn. Already-materialized
// functions pass through unchanged, so wrapping is idempotent. Identical
// source always yields an identical rewritten tree.
func Materialize(fn *evaluator.Function) (*evaluator.Function, error) {
	if fn.Implicit {
		return fn, nil
	}
	if fn.Source == "" {
		return nil, &SourceUnavailableError{FuncName: displayName(fn.Name)}
	}

	// Pad the snippet so re-parsed token positions line up with the
	// original file. Errors then point at real source locations.
	padded := strings.Repeat("\n", max(fn.Line-1, 0)) +
		strings.Repeat(" ", max(fn.Column-1, 0)) +
		fn.Source

	parsed, err := parser.ParseFunctionSource(padded)
	if err != nil {
		return nil, &SourceUnavailableError{
			FuncName: displayName(fn.Name),
			Reason:   err.Error(),
		}
	}

	name := displayName(fn.Name)
	if err := checkNoExplicitReturn(name, parsed.Body); err != nil {
		return nil, err
	}

	binding := resultBinding(parsed)
	if err := rewriteTails(name, binding, parsed.Body, parsed.GetToken()); err != nil {
		return nil, err
	}

	endTok := parsed.Body.Statements[len(parsed.Body.Statements)-1].GetToken()
	parsed.Body.Statements = append(parsed.Body.Statements, terminalReturn(binding, endTok))

	return &evaluator.Function{
		Name:          fn.Name,
		Doc:           fn.Doc,
		Parameters:    parsed.Parameters,
		ReturnType:    fn.ReturnType,
		Body:          parsed.Body,
		Env:           fn.Env,
		Source:        fn.Source,
		Implicit:      true,
		ResultBinding: binding,
		Line:          fn.Line,
		Column:        fn.Column,
	}, nil
}

// Rewrite runs the transform on an already-parsed definition without
// touching environments. The CLI check and dump commands use it.
func Rewrite(stmt *ast.FunctionStatement) error {
	name := displayName(identName(stmt.Name))
	if err := checkNoExplicitReturn(name, stmt.Body); err != nil {
		return err
	}
	binding := resultBinding(stmt)
	if err := rewriteTails(name, binding, stmt.Body, stmt.GetToken()); err != nil {
		return err
	}
	endTok := stmt.Body.Statements[len(stmt.Body.Statements)-1].GetToken()
	stmt.Body.Statements = append(stmt.Body.Statements, terminalReturn(binding, endTok))
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "<lambda>"
	}
	return name
}

func identName(ident *ast.Identifier) string {
	if ident == nil {
		return ""
	}
	return ident.Value
}
