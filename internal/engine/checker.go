package engine

import (
	"github.com/skuldlang/skuld/internal/ast"
)

// checkNoExplicitReturn walks every statement of the body, descending into
// control-flow blocks but never into nested function literals or function
// statements, and rejects the first return it finds. Nested functions keep
// their own return discipline.
func checkNoExplicitReturn(funcName string, body *ast.BlockStatement) error {
	for _, stmt := range body.Statements {
		if err := checkStatement(funcName, stmt); err != nil {
			return err
		}
	}
	return nil
}

func checkStatement(funcName string, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		tok := s.GetToken()
		return &ExplicitReturnDisallowedError{
			FuncName: funcName,
			Line:     tok.Line,
			Column:   tok.Column,
		}
	case *ast.BlockStatement:
		return checkNoExplicitReturn(funcName, s)
	case *ast.IfStatement:
		if err := checkNoExplicitReturn(funcName, s.Consequence); err != nil {
			return err
		}
		if s.Alternative != nil {
			return checkStatement(funcName, s.Alternative)
		}
	case *ast.TryStatement:
		if err := checkNoExplicitReturn(funcName, s.Body); err != nil {
			return err
		}
		for _, h := range s.Handlers {
			if err := checkNoExplicitReturn(funcName, h.Body); err != nil {
				return err
			}
		}
		if s.Else != nil {
			if err := checkNoExplicitReturn(funcName, s.Else); err != nil {
				return err
			}
		}
		if s.Finally != nil {
			return checkNoExplicitReturn(funcName, s.Finally)
		}
	case *ast.MatchStatement:
		for _, arm := range s.Arms {
			if err := checkNoExplicitReturn(funcName, arm.Body); err != nil {
				return err
			}
		}
	case *ast.WhileStatement:
		return checkNoExplicitReturn(funcName, s.Body)
	case *ast.ForStatement:
		return checkNoExplicitReturn(funcName, s.Body)
	}
	// Expression statements, assignments and nested fun definitions are
	// opaque here. FunctionStatement and FunctionLiteral bodies are
	// deliberately not entered.
	return nil
}
