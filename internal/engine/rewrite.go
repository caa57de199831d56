package engine

import (
	"github.com/skuldlang/skuld/internal/ast"
	"github.com/skuldlang/skuld/internal/token"
)

// rewriteTails rewrites the tail position of a block in place so that every
// execution path through it ends by assigning a value to the result binding.
// Validation runs inline: a branch that cannot produce a value fails here,
// before the function is ever callable.
func rewriteTails(funcName, binding string, block *ast.BlockStatement, tok token.Token) error {
	if block == nil || len(block.Statements) == 0 {
		return &MissingImplicitReturnError{
			FuncName: funcName,
			Detail:   "empty block cannot produce a value",
			Line:     tok.Line,
			Column:   tok.Column,
		}
	}

	last := block.Statements[len(block.Statements)-1]
	switch s := last.(type) {
	case *ast.ExpressionStatement:
		block.Statements[len(block.Statements)-1] = assignTo(binding, s)
		return nil

	case *ast.IfStatement:
		return rewriteIfChain(funcName, binding, s)

	case *ast.TryStatement:
		if err := rewriteTails(funcName, binding, s.Body, s.GetToken()); err != nil {
			return err
		}
		for _, h := range s.Handlers {
			if err := rewriteTails(funcName, binding, h.Body, h.GetToken()); err != nil {
				return err
			}
		}
		if s.Else != nil {
			// When an else block exists it supplies the value for the
			// clean path, so the body's tail assignment is overwritten
			// in order. Both are rewritten.
			if err := rewriteTails(funcName, binding, s.Else, s.GetToken()); err != nil {
				return err
			}
		}
		// finally runs for effect only and is never rewritten.
		return nil

	case *ast.MatchStatement:
		for _, arm := range s.Arms {
			if err := rewriteTails(funcName, binding, arm.Body, arm.GetToken()); err != nil {
				return err
			}
		}
		return nil

	case *ast.BlockStatement:
		return rewriteTails(funcName, binding, s, s.GetToken())

	case *ast.WhileStatement:
		return unsupported(funcName, "while loop", s.GetToken())
	case *ast.ForStatement:
		return unsupported(funcName, "for loop", s.GetToken())
	case *ast.BreakStatement:
		return unsupported(funcName, "break", s.GetToken())
	case *ast.ContinueStatement:
		return unsupported(funcName, "continue", s.GetToken())
	case *ast.AssignStatement:
		return unsupported(funcName, "assignment", s.GetToken())
	case *ast.FunctionStatement:
		return unsupported(funcName, "function definition", s.GetToken())

	default:
		return unsupported(funcName, "statement", last.GetToken())
	}
}

func rewriteIfChain(funcName, binding string, stmt *ast.IfStatement) error {
	if err := rewriteTails(funcName, binding, stmt.Consequence, stmt.GetToken()); err != nil {
		return err
	}
	switch alt := stmt.Alternative.(type) {
	case nil:
		tok := stmt.GetToken()
		return &MissingImplicitReturnError{
			FuncName: funcName,
			Detail:   "if in tail position requires an else branch",
			Line:     tok.Line,
			Column:   tok.Column,
		}
	case *ast.BlockStatement:
		return rewriteTails(funcName, binding, alt, stmt.GetToken())
	case *ast.IfStatement:
		return rewriteIfChain(funcName, binding, alt)
	default:
		return unsupported(funcName, "statement", stmt.Alternative.GetToken())
	}
}

func unsupported(funcName, construct string, tok token.Token) error {
	return &UnsupportedConstructError{
		FuncName:  funcName,
		Construct: construct,
		Line:      tok.Line,
		Column:    tok.Column,
	}
}

func assignTo(binding string, stmt *ast.ExpressionStatement) *ast.AssignStatement {
	tok := stmt.GetToken()
	return &ast.AssignStatement{
		Token: token.Token{Type: token.IDENT, Lexeme: binding, Line: tok.Line, Column: tok.Column},
		Name: &ast.Identifier{
			Token: token.Token{Type: token.IDENT, Lexeme: binding, Line: tok.Line, Column: tok.Column},
			Value: binding,
		},
		Value: stmt.Expression,
	}
}

// terminalReturn builds the single return appended after rewriting.
func terminalReturn(binding string, endTok token.Token) *ast.ReturnStatement {
	return &ast.ReturnStatement{
		Token: token.Token{Type: token.RETURN, Lexeme: "return", Line: endTok.Line, Column: endTok.Column},
		Value: &ast.Identifier{
			Token: token.Token{Type: token.IDENT, Lexeme: binding, Line: endTok.Line, Column: endTok.Column},
			Value: binding,
		},
	}
}
