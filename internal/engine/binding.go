package engine

import (
	"fmt"

	"github.com/skuldlang/skuld/internal/ast"
)

const resultBindingBase = "__result"

// resultBinding picks a deterministic name for the synthesized result
// variable that collides with no identifier anywhere in the function,
// parameters included.
func resultBinding(fn *ast.FunctionStatement) string {
	used := map[string]bool{}
	for _, p := range fn.Parameters {
		used[p.Name.Value] = true
	}
	collectBlockIdents(fn.Body, used)

	if !used[resultBindingBase] {
		return resultBindingBase
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", resultBindingBase, i)
		if !used[name] {
			return name
		}
	}
}

func collectBlockIdents(block *ast.BlockStatement, used map[string]bool) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		collectStmtIdents(stmt, used)
	}
}

func collectStmtIdents(stmt ast.Statement, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		collectExprIdents(s.Expression, used)
	case *ast.AssignStatement:
		used[s.Name.Value] = true
		collectExprIdents(s.Value, used)
	case *ast.ReturnStatement:
		collectExprIdents(s.Value, used)
	case *ast.BlockStatement:
		collectBlockIdents(s, used)
	case *ast.IfStatement:
		collectExprIdents(s.Condition, used)
		collectBlockIdents(s.Consequence, used)
		if s.Alternative != nil {
			collectStmtIdents(s.Alternative, used)
		}
	case *ast.TryStatement:
		collectBlockIdents(s.Body, used)
		for _, h := range s.Handlers {
			for _, k := range h.Kinds {
				used[k.Value] = true
			}
			if h.Binding != nil {
				used[h.Binding.Value] = true
			}
			collectBlockIdents(h.Body, used)
		}
		collectBlockIdents(s.Else, used)
		collectBlockIdents(s.Finally, used)
	case *ast.MatchStatement:
		collectExprIdents(s.Subject, used)
		for _, arm := range s.Arms {
			collectPatternIdents(arm.Pattern, used)
			collectExprIdents(arm.Guard, used)
			collectBlockIdents(arm.Body, used)
		}
	case *ast.WhileStatement:
		collectExprIdents(s.Condition, used)
		collectBlockIdents(s.Body, used)
	case *ast.ForStatement:
		used[s.ItemName.Value] = true
		collectExprIdents(s.Iterable, used)
		collectBlockIdents(s.Body, used)
	case *ast.FunctionStatement:
		used[s.Name.Value] = true
		for _, p := range s.Parameters {
			used[p.Name.Value] = true
		}
		collectBlockIdents(s.Body, used)
	}
}

func collectExprIdents(expr ast.Expression, used map[string]bool) {
	switch e := expr.(type) {
	case nil:
	case *ast.Identifier:
		used[e.Value] = true
	case *ast.PrefixExpression:
		collectExprIdents(e.Right, used)
	case *ast.InfixExpression:
		collectExprIdents(e.Left, used)
		collectExprIdents(e.Right, used)
	case *ast.CallExpression:
		collectExprIdents(e.Function, used)
		for _, a := range e.Arguments {
			collectExprIdents(a, used)
		}
	case *ast.IndexExpression:
		collectExprIdents(e.Left, used)
		collectExprIdents(e.Index, used)
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			collectExprIdents(el, used)
		}
	case *ast.FunctionLiteral:
		for _, p := range e.Parameters {
			used[p.Name.Value] = true
		}
		collectBlockIdents(e.Body, used)
	}
}

func collectPatternIdents(pat ast.Pattern, used map[string]bool) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		used[p.Value] = true
	case *ast.LiteralPattern:
		collectExprIdents(p.Value, used)
	}
}
