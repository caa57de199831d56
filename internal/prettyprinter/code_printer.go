package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/skuldlang/skuld/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"|":  1,
	"||": 2,
	"&&": 3,
	"==": 4,
	"!=": 4,
	"<":  5,
	">":  5,
	"<=": 5,
	">=": 5,
	"+":  6,
	"-":  6,
	"*":  7,
	"/":  7,
	"%":  7,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders any node and returns the accumulated output.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	switch n := node.(type) {
	case *ast.Program:
		p.printProgram(n)
	case ast.Statement:
		p.printStatement(n)
	case ast.Expression:
		p.printExpr(n, 0, false)
	}
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) printProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		p.printStatement(stmt)
		p.writeln()
	}
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case nil:
		p.write("<???>")
	case *ast.ExpressionStatement:
		p.printExpr(s.Expression, 0, false)
	case *ast.AssignStatement:
		p.write(s.Name.Value)
		p.write(" = ")
		p.printExpr(s.Value, 0, false)
	case *ast.ReturnStatement:
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpr(s.Value, 0, false)
		}
	case *ast.BreakStatement:
		p.write("break")
	case *ast.ContinueStatement:
		p.write("continue")
	case *ast.BlockStatement:
		p.printBlock(s)
	case *ast.FunctionStatement:
		p.printFunctionStatement(s)
	case *ast.IfStatement:
		p.printIfStatement(s)
	case *ast.TryStatement:
		p.printTryStatement(s)
	case *ast.MatchStatement:
		p.printMatchStatement(s)
	case *ast.WhileStatement:
		p.write("while ")
		p.printExpr(s.Condition, 0, false)
		p.write(" ")
		p.printBlock(s.Body)
	case *ast.ForStatement:
		p.write("for ")
		p.write(s.ItemName.Value)
		p.write(" in ")
		p.printExpr(s.Iterable, 0, false)
		p.write(" ")
		p.printBlock(s.Body)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printBlock(n *ast.BlockStatement) {
	if n == nil {
		p.write("<???>")
		return
	}
	p.write("{\n")
	p.indent++
	for _, stmt := range n.Statements {
		p.writeIndent()
		p.printStatement(stmt)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printFunctionStatement(n *ast.FunctionStatement) {
	p.write("fun ")
	if n.Name != nil {
		p.write(n.Name.Value)
	} else {
		p.write("<???>")
	}
	p.printParameters(n.Parameters)
	if n.ReturnType != nil {
		p.write(": ")
		p.write(n.ReturnType.Value)
	}
	p.write(" ")
	p.printBlock(n.Body)
}

func (p *CodePrinter) printParameters(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		if param == nil || param.Name == nil {
			p.write("<???>")
			continue
		}
		p.write(param.Name.Value)
		if param.Type != nil {
			p.write(": ")
			p.write(param.Type.Value)
		}
	}
	p.write(")")
}

func (p *CodePrinter) printIfStatement(n *ast.IfStatement) {
	p.write("if ")
	p.printExpr(n.Condition, 0, false)
	p.write(" ")
	p.printBlock(n.Consequence)
	switch alt := n.Alternative.(type) {
	case nil:
	case *ast.IfStatement:
		p.write(" else ")
		p.printIfStatement(alt)
	case *ast.BlockStatement:
		p.write(" else ")
		p.printBlock(alt)
	}
}

func (p *CodePrinter) printTryStatement(n *ast.TryStatement) {
	p.write("try ")
	p.printBlock(n.Body)
	for _, h := range n.Handlers {
		p.write(" catch")
		for i, kind := range h.Kinds {
			if i > 0 {
				p.write(",")
			}
			p.write(" ")
			p.write(kind.Value)
		}
		if h.Binding != nil {
			p.write(" as ")
			p.write(h.Binding.Value)
		}
		p.write(" ")
		p.printBlock(h.Body)
	}
	if n.Else != nil {
		p.write(" else ")
		p.printBlock(n.Else)
	}
	if n.Finally != nil {
		p.write(" finally ")
		p.printBlock(n.Finally)
	}
}

func (p *CodePrinter) printMatchStatement(n *ast.MatchStatement) {
	p.write("match ")
	p.printExpr(n.Subject, 0, false)
	p.write(" {\n")
	p.indent++

	// Render patterns first so the arrows align.
	patStrings := make([]string, len(n.Arms))
	maxPatLen := 0
	for i, arm := range n.Arms {
		temp := NewCodePrinter()
		temp.printPattern(arm.Pattern)
		if arm.Guard != nil {
			temp.write(" if ")
			temp.printExpr(arm.Guard, 0, false)
		}
		patStrings[i] = temp.String()
		if len(patStrings[i]) > maxPatLen {
			maxPatLen = len(patStrings[i])
		}
	}

	for i, arm := range n.Arms {
		p.writeIndent()
		p.write(patStrings[i])
		for j := len(patStrings[i]); j < maxPatLen; j++ {
			p.write(" ")
		}
		p.write(" -> ")
		if arm.Body != nil && len(arm.Body.Statements) == 1 {
			p.printStatement(arm.Body.Statements[0])
		} else {
			p.printBlock(arm.Body)
		}
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printPattern(pat ast.Pattern) {
	switch pat := pat.(type) {
	case nil:
		p.write("<???>")
	case *ast.WildcardPattern:
		p.write("_")
	case *ast.LiteralPattern:
		p.printExpr(pat.Value, 0, false)
	case *ast.IdentifierPattern:
		p.write(pat.Value)
	default:
		p.write("<???>")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	switch e := expr.(type) {
	case nil:
		p.write("<???>")
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		// Same precedence on the right needs parens: all ops are
		// left-associative.
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		p.write(e.Operator)
		p.printExpr(e.Right, 100, false)
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.IntegerLiteral:
		p.write(e.Token.Lexeme)
	case *ast.FloatLiteral:
		p.write(e.Token.Lexeme)
	case *ast.StringLiteral:
		p.write(strconv.Quote(e.Value))
	case *ast.BooleanLiteral:
		p.write(e.Token.Lexeme)
	case *ast.NilLiteral:
		p.write("nil")
	case *ast.ListLiteral:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, 0, false)
		}
		p.write("]")
	case *ast.CallExpression:
		p.printExpr(e.Function, 100, false)
		p.write("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(arg, 0, false)
		}
		p.write(")")
	case *ast.IndexExpression:
		p.printExpr(e.Left, 100, false)
		p.write("[")
		p.printExpr(e.Index, 0, false)
		p.write("]")
	case *ast.FunctionLiteral:
		p.write("fun")
		p.printParameters(e.Parameters)
		if e.ReturnType != nil {
			p.write(": ")
			p.write(e.ReturnType.Value)
		}
		p.write(" ")
		p.printBlock(e.Body)
	default:
		p.write("<???>")
	}
}
