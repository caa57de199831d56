package evaluator

import (
	"io"
	"os"

	"github.com/skuldlang/skuld/internal/ast"
)

// MaxCallDepth bounds recursion so runaway scripts fail with a runtime
// error instead of exhausting the Go stack.
const MaxCallDepth = 1000

// CallFrame is one entry of the interpreter call stack.
type CallFrame struct {
	Name   string
	Line   int
	Column int
}

type Evaluator struct {
	// Out receives script output (print) and, when enabled elsewhere,
	// diagnostic records.
	Out io.Writer
	// GuardLog, when set, receives one record per guard failure.
	GuardLog io.Writer
	// MaxDepth overrides the default call depth cap when positive.
	MaxDepth int
	// CallStack for stack traces on errors.
	CallStack []CallFrame
}

func New() *Evaluator {
	return &Evaluator{Out: os.Stdout}
}

// Eval evaluates a node in env. Raised errors and control signals travel
// as Object values of the corresponding signal types.
func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ast.FunctionStatement:
		return e.evalFunctionStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.IfStatement:
		return e.evalIfStatement(node, env)
	case *ast.TryStatement:
		return e.evalTryStatement(node, env)
	case *ast.MatchStatement:
		return e.evalMatchStatement(node, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.ForStatement:
		return e.evalForStatement(node, env)
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}

	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return &Boolean{Value: node.Value}
	case *ast.NilLiteral:
		return &Nil{}
	case *ast.ListLiteral:
		return e.evalListLiteral(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.FunctionLiteral:
		return &Function{
			Parameters: node.Parameters,
			ReturnType: node.ReturnType,
			Body:       node.Body,
			Env:        env,
			Line:       node.Token.Line,
			Column:     node.Token.Column,
		}
	default:
		return newError("unhandled node type %T", node)
	}
}

func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	// Predeclare top-level functions so definitions may call forward.
	e.hoistFunctions(program.Statements, env)

	var result Object = &Nil{}
	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)
		if result == nil {
			continue
		}
		switch result.Type() {
		case ERROR_OBJ:
			return result
		case RETURN_VALUE_OBJ:
			return result.(*ReturnValue).Value
		case BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
			tok := stmt.GetToken()
			return newKindError(KindRuntimeError, tok.Line, tok.Column,
				"%s outside of a loop", stmt.TokenLiteral())
		}
	}
	return result
}

// Blocks are function-scoped, not block-scoped: statements in a branch
// body bind in the enclosing function's environment, which is what lets
// every branch of a rewritten tail assign the one synthesized result
// binding the terminal return reads.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	e.hoistFunctions(block.Statements, env)

	var result Object = &Nil{}
	for _, stmt := range block.Statements {
		result = e.Eval(stmt, env)
		if result == nil {
			continue
		}
		switch result.Type() {
		case ERROR_OBJ, RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
			return result
		}
	}
	return result
}

func (e *Evaluator) hoistFunctions(stmts []ast.Statement, env *Environment) {
	for _, stmt := range stmts {
		fs, ok := stmt.(*ast.FunctionStatement)
		if !ok {
			continue
		}
		env.Set(fs.Name.Value, e.newFunction(fs, env))
	}
}

func (e *Evaluator) newFunction(fs *ast.FunctionStatement, env *Environment) *Function {
	return &Function{
		Name:       fs.Name.Value,
		Doc:        fs.Doc,
		Parameters: fs.Parameters,
		ReturnType: fs.ReturnType,
		Body:       fs.Body,
		Env:        env,
		Source:     fs.Source,
		Line:       fs.Token.Line,
		Column:     fs.Token.Column,
	}
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := Builtins[node.Value]; ok {
		return builtin
	}
	return newKindError(KindNameError, node.Token.Line, node.Token.Column,
		"undefined name: %s", node.Value)
}

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if !env.Update(node.Name.Value, val) {
		env.Set(node.Name.Value, val)
	}
	return &Nil{}
}

func (e *Evaluator) evalFunctionStatement(node *ast.FunctionStatement, env *Environment) Object {
	// Hoisting already bound the name; rebinding keeps later definitions
	// authoritative when a name is defined twice.
	env.Set(node.Name.Value, e.newFunction(node, env))
	return &Nil{}
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.Value == nil {
		return &ReturnValue{Value: &Nil{}}
	}
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, env *Environment) Object {
	elements := make([]Object, len(node.Elements))
	for i, el := range node.Elements {
		val := e.Eval(el, env)
		if isError(val) {
			return val
		}
		elements[i] = val
	}
	return &List{Elements: elements}
}
