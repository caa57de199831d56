package evaluator

import (
	"strings"

	"github.com/skuldlang/skuld/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "!":
		return boolObject(!isTruthy(right))
	case "-":
		switch right := right.(type) {
		case *Integer:
			return &Integer{Value: -right.Value}
		case *Float:
			return &Float{Value: -right.Value}
		}
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"unknown operator: -%s", TypeName(right))
	default:
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"unknown operator: %s%s", node.Operator, TypeName(right))
	}
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	// && and || short-circuit: the right side only evaluates when needed.
	if node.Operator == "&&" || node.Operator == "||" {
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		if node.Operator == "&&" && !isTruthy(left) {
			return FALSE
		}
		if node.Operator == "||" && isTruthy(left) {
			return TRUE
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return boolObject(isTruthy(right))
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "==":
		return boolObject(Equals(left, right))
	case "!=":
		return boolObject(!Equals(left, right))
	case "|":
		return e.evalPipeInfix(node, left, right)
	}

	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return e.evalIntegerInfix(node, left.(*Integer), right.(*Integer))
	case isNumber(left) && isNumber(right):
		return e.evalFloatInfix(node, toFloat(left), toFloat(right))
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return e.evalStringInfix(node, left.(*String), right.(*String))
	case left.Type() == LIST_OBJ && right.Type() == LIST_OBJ && node.Operator == "+":
		l, r := left.(*List), right.(*List)
		elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
		elements = append(elements, l.Elements...)
		elements = append(elements, r.Elements...)
		return &List{Elements: elements}
	default:
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"type mismatch: %s %s %s", TypeName(left), node.Operator, TypeName(right))
	}
}

// evalPipeInfix feeds the left value into a pipeable callable. The value
// becomes the first argument, ahead of any arguments bound earlier.
func (e *Evaluator) evalPipeInfix(node *ast.InfixExpression, left, right Object) Object {
	p, ok := right.(*Pipeable)
	if !ok {
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"right side of | must be a pipeable function, got %s", TypeName(right))
	}
	if _, ok := left.(*Pipeable); ok {
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"a pipeline must start with a value, not a pipeable function")
	}
	args := make([]Object, 0, len(p.Bound)+1)
	args = append(args, left)
	args = append(args, p.Bound...)
	return e.apply(p.Fn, args, node.Token.Line, node.Token.Column)
}

func (e *Evaluator) evalIntegerInfix(node *ast.InfixExpression, left, right *Integer) Object {
	switch node.Operator {
	case "+":
		return &Integer{Value: left.Value + right.Value}
	case "-":
		return &Integer{Value: left.Value - right.Value}
	case "*":
		return &Integer{Value: left.Value * right.Value}
	case "/":
		// Division always yields a float; use % for integer remainders.
		if right.Value == 0 {
			return newKindError(KindDivisionByZero, node.Token.Line, node.Token.Column,
				"division by zero")
		}
		return &Float{Value: float64(left.Value) / float64(right.Value)}
	case "%":
		if right.Value == 0 {
			return newKindError(KindDivisionByZero, node.Token.Line, node.Token.Column,
				"division by zero")
		}
		return &Integer{Value: left.Value % right.Value}
	case "<":
		return boolObject(left.Value < right.Value)
	case ">":
		return boolObject(left.Value > right.Value)
	case "<=":
		return boolObject(left.Value <= right.Value)
	case ">=":
		return boolObject(left.Value >= right.Value)
	default:
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"unknown operator: Int %s Int", node.Operator)
	}
}

func (e *Evaluator) evalFloatInfix(node *ast.InfixExpression, left, right float64) Object {
	switch node.Operator {
	case "+":
		return &Float{Value: left + right}
	case "-":
		return &Float{Value: left - right}
	case "*":
		return &Float{Value: left * right}
	case "/":
		if right == 0 {
			return newKindError(KindDivisionByZero, node.Token.Line, node.Token.Column,
				"division by zero")
		}
		return &Float{Value: left / right}
	case "<":
		return boolObject(left < right)
	case ">":
		return boolObject(left > right)
	case "<=":
		return boolObject(left <= right)
	case ">=":
		return boolObject(left >= right)
	default:
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"unknown operator: Float %s Float", node.Operator)
	}
}

func (e *Evaluator) evalStringInfix(node *ast.InfixExpression, left, right *String) Object {
	switch node.Operator {
	case "+":
		return &String{Value: left.Value + right.Value}
	case "<":
		return boolObject(strings.Compare(left.Value, right.Value) < 0)
	case ">":
		return boolObject(strings.Compare(left.Value, right.Value) > 0)
	case "<=":
		return boolObject(strings.Compare(left.Value, right.Value) <= 0)
	case ">=":
		return boolObject(strings.Compare(left.Value, right.Value) >= 0)
	default:
		return newKindError(KindTypeError, node.Token.Line, node.Token.Column,
			"unknown operator: String %s String", node.Operator)
	}
}

func isNumber(obj Object) bool {
	t := obj.Type()
	return t == INTEGER_OBJ || t == FLOAT_OBJ
}

func toFloat(obj Object) float64 {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value)
	case *Float:
		return obj.Value
	}
	return 0
}
