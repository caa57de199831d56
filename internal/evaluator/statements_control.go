package evaluator

import (
	"github.com/skuldlang/skuld/internal/ast"
)

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := e.Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return e.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return &Nil{}
}

func (e *Evaluator) evalTryStatement(node *ast.TryStatement, env *Environment) Object {
	result := e.evalTryChain(node, env)

	// finally always runs and never supplies the result, but its own
	// raised errors and control signals take precedence.
	if node.Finally != nil {
		finResult := e.Eval(node.Finally, env)
		if finResult != nil {
			switch finResult.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
				return finResult
			}
		}
	}
	return result
}

func (e *Evaluator) evalTryChain(node *ast.TryStatement, env *Environment) Object {
	bodyResult := e.Eval(node.Body, env)

	if raised, ok := bodyResult.(*Error); ok {
		for _, handler := range node.Handlers {
			if !handlerMatches(handler, raised) {
				continue
			}
			if handler.Binding != nil {
				env.Set(handler.Binding.Value, &String{Value: raised.Message})
			}
			return e.Eval(handler.Body, env)
		}
		return raised // no handler covers this kind
	}

	if bodyResult != nil {
		switch bodyResult.Type() {
		case RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
			return bodyResult
		}
	}

	if node.Else != nil {
		return e.Eval(node.Else, env)
	}
	return bodyResult
}

func handlerMatches(handler *ast.CatchClause, err *Error) bool {
	if len(handler.Kinds) == 0 {
		return true
	}
	for _, kind := range handler.Kinds {
		if kind.Value == err.Kind {
			return true
		}
	}
	return false
}

func (e *Evaluator) evalMatchStatement(node *ast.MatchStatement, env *Environment) Object {
	subject := e.Eval(node.Subject, env)
	if isError(subject) {
		return subject
	}

	for _, arm := range node.Arms {
		matched := e.matchPattern(arm.Pattern, subject, env)
		if isError(matched) {
			return matched
		}
		if matched != TRUE {
			continue
		}

		if arm.Guard != nil {
			guardResult := e.Eval(arm.Guard, env)
			if isError(guardResult) {
				return guardResult
			}
			if !isTruthy(guardResult) {
				continue
			}
		}
		return e.Eval(arm.Body, env)
	}

	tok := node.GetToken()
	return newKindError(KindMatchError, tok.Line, tok.Column,
		"non-exhaustive match: no arm matched %s", subject.Inspect())
}

// matchPattern reports TRUE/FALSE, binding identifier patterns as a side
// effect. Errors can only arise from evaluating a literal pattern.
func (e *Evaluator) matchPattern(pat ast.Pattern, val Object, env *Environment) Object {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return TRUE
	case *ast.IdentifierPattern:
		env.Set(p.Value, val)
		return TRUE
	case *ast.LiteralPattern:
		want := e.Eval(p.Value, env)
		if isError(want) {
			return want
		}
		return boolObject(Equals(want, val))
	default:
		tok := pat.GetToken()
		return newKindError(KindMatchError, tok.Line, tok.Column,
			"unsupported pattern %T", pat)
	}
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		condition := e.Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return &Nil{}
		}

		result := e.Eval(node.Body, env)
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ:
				return result
			case BREAK_SIGNAL_OBJ:
				return &Nil{}
			}
		}
	}
}

func (e *Evaluator) evalForStatement(node *ast.ForStatement, env *Environment) Object {
	iterable := e.Eval(node.Iterable, env)
	if isError(iterable) {
		return iterable
	}

	var items []Object
	switch it := iterable.(type) {
	case *List:
		items = it.Elements
	case *String:
		for _, r := range it.Value {
			items = append(items, &String{Value: string(r)})
		}
	default:
		tok := node.Iterable.GetToken()
		return newKindError(KindTypeError, tok.Line, tok.Column,
			"cannot iterate over %s", TypeName(iterable))
	}

	for _, item := range items {
		env.Set(node.ItemName.Value, item)
		result := e.Eval(node.Body, env)
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ:
				return result
			case BREAK_SIGNAL_OBJ:
				return &Nil{}
			}
		}
	}
	return &Nil{}
}
