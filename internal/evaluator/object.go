package evaluator

import (
	"fmt"
	"strconv"
	"strings"
)

type ObjectType string

const (
	INTEGER_OBJ          = "INTEGER"
	FLOAT_OBJ            = "FLOAT"
	BOOLEAN_OBJ          = "BOOLEAN"
	STRING_OBJ           = "STRING"
	NIL_OBJ              = "NIL"
	LIST_OBJ             = "LIST"
	FUNCTION_OBJ         = "FUNCTION"
	BUILTIN_OBJ          = "BUILTIN"
	WRAPPED_FUNCTION_OBJ = "WRAPPED_FUNCTION"
	PIPEABLE_OBJ         = "PIPEABLE"
	ERROR_OBJ            = "ERROR"
	RETURN_VALUE_OBJ     = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ     = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ  = "CONTINUE_SIGNAL"
)

// Runtime type names, as reported by typeOf.
const (
	TypeNameInt      = "Int"
	TypeNameFloat    = "Float"
	TypeNameBool     = "Bool"
	TypeNameString   = "String"
	TypeNameNil      = "Nil"
	TypeNameList     = "List"
	TypeNameFunction = "Function"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Nil
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// List
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	elems := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		if s, ok := el.(*String); ok {
			elems[i] = fmt.Sprintf("%q", s.Value)
		} else {
			elems[i] = el.Inspect()
		}
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// TypeName reports the runtime type name of obj as surfaced to scripts.
func TypeName(obj Object) string {
	switch obj.(type) {
	case *Integer:
		return TypeNameInt
	case *Float:
		return TypeNameFloat
	case *Boolean:
		return TypeNameBool
	case *String:
		return TypeNameString
	case *Nil:
		return TypeNameNil
	case *List:
		return TypeNameList
	case *Function, *Builtin, *WrappedFunction, *Pipeable:
		return TypeNameFunction
	default:
		return string(obj.Type())
	}
}
