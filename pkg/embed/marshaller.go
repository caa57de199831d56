package skuld

import (
	"fmt"
	"reflect"

	"github.com/skuldlang/skuld/internal/evaluator"
)

// Marshaller handles conversion between Go and Skuld values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a Skuld Object.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return &evaluator.Nil{}, nil
	}

	// Check if already an Object
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &evaluator.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		elements := make([]evaluator.Object, v.Len())
		for i := 0; i < v.Len(); i++ {
			el, err := m.ToValue(v.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elements[i] = el
		}
		return &evaluator.List{Elements: elements}, nil
	default:
		return nil, fmt.Errorf("unsupported Go type for conversion: %T", val)
	}
}

// FromValue converts a Skuld Object to a Go value.
func (m *Marshaller) FromValue(obj evaluator.Object) (interface{}, error) {
	switch o := obj.(type) {
	case nil, *evaluator.Nil:
		return nil, nil
	case *evaluator.Integer:
		return o.Value, nil
	case *evaluator.Float:
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.List:
		out := make([]interface{}, len(o.Elements))
		for i, el := range o.Elements {
			val, err := m.FromValue(el)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case *evaluator.Function, *evaluator.WrappedFunction, *evaluator.Builtin:
		// Callables stay opaque; use VM.Call to invoke them.
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
}
