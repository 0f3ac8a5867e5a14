package concrete

import (
	"reflect"
)

// TypeHint is the semantic type of a setting. It is either a Go type, the type of
// a settings class (for nested containers) or Any.
// TypeHint values are comparable with ==.
type TypeHint struct {
	rtype reflect.Type
	class *Class
}

// Any accepts every value.
var Any = TypeHint{}

// TypeOf returns the type hint for T. An interface type accepts every value implementing it.
func TypeOf[T any]() TypeHint {
	return TypeFor(reflect.TypeFor[T]())
}

// TypeFor returns the type hint for a reflected type. A nil type or the empty
// interface yields Any.
func TypeFor(t reflect.Type) TypeHint {
	if t == nil || (t.Kind() == reflect.Interface && t.NumMethod() == 0) {
		return Any
	}
	return TypeHint{rtype: t}
}

// IsAny reports whether the hint accepts every value.
func (h TypeHint) IsAny() bool {
	if h.class != nil {
		return false
	}
	return h.rtype == nil
}

// Reflect returns the underlying Go type. It is nil for Any and for class hints.
func (h TypeHint) Reflect() reflect.Type {
	return h.rtype
}

// Class returns the settings class of a nested container hint, or nil.
func (h TypeHint) Class() *Class {
	return h.class
}

// String formats the hint the way error messages print it.
func (h TypeHint) String() string {
	switch {
	case h.class != nil:
		return "settings:" + h.class.name
	case h.rtype == nil:
		return "any"
	default:
		return h.rtype.String()
	}
}

// Accepts reports whether v may be stored in a setting of this type.
func (h TypeHint) Accepts(v any) bool {
	if h.IsAny() {
		return true
	}
	if h.class != nil {
		s, ok := v.(*Settings)
		return ok && s != nil && s.class.descendsFrom(h.class)
	}
	if v == nil {
		switch h.rtype.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(h.rtype)
}

// typeName renders the runtime type of v for messages.
func typeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case *Settings:
		return "settings:" + x.class.name
	default:
		return reflect.TypeOf(v).String()
	}
}

// GuessType infers a type hint from a default value. Matching is on the exact
// runtime type: a bool is never reported as an integer. Undefined, nil and
// computed settings yield Any. A settings instance yields its class.
func GuessType(v any) TypeHint {
	switch x := v.(type) {
	case nil, undefined:
		return Any
	case *Settings:
		if x == nil {
			return Any
		}
		return x.class.Type()
	case *Setting:
		if x == nil {
			return Any
		}
		return x.typeHint
	case bool:
		return TypeOf[bool]()
	case int:
		return TypeOf[int]()
	case int64:
		return TypeOf[int64]()
	case float64:
		return TypeOf[float64]()
	case complex128:
		return TypeOf[complex128]()
	case string:
		return TypeOf[string]()
	case []byte:
		return TypeOf[[]byte]()
	case []any:
		return TypeOf[[]any]()
	case map[string]any:
		return TypeOf[map[string]any]()
	default:
		return TypeFor(reflect.TypeOf(v))
	}
}
