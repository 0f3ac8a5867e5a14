package concrete

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuessType(t *testing.T) {
	type port uint16

	tests := []struct {
		name  string
		value any
		want  TypeHint
	}{
		{name: "bool is not an int", value: true, want: TypeOf[bool]()},
		{name: "int", value: 1, want: TypeOf[int]()},
		{name: "int64", value: int64(1), want: TypeOf[int64]()},
		{name: "float", value: 1.5, want: TypeOf[float64]()},
		{name: "complex", value: complex(1, 2), want: TypeOf[complex128]()},
		{name: "string", value: "x", want: TypeOf[string]()},
		{name: "bytes", value: []byte("x"), want: TypeOf[[]byte]()},
		{name: "list", value: []any{1, "a"}, want: TypeOf[[]any]()},
		{name: "dict", value: map[string]any{}, want: TypeOf[map[string]any]()},
		{name: "duration", value: time.Second, want: TypeOf[time.Duration]()},
		{name: "named type", value: port(80), want: TypeOf[port]()},
		{name: "nil", value: nil, want: Any},
		{name: "undefined", value: Undefined, want: Any},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessType(tt.value))
		})
	}
}

func TestGuessType_SettingsAndSetting(t *testing.T) {
	db := NewClass("Database").Field("HOST", "h").MustBuild()
	assert.Equal(t, db.Type(), GuessType(db.New()))
	assert.Equal(t, TypeOf[int](), GuessType(NewSetting(3)))
	assert.Equal(t, Any, GuessType(Computed(func(*Settings) any { return 1 })))
}

func TestTypeOf_EmptyInterfaceIsAny(t *testing.T) {
	assert.Equal(t, Any, TypeOf[any]())
	assert.True(t, TypeOf[any]().IsAny())
	assert.False(t, TypeOf[error]().IsAny())
}

func TestTypeHint_Accepts(t *testing.T) {
	parent := NewClass("Parent").Field("A", 1).MustBuild()
	child := NewClass("Child").Extends(parent).MustBuild()
	other := NewClass("Other").MustBuild()

	tests := []struct {
		name  string
		hint  TypeHint
		value any
		want  bool
	}{
		{name: "exact type", hint: TypeOf[int](), value: 1, want: true},
		{name: "bool for int", hint: TypeOf[int](), value: true, want: false},
		{name: "int for float", hint: TypeOf[float64](), value: 1, want: false},
		{name: "nil for int", hint: TypeOf[int](), value: nil, want: false},
		{name: "nil for slice", hint: TypeOf[[]string](), value: nil, want: true},
		{name: "interface implementation", hint: TypeOf[error](), value: errors.New("x"), want: true},
		{name: "any", hint: Any, value: struct{}{}, want: true},
		{name: "same class", hint: parent.Type(), value: parent.New(), want: true},
		{name: "subclass", hint: parent.Type(), value: child.New(), want: true},
		{name: "unrelated class", hint: parent.Type(), value: other.New(), want: false},
		{name: "plain value for class", hint: parent.Type(), value: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.hint.Accepts(tt.value))
		})
	}
}

func TestTypeHint_String(t *testing.T) {
	db := NewClass("Database").MustBuild()

	assert.Equal(t, "int", TypeOf[int]().String())
	assert.Equal(t, "[]string", TypeOf[[]string]().String())
	assert.Equal(t, "any", Any.String())
	assert.Equal(t, "settings:Database", db.Type().String())
	assert.Same(t, db, db.Type().Class())
	assert.Nil(t, db.Type().Reflect())
}
