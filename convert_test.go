package concrete

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		hint TypeHint
		want any
	}{
		{name: "any keeps text", raw: "x", hint: Any, want: "x"},
		{name: "string", raw: " padded ", hint: TypeOf[string](), want: " padded "},
		{name: "int", raw: "42", hint: TypeOf[int](), want: 42},
		{name: "int trims space", raw: " 42 ", hint: TypeOf[int](), want: 42},
		{name: "int8", raw: "-8", hint: TypeOf[int8](), want: int8(-8)},
		{name: "uint", raw: "7", hint: TypeOf[uint](), want: uint(7)},
		{name: "float", raw: "1.5", hint: TypeOf[float64](), want: 1.5},
		{name: "complex", raw: "1+2i", hint: TypeOf[complex128](), want: complex(1, 2)},
		{name: "bool true", raw: "true", hint: TypeOf[bool](), want: true},
		{name: "bool yes", raw: "YES", hint: TypeOf[bool](), want: true},
		{name: "bool on", raw: "on", hint: TypeOf[bool](), want: true},
		{name: "bool zero", raw: "0", hint: TypeOf[bool](), want: false},
		{name: "bool off", raw: "off", hint: TypeOf[bool](), want: false},
		{name: "bytes", raw: "abc", hint: TypeOf[[]byte](), want: []byte("abc")},
		{name: "duration", raw: "1m30s", hint: TypeOf[time.Duration](), want: 90 * time.Second},
		{name: "comma list", raw: "a, b ,c", hint: TypeOf[[]string](), want: []string{"a", "b", "c"}},
		{name: "int list", raw: "1,2,3", hint: TypeOf[[]int](), want: []int{1, 2, 3}},
		{name: "empty list", raw: "", hint: TypeOf[[]string](), want: []string{}},
		{name: "json list", raw: `["a,b", "c"]`, hint: TypeOf[[]string](), want: []string{"a,b", "c"}},
		{name: "yaml map", raw: "a: 1\nb: 2", hint: TypeOf[map[string]int](), want: map[string]int{"a": 1, "b": 2}},
		{name: "json map", raw: `{"a": "x"}`, hint: TypeOf[map[string]string](), want: map[string]string{"a": "x"}},
		{name: "text unmarshaler", raw: "127.0.0.1", hint: TypeOf[net.IP](), want: net.ParseIP("127.0.0.1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertString(tt.raw, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertString_Errors(t *testing.T) {
	db := NewClass("Database").MustBuild()

	tests := []struct {
		name string
		raw  string
		hint TypeHint
	}{
		{name: "int", raw: "abc", hint: TypeOf[int]()},
		{name: "int overflow", raw: "300", hint: TypeOf[int8]()},
		{name: "negative uint", raw: "-1", hint: TypeOf[uint]()},
		{name: "bool", raw: "maybe", hint: TypeOf[bool]()},
		{name: "duration", raw: "soon", hint: TypeOf[time.Duration]()},
		{name: "list element", raw: "1,x", hint: TypeOf[[]int]()},
		{name: "map", raw: "[1, 2]", hint: TypeOf[map[string]int]()},
		{name: "ip", raw: "not-an-ip", hint: TypeOf[net.IP]()},
		{name: "settings container", raw: "x", hint: db.Type()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertString(tt.raw, tt.hint)
			assert.Nil(t, got)

			var ce *ConversionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.raw, ce.Raw)
			assert.Equal(t, tt.hint, ce.Target)
		})
	}
}

func TestConvertValue(t *testing.T) {
	type endpoint struct {
		Host string        `setting:"host"`
		Wait time.Duration `setting:"wait"`
	}

	tests := []struct {
		name string
		raw  any
		hint TypeHint
		want any
	}{
		{name: "assignable passes through", raw: 8080, hint: TypeOf[int](), want: 8080},
		{name: "whole float to int", raw: float64(8080), hint: TypeOf[int](), want: 8080},
		{name: "int64 to int", raw: int64(5), hint: TypeOf[int](), want: 5},
		{name: "int64 within int8", raw: int64(-128), hint: TypeOf[int8](), want: int8(-128)},
		{name: "float within uint16", raw: float64(65535), hint: TypeOf[uint16](), want: uint16(65535)},
		{name: "int to float32", raw: 3, hint: TypeOf[float32](), want: float32(3)},
		{name: "string through text rules", raw: "yes", hint: TypeOf[bool](), want: true},
		{name: "string to duration", raw: "10s", hint: TypeOf[time.Duration](), want: 10 * time.Second},
		{name: "list of any", raw: []any{"a", "b"}, hint: TypeOf[[]string](), want: []string{"a", "b"}},
		{
			name: "map to struct",
			raw:  map[string]any{"host": "db", "wait": "2s"},
			hint: TypeOf[endpoint](),
			want: endpoint{Host: "db", Wait: 2 * time.Second},
		},
		{name: "any", raw: map[string]any{"a": 1}, hint: Any, want: map[string]any{"a": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertValue(tt.raw, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertValue_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		hint TypeHint
	}{
		{name: "fractional float to int", raw: 1.5, hint: TypeOf[int]()},
		{name: "bool to int", raw: true, hint: TypeOf[int]()},
		{name: "null", raw: nil, hint: TypeOf[int]()},
		{name: "map to settings", raw: map[string]any{}, hint: NewClass("Database").MustBuild().Type()},
		{name: "int overflows int8", raw: 300, hint: TypeOf[int8]()},
		{name: "int64 overflows int32", raw: int64(5e9), hint: TypeOf[int32]()},
		{name: "negative int to uint", raw: -1, hint: TypeOf[uint]()},
		{name: "float overflows int", raw: 1e20, hint: TypeOf[int]()},
		{name: "float overflows uint16", raw: float64(70000), hint: TypeOf[uint16]()},
		{name: "negative float to uint", raw: float64(-3), hint: TypeOf[uint]()},
		{name: "uint overflows int64", raw: uint64(1 << 63), hint: TypeOf[int64]()},
		{name: "float overflows float32", raw: 1e300, hint: TypeOf[float32]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertValue(tt.raw, tt.hint)

			var ce *ConversionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.hint, ce.Target)
		})
	}
}
