package concrete

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// ConvertString coerces a text representation (environment variable, flag) to
// hint. It supports bool, all integer and float kinds, complex numbers, string,
// []byte, time.Duration, encoding.TextUnmarshaler implementations, slices
// (comma-separated or a YAML/JSON list) and maps or structs (YAML/JSON).
// Conversion either succeeds completely or returns a *ConversionError.
func ConvertString(raw string, hint TypeHint) (any, error) {
	if hint.IsAny() {
		return raw, nil
	}
	if hint.class != nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: errors.New("settings containers cannot be read from text")}
	}

	v, err := convertString(raw, hint.rtype)
	if err != nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: err}
	}
	return v.Interface(), nil
}

func convertString(raw string, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	if t == durationType {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return out, err
		}
		out.SetInt(int64(d))
		return out, nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		u := reflect.New(t)
		if err := u.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return out, err
		}
		return u.Elem(), nil
	}

	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return out, err
		}
		out.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		c, err := strconv.ParseComplex(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return out, err
		}
		out.SetComplex(c)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			out.SetBytes([]byte(raw))
			return out, nil
		}
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "[") {
			return decodeStructured(trimmed, t)
		}
		if trimmed == "" {
			out.Set(reflect.MakeSlice(t, 0, 0))
			return out, nil
		}
		parts := strings.Split(trimmed, ",")
		out.Set(reflect.MakeSlice(t, 0, len(parts)))
		for _, p := range parts {
			elem, err := convertString(strings.TrimSpace(p), t.Elem())
			if err != nil {
				return out, fmt.Errorf("element %q: %w", p, err)
			}
			out.Set(reflect.Append(out, elem))
		}
	case reflect.Map, reflect.Struct, reflect.Array:
		return decodeStructured(raw, t)
	default:
		return out, fmt.Errorf("unsupported target kind %s", t.Kind())
	}
	return out, nil
}

// decodeStructured parses YAML (and therefore JSON) text into t.
func decodeStructured(raw string, t reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(t)
	if err := yaml.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
		return ptr.Elem(), err
	}
	return ptr.Elem(), nil
}

// parseBool accepts true/false, 1/0, yes/no, on/off in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", s)
	}
}

// ConvertValue coerces a value already decoded by a structured source (YAML,
// JSON, TOML, viper) to hint. Strings go through ConvertString; other values
// are decoded with mapstructure. Lossy float to integer conversions fail.
func ConvertValue(raw any, hint TypeHint) (any, error) {
	if hint.Accepts(raw) {
		return raw, nil
	}
	if s, ok := raw.(string); ok {
		return ConvertString(s, hint)
	}
	if hint.class != nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: errors.New("settings containers are populated setting by setting")}
	}
	if raw == nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: errors.New("null value")}
	}

	t := hint.rtype
	if f, ok := asFloat(raw); ok && isIntKind(t.Kind()) && f != math.Trunc(f) {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: errors.New("value has a fractional part")}
	}
	if err := checkRange(raw, t); err != nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: err}
	}

	ptr := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  ptr.Interface(),
		TagName: "setting",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: err}
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &ConversionError{Raw: raw, Target: hint, Cause: err}
	}
	return ptr.Elem().Interface(), nil
}

// checkRange rejects numbers that do not fit t. Non-numeric values and
// non-numeric targets pass.
func checkRange(raw any, t reflect.Type) error {
	rv := reflect.ValueOf(raw)
	target := reflect.New(t).Elem()
	overflow := false

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		switch {
		case isSignedKind(t.Kind()):
			overflow = target.OverflowInt(n)
		case isIntKind(t.Kind()):
			overflow = n < 0 || target.OverflowUint(uint64(n))
		case isFloatKind(t.Kind()):
			overflow = target.OverflowFloat(float64(n))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		switch {
		case isSignedKind(t.Kind()):
			overflow = u > math.MaxInt64 || target.OverflowInt(int64(u))
		case isIntKind(t.Kind()):
			overflow = target.OverflowUint(u)
		case isFloatKind(t.Kind()):
			overflow = target.OverflowFloat(float64(u))
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		switch {
		case isSignedKind(t.Kind()):
			overflow = f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f))
		case isIntKind(t.Kind()):
			overflow = f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f))
		case isFloatKind(t.Kind()):
			overflow = target.OverflowFloat(f)
		}
	}

	if overflow {
		return fmt.Errorf("value %v overflows %s", raw, t)
	}
	return nil
}

func isSignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
