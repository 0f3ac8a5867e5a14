package concrete

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Required fails for Undefined, nil and zero values (empty strings, slices and maps, 0, false).
func Required() Validator {
	return ValidatorFunc(func(value any, _ ValidationContext) error {
		if IsUndefined(value) || value == nil || isZeroValue(reflect.ValueOf(value)) {
			return errors.New("value is required but not provided")
		}
		return nil
	})
}

// Min fails for numbers below min, and for strings, slices and maps shorter than min.
// Undefined and values of other kinds pass.
func Min(min float64) Validator {
	return ValidatorFunc(func(value any, _ ValidationContext) error {
		n, unit, ok := measure(value)
		if ok && n < min {
			return fmt.Errorf("%s %v is below minimum %v", unit, n, min)
		}
		return nil
	})
}

// Max fails for numbers above max, and for strings, slices and maps longer than max.
// Undefined and values of other kinds pass.
func Max(max float64) Validator {
	return ValidatorFunc(func(value any, _ ValidationContext) error {
		n, unit, ok := measure(value)
		if ok && n > max {
			return fmt.Errorf("%s %v exceeds maximum %v", unit, n, max)
		}
		return nil
	})
}

// OneOf fails unless the value equals one of the allowed values. Undefined passes.
func OneOf(allowed ...any) Validator {
	return ValidatorFunc(func(value any, _ ValidationContext) error {
		if IsUndefined(value) {
			return nil
		}
		for _, a := range allowed {
			if reflect.DeepEqual(a, value) {
				return nil
			}
		}
		opts := make([]string, len(allowed))
		for i, a := range allowed {
			opts[i] = fmt.Sprint(a)
		}
		return fmt.Errorf("value %v must be one of: %s", value, strings.Join(opts, ", "))
	})
}

// Tag validates the value with a go-playground/validator tag such as
// "required,min=3" or "url". Undefined passes unless the tag contains "required".
func Tag(tag string) Validator {
	return ValidatorFunc(func(value any, vc ValidationContext) error {
		if IsUndefined(value) {
			if hasRule(tag, "required") {
				return errors.New("value is required but not provided")
			}
			return nil
		}
		if err := validate.Var(value, tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				if fe.Param() != "" {
					return fmt.Errorf("failed %q constraint (%s=%s)", fe.Tag(), fe.Tag(), fe.Param())
				}
				return fmt.Errorf("failed %q constraint", fe.Tag())
			}
			return err
		}
		return nil
	})
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}
	return false
}

// measure returns the number a Min/Max bound is compared against.
func measure(value any) (float64, string, bool) {
	if value == nil || IsUndefined(value) {
		return 0, "", false
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), "value", true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), "value", true
	case reflect.Float32, reflect.Float64:
		return v.Float(), "value", true
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(v.Len()), "length", true
	}
	return 0, "", false
}

// isZeroValue checks if a reflect.Value is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
