package concrete

import (
	"reflect"
	"strings"
)

// tagConfig holds parsed directives from a struct field's `setting` tag.
type tagConfig struct {
	name         string // Setting name (name:HOST)
	deprecated   string // Deprecation reason (deprecated:reason)
	skip         bool   // Field is not a setting (-)
	undefined    bool   // Default is Undefined instead of the field value
	secret       bool   // Field is secret (secret or secret:true)
	isDeprecated bool   // Whether a deprecated directive was present
}

// parseTag parses a `setting` tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2,..."
// Boolean directives can omit `:true` (e.g., "secret" == "secret:true").
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}

	if tag == "" {
		return cfg
	}
	if strings.TrimSpace(tag) == "-" {
		cfg.skip = true
		return cfg
	}

	for _, directive := range strings.Split(tag, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		parts := strings.SplitN(directive, ":", 2)
		name := strings.TrimSpace(parts[0])
		var value string
		if len(parts) > 1 {
			value = parts[1]
		}

		switch name {
		case "name":
			cfg.name = strings.TrimSpace(value)
		case "deprecated":
			cfg.deprecated = value
			cfg.isDeprecated = true
		case "undefined":
			cfg.undefined = value == "" || value == "true"
		case "secret":
			cfg.secret = value == "" || value == "true"
		}
	}

	return cfg
}

// ClassOf starts a class definition from a struct prototype (or a pointer to
// one). Every exported field becomes a setting: the field type is its declared
// type (an `any` field falls back to type guessing) and the field value its
// default. Nested struct fields, other than types from package time, become
// nested settings classes named after the field.
//
// Field tags:
//
//	setting:"name:HOST,secret,undefined,deprecated:use ADDR"  (or "-" to skip)
//	doc:"human readable description"
//	validate:"required,min=1"  (go-playground/validator syntax)
//
// Func-typed fields are kept as methods.
func ClassOf(name string, proto any) *ClassBuilder {
	b := NewClass(name)

	v := reflect.ValueOf(proto)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			b.errs = append(b.errs, ErrInvalidDeclaration)
			return b
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		b.errs = append(b.errs, ErrInvalidDeclaration)
		return b
	}

	bindStruct(b, v)
	return b
}

func bindStruct(b *ClassBuilder, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tags := parseTag(field.Tag.Get("setting"))
		if tags.skip {
			continue
		}

		name := field.Name
		if tags.name != "" {
			name = tags.name
		}
		fieldValue := v.Field(i)

		if field.Type.Kind() == reflect.Func {
			b.Method(name, fieldValue.Interface())
			continue
		}

		// Nested structs become nested classes; time.Time stays a leaf.
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			nested, err := ClassOf(field.Name, fieldValue.Interface()).Build()
			if err != nil {
				b.errs = append(b.errs, err)
				continue
			}
			b.Declare(name, nested.Type(), NewSetting(nested.New(), settingOptions(field, tags)...))
			continue
		}

		var value any = fieldValue.Interface()
		if tags.undefined {
			value = Undefined
		}

		if field.Type.Kind() == reflect.Interface && field.Type.NumMethod() == 0 {
			b.Field(name, NewSetting(value, settingOptions(field, tags)...))
			continue
		}
		b.Declare(name, TypeFor(field.Type), NewSetting(value, settingOptions(field, tags)...))
	}
}

func settingOptions(field reflect.StructField, tags tagConfig) []SettingOption {
	var opts []SettingOption
	if doc := field.Tag.Get("doc"); doc != "" {
		opts = append(opts, WithDoc(doc))
	}
	if rule := field.Tag.Get("validate"); rule != "" {
		opts = append(opts, WithValidators(Tag(rule)))
	}

	var behaviors []Behavior
	if tags.secret {
		behaviors = append(behaviors, Secret())
	}
	if tags.isDeprecated {
		behaviors = append(behaviors, Deprecated(tags.deprecated))
	}
	if len(behaviors) > 0 {
		opts = append(opts, WithBehaviors(behaviors...))
	}
	return opts
}
