package concrete

import (
	"fmt"
)

// Settings is an instance of a Class. Values assigned through Set shadow the
// class defaults for this instance only.
//
// Settings are not safe for concurrent use: reads of nested defaults, Set,
// Update and validation all mutate instance state. Callers that share an
// instance across goroutines must serialize access themselves.
type Settings struct {
	class      *Class
	values     map[string]any
	errors     ErrorTree
	provenance []FieldProvenance
}

// New creates an instance with every setting at its class default.
func (c *Class) New() *Settings {
	return &Settings{
		class:  c,
		values: make(map[string]any),
	}
}

// NewWith creates an instance and assigns the given values. The reserved
// arguments "value" and "type_hint" belong to the Setting protocol and are
// rejected, unless the class itself declares settings with those names.
func (c *Class) NewWith(args map[string]any) (*Settings, error) {
	s := c.New()
	for _, reserved := range []string{"value", "type_hint"} {
		if _, ok := args[reserved]; ok {
			if _, declared := c.index[reserved]; !declared {
				return nil, fmt.Errorf("%w: %q passed to %q", ErrReservedArgument, reserved, c.name)
			}
		}
	}
	for name, v := range args {
		if err := s.Set(name, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Class returns the class the instance was created from.
func (s *Settings) Class() *Class { return s.class }

// Names returns setting names in declaration order.
func (s *Settings) Names() []string { return s.class.Names() }

// Setting returns the class-level setting named name.
func (s *Settings) Setting(name string) (*Setting, bool) { return s.class.Setting(name) }

// Method returns a non-setting attribute of the class.
func (s *Settings) Method(name string) (any, bool) { return s.class.Method(name) }

// Get resolves a setting's value for this instance. Computed settings are
// evaluated on every call; stored settings return the instance value, falling
// back to the class default.
func (s *Settings) Get(name string) (any, error) {
	st, ok := s.class.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrUnknownSetting, name, s.class.name)
	}
	for _, b := range st.behaviors {
		if o, ok := b.(ReadObserver); ok {
			o.ObserveRead(s, st)
		}
	}
	return s.resolve(st), nil
}

// MustGet is like Get but panics on unknown names. It is meant for computed
// settings that read their siblings.
func (s *Settings) MustGet(name string) any {
	v, err := s.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Get resolves a setting and asserts its type.
func Get[T any](s *Settings, name string) (T, error) {
	var zero T
	v, err := s.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("concrete: setting %q holds %s, not %s", name, typeName(v), TypeOf[T]())
	}
	return t, nil
}

// Set assigns a value for this instance only. Property settings cannot be set.
// The value is not type checked here; validation reports mismatches.
func (s *Settings) Set(name string, value any) error {
	st, ok := s.class.index[name]
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrUnknownSetting, name, s.class.name)
	}
	if st.IsComputed() {
		return fmt.Errorf("can't set attribute %q: %w", name, ErrPropertySetting)
	}
	s.values[name] = value
	s.forgetProvenance(name)
	return nil
}

// resolve returns the effective value without notifying behaviors.
func (s *Settings) resolve(st *Setting) any {
	if st.compute != nil {
		return st.compute(s)
	}
	if v, ok := s.values[st.name]; ok {
		return v
	}
	// Nested defaults are copied on first access so instances never share a container.
	if nested, ok := st.value.(*Settings); ok && nested != nil {
		c := nested.clone()
		s.values[st.name] = c
		return c
	}
	return st.value
}

func (s *Settings) clone() *Settings {
	c := &Settings{
		class:  s.class,
		values: make(map[string]any, len(s.values)),
	}
	for k, v := range s.values {
		if nested, ok := v.(*Settings); ok && nested != nil {
			v = nested.clone()
		}
		c.values[k] = v
	}
	c.provenance = append(c.provenance, s.provenance...)
	return c
}
