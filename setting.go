package concrete

// Setting is a single named, typed, validated configuration field.
// A setting either stores a default value or wraps a computation that is
// evaluated against the owning Settings instance on every read.
// Settings are immutable once their class is built.
type Setting struct {
	name       string
	value      any
	compute    func(*Settings) any
	typeHint   TypeHint
	typed      bool // type hint given explicitly
	validators []Validator
	doc        string
	behaviors  []Behavior
}

// SettingOption configures a Setting at construction.
type SettingOption func(*Setting)

// WithType declares the setting's type, disabling type guessing.
func WithType(t TypeHint) SettingOption {
	return func(s *Setting) {
		s.typeHint = t
		s.typed = true
	}
}

// WithValidators sets the setting's own validators, run after the container's.
func WithValidators(validators ...Validator) SettingOption {
	return func(s *Setting) {
		s.validators = validators
	}
}

// WithDoc sets the human-readable description.
func WithDoc(doc string) SettingOption {
	return func(s *Setting) {
		s.doc = doc
	}
}

// WithBehaviors attaches behaviors in order.
func WithBehaviors(behaviors ...Behavior) SettingOption {
	return func(s *Setting) {
		s.behaviors = behaviors
	}
}

// NewSetting creates a stored setting. Without WithType the type hint is
// guessed from value.
func NewSetting(value any, opts ...SettingOption) *Setting {
	s := &Setting{value: value}
	for _, opt := range opts {
		opt(s)
	}
	if !s.typed {
		s.typeHint = GuessType(value)
	}
	return s
}

// Computed creates a property setting. Its type hint is Any unless WithType is given.
func Computed(fn func(*Settings) any, opts ...SettingOption) *Setting {
	s := &Setting{compute: fn, value: Undefined, typeHint: Any}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputedOf creates a property setting whose type hint is the computation's
// return type, unless WithType overrides it.
func ComputedOf[T any](fn func(*Settings) T, opts ...SettingOption) *Setting {
	wrapped := func(s *Settings) any { return fn(s) }
	return Computed(wrapped, append([]SettingOption{WithType(TypeOf[T]())}, opts...)...)
}

// Name returns the name assigned when the owning class was built.
func (s *Setting) Name() string { return s.name }

// Value returns the class-level default. It is Undefined for computed settings.
func (s *Setting) Value() any { return s.value }

// IsComputed reports whether the setting is a property setting.
func (s *Setting) IsComputed() bool { return s.compute != nil }

// TypeHint returns the declared or guessed type.
func (s *Setting) TypeHint() TypeHint { return s.typeHint }

// Validators returns the setting's own validators.
func (s *Setting) Validators() []Validator { return s.validators }

// Doc returns the description.
func (s *Setting) Doc() string { return s.doc }

// Behaviors returns the attached behaviors in declaration order.
func (s *Setting) Behaviors() []Behavior { return s.behaviors }

// withName returns a copy bound to name. Classes never share Setting values,
// so renaming in one class cannot leak into another.
func (s *Setting) withName(name string) *Setting {
	c := *s
	c.name = name
	return &c
}

func (s *Setting) hasBehavior(match func(Behavior) bool) bool {
	for _, b := range s.behaviors {
		if match(b) {
			return true
		}
	}
	return false
}
