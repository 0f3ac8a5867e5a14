package concrete

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/Azhovan/concrete/internal/normalize"
)

// Class is a built settings definition: an ordered set of named settings plus
// the validators and hooks shared by every instance. A Class is immutable and
// safe to share; instances are created with New.
type Class struct {
	name                string
	parent              *Class
	settings            []*Setting
	index               map[string]*Setting
	validators          map[string][]Validator
	methods             map[string]any
	defaultValidators   []Validator
	mandatoryValidators []Validator
	validate            ValidateFunc
	logger              *slog.Logger
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the class this one extends, or nil.
func (c *Class) Parent() *Class { return c.parent }

// Type returns the type hint matching instances of this class and its subclasses.
func (c *Class) Type() TypeHint { return TypeHint{class: c} }

// Settings returns the settings in declaration order (inherited first).
func (c *Class) Settings() []*Setting {
	out := make([]*Setting, len(c.settings))
	copy(out, c.settings)
	return out
}

// Setting looks up a setting by name.
func (c *Class) Setting(name string) (*Setting, bool) {
	s, ok := c.index[name]
	return s, ok
}

// Names returns setting names in declaration order.
func (c *Class) Names() []string {
	names := make([]string, len(c.settings))
	for i, s := range c.settings {
		names[i] = s.name
	}
	return names
}

// DefaultValidators returns the validators applied to settings without their own.
func (c *Class) DefaultValidators() []Validator { return c.defaultValidators }

// MandatoryValidators returns the validators applied to every setting.
func (c *Class) MandatoryValidators() []Validator { return c.mandatoryValidators }

// ValidatorsFor returns the full validator chain run for a setting, excluding
// the built-in type check.
func (c *Class) ValidatorsFor(name string) []Validator {
	return c.validators[name]
}

// Method returns a non-setting attribute declared on the class or its parents.
func (c *Class) Method(name string) (any, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Logger returns the class logger.
func (c *Class) Logger() *slog.Logger { return c.logger }

func (c *Class) descendsFrom(other *Class) bool {
	for k := c; k != nil; k = k.parent {
		if k == other {
			return true
		}
	}
	return false
}

type declaration struct {
	name     string
	value    any
	hint     TypeHint
	declared bool
}

// ClassBuilder collects declarations for a Class. Declaration problems are
// accumulated and reported together by Build.
type ClassBuilder struct {
	name        string
	parent      *Class
	decls       []declaration
	seen        map[string]bool
	methods     map[string]any
	defaults    []Validator
	defaultsSet bool
	mandatory   []Validator
	validate    ValidateFunc
	prefix      string
	prefixSet   bool
	logger      *slog.Logger
	errs        []error
}

// NewClass starts a class definition.
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{
		name:    name,
		seen:    make(map[string]bool),
		methods: make(map[string]any),
	}
}

// Extends makes the class inherit settings, validators, methods and the validate hook of parent.
func (b *ClassBuilder) Extends(parent *Class) *ClassBuilder {
	b.parent = parent
	return b
}

// Field declares an attribute without a type annotation.
// A *Setting is kept as is; a *Settings becomes a nested container setting;
// a function value is kept as a method, not a setting; anything else is wrapped
// in a setting with a guessed type. Redefining an inherited setting with a plain
// value keeps the inherited type, validators, doc and behaviors.
func (b *ClassBuilder) Field(name string, value any) *ClassBuilder {
	if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
		return b.Method(name, value)
	}
	b.declare(declaration{name: name, value: value})
	return b
}

// Declare declares an attribute with an explicit type annotation.
func (b *ClassBuilder) Declare(name string, hint TypeHint, value any) *ClassBuilder {
	b.declare(declaration{name: name, value: value, hint: hint, declared: true})
	return b
}

// Method declares a non-setting attribute. Methods are never validated or overridden by sources.
func (b *ClassBuilder) Method(name string, fn any) *ClassBuilder {
	if b.seen[name] {
		b.errs = append(b.errs, fmt.Errorf("%w: %q declared twice in class %q", ErrDuplicateSetting, name, b.name))
		return b
	}
	b.seen[name] = true
	b.methods[name] = fn
	return b
}

// DefaultValidators sets validators applied to every setting that has no
// validators of its own. They replace the parent's default validators.
func (b *ClassBuilder) DefaultValidators(validators ...Validator) *ClassBuilder {
	b.defaults = validators
	b.defaultsSet = true
	return b
}

// MandatoryValidators adds validators applied to every setting. They are
// appended to the parent's mandatory validators and cannot be removed.
func (b *ClassBuilder) MandatoryValidators(validators ...Validator) *ClassBuilder {
	b.mandatory = append(b.mandatory, validators...)
	return b
}

// ValidateWith replaces the container-wide validation step.
func (b *ClassBuilder) ValidateWith(fn ValidateFunc) *ClassBuilder {
	b.validate = fn
	return b
}

// Prefix renames every setting to PREFIX_NAME when the class is built.
func (b *ClassBuilder) Prefix(prefix string) *ClassBuilder {
	b.prefix = prefix
	b.prefixSet = true
	return b
}

// Logger sets the logger used by behaviors and Update. Defaults to the parent's, or discard.
func (b *ClassBuilder) Logger(logger *slog.Logger) *ClassBuilder {
	b.logger = logger
	return b
}

func (b *ClassBuilder) declare(d declaration) {
	if d.name == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: empty setting name in class %q", ErrInvalidDeclaration, b.name))
		return
	}
	if b.seen[d.name] {
		b.errs = append(b.errs, fmt.Errorf("%w: %q declared twice in class %q", ErrDuplicateSetting, d.name, b.name))
		return
	}
	b.seen[d.name] = true
	b.decls = append(b.decls, d)
}

// Build assembles the class. Declaration errors are fatal and joined into one error.
func (b *ClassBuilder) Build() (*Class, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	c := &Class{
		name:       b.name,
		parent:     b.parent,
		index:      make(map[string]*Setting),
		validators: make(map[string][]Validator),
		methods:    make(map[string]any),
		logger:     b.logger,
		validate:   b.validate,
	}

	// Step 1: inherit
	var order []string
	merged := make(map[string]*Setting)
	if p := b.parent; p != nil {
		for _, s := range p.settings {
			order = append(order, s.name)
			merged[s.name] = s
		}
		for k, v := range p.methods {
			c.methods[k] = v
		}
		c.defaultValidators = p.defaultValidators
		c.mandatoryValidators = append(c.mandatoryValidators, p.mandatoryValidators...)
		if c.validate == nil {
			c.validate = p.validate
		}
		if c.logger == nil {
			c.logger = p.logger
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	for k, v := range b.methods {
		if _, ok := merged[k]; ok {
			return nil, fmt.Errorf("%w: method %q shadows inherited setting in class %q", ErrSettingConflict, k, b.name)
		}
		c.methods[k] = v
	}

	// Step 2: wrap declarations into settings
	for _, d := range b.decls {
		if _, ok := c.methods[d.name]; ok {
			return nil, fmt.Errorf("%w: setting %q shadows inherited method in class %q", ErrSettingConflict, d.name, b.name)
		}
		s := wrap(d, merged[d.name])
		if _, ok := merged[d.name]; !ok {
			order = append(order, d.name)
		}
		merged[d.name] = s
	}

	// Step 3: prefix renaming
	if b.prefixSet {
		renamed, renamedOrder, err := applyPrefix(b.name, b.prefix, merged, c.methods, order)
		if err != nil {
			return nil, err
		}
		merged, order = renamed, renamedOrder
	}

	// Step 4: validators
	if b.defaultsSet {
		c.defaultValidators = b.defaults
	}
	c.mandatoryValidators = append(c.mandatoryValidators, b.mandatory...)

	for _, name := range order {
		s := merged[name].withName(name)
		c.settings = append(c.settings, s)
		c.index[name] = s
		c.validators[name] = c.chainFor(s)
	}

	return c, nil
}

// MustBuild is like Build but panics on declaration errors.
func (b *ClassBuilder) MustBuild() *Class {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// chainFor concatenates default, mandatory and own validators. A setting with
// validators of its own overrides the default ones; mandatory ones always run.
func (c *Class) chainFor(s *Setting) []Validator {
	var chain []Validator
	if len(s.validators) == 0 {
		chain = append(chain, c.defaultValidators...)
	}
	chain = append(chain, c.mandatoryValidators...)
	return append(chain, s.validators...)
}

func wrap(d declaration, inherited *Setting) *Setting {
	switch v := d.value.(type) {
	case *Setting:
		if d.declared && !v.typed {
			c := *v
			c.typeHint = d.hint
			c.typed = true
			return &c
		}
		return v
	case *Settings:
		hint := v.class.Type()
		if d.declared {
			hint = d.hint
		}
		return NewSetting(v, WithType(hint))
	}

	if d.declared {
		return NewSetting(d.value, WithType(d.hint))
	}
	if inherited != nil && !inherited.IsComputed() {
		c := *inherited
		c.value = d.value
		return &c
	}
	return NewSetting(d.value)
}

func applyPrefix(className, prefix string, settings map[string]*Setting, methods map[string]any, order []string) (map[string]*Setting, []string, error) {
	if prefix == "" {
		return nil, nil, ErrEmptyPrefix
	}
	if !normalize.IsIdentifier(prefix) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}

	renamed := make(map[string]*Setting, len(settings))
	renamedOrder := make([]string, 0, len(order))
	for _, name := range order {
		newName := prefix + "_" + name
		if _, ok := settings[newName]; ok {
			return nil, nil, fmt.Errorf("%w: class %q already has setting field named %q", ErrSettingConflict, className, newName)
		}
		if _, ok := methods[newName]; ok {
			return nil, nil, fmt.Errorf("%w: class %q already has method named %q", ErrSettingConflict, className, newName)
		}
		renamed[newName] = settings[name]
		renamedOrder = append(renamedOrder, newName)
	}
	return renamed, renamedOrder, nil
}
