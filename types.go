package concrete

import (
	"context"
	"errors"
)

// Source supplies override values for settings (env vars, files, flags, remote stores).
type Source interface {
	// Read returns the value for setting, coerced to its type hint, or NotFound.
	// parents holds the names of the enclosing containers, root first.
	// A present but malformed value is reported as an error, never as NotFound.
	Read(ctx context.Context, setting *Setting, parents []string) (any, error)

	// Name returns a human-readable identifier (e.g., "env", "file:config.yaml").
	Name() string
}

type notFound struct{}

func (notFound) String() string { return "NotFound" }

// NotFound is returned by Source.Read when the source has no value for a setting.
var NotFound any = notFound{}

type undefined struct{}

func (undefined) String() string { return "Undefined" }

// Undefined marks a setting as intentionally unset. It passes type checking for any type hint.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// IsNotFound reports whether v is the NotFound sentinel.
func IsNotFound(v any) bool {
	_, ok := v.(notFound)
	return ok
}

// ValidationContext describes the setting being validated.
type ValidationContext struct {
	Name     string
	Setting  *Setting
	Settings *Settings
}

// Validator checks a single setting value. A non-nil error fails the setting;
// its message is recorded in the container's error tree.
type Validator interface {
	Validate(value any, vc ValidationContext) error
}

// ValidatorFunc is a function adapter for Validator interface.
type ValidatorFunc func(value any, vc ValidationContext) error

func (f ValidatorFunc) Validate(value any, vc ValidationContext) error {
	return f(value, vc)
}

// Behavior is an extension hook attached to a setting. The core stores behaviors
// in declaration order and hands them back untouched; optional interfaces such as
// ReadObserver let a behavior take part in the read protocol.
type Behavior interface {
	BehaviorName() string
}

// ReadObserver is implemented by behaviors that want to be told about reads.
type ReadObserver interface {
	ObserveRead(s *Settings, setting *Setting)
}

// ValidateFunc replaces the container-wide validation step. It may call
// Settings.ValidateSettings to run the per-setting pipeline. Returning an error
// records its message under InvalidSettings.
type ValidateFunc func(s *Settings) (ErrorTree, error)

// InvalidSettings is the error tree key for failures raised by a ValidateFunc.
const InvalidSettings = "__invalid_settings__"

// Access and declaration errors.
var (
	ErrPropertySetting    = errors.New("concrete: property setting cannot be set")
	ErrReservedArgument   = errors.New("concrete: settings cannot be constructed with value or type_hint")
	ErrUnknownSetting     = errors.New("concrete: unknown setting")
	ErrDuplicateSetting   = errors.New("concrete: duplicate setting name")
	ErrSettingConflict    = errors.New("concrete: setting name conflict")
	ErrEmptyPrefix        = errors.New("concrete: prefix cannot be empty")
	ErrInvalidPrefix      = errors.New("concrete: prefix should be a valid identifier")
	ErrInvalidDeclaration = errors.New("concrete: invalid settings declaration")
	ErrUnknownSource      = errors.New("concrete: no registered source accepts value")
)
