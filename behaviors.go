package concrete

import "log/slog"

type deprecated struct {
	reason string
}

// Deprecated logs a warning through the class logger every time the setting is read.
func Deprecated(reason string) Behavior {
	return deprecated{reason: reason}
}

func (deprecated) BehaviorName() string { return "deprecated" }

func (d deprecated) ObserveRead(s *Settings, setting *Setting) {
	s.class.logger.Warn("deprecated setting read",
		slog.String("class", s.class.name),
		slog.String("setting", setting.Name()),
		slog.String("reason", d.reason))
}

type secret struct{}

// Secret marks a setting whose value must not be displayed. Dumps redact it.
func Secret() Behavior {
	return secret{}
}

func (secret) BehaviorName() string { return "secret" }

// IsSecret reports whether the setting carries the Secret behavior.
func IsSecret(s *Setting) bool {
	return s.hasBehavior(func(b Behavior) bool {
		_, ok := b.(secret)
		return ok
	})
}

// IsDeprecated reports whether the setting carries the Deprecated behavior.
func IsDeprecated(s *Setting) bool {
	return s.hasBehavior(func(b Behavior) bool {
		_, ok := b.(deprecated)
		return ok
	})
}
