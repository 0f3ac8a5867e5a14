package concrete

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrorNode is the error entry of a single setting: the messages of its
// failed validators, or the error tree of an invalid nested container, or both.
type ErrorNode struct {
	Messages []string
	Nested   ErrorTree
}

// IsNested reports whether the node carries a nested container's errors.
func (n ErrorNode) IsNested() bool { return n.Nested != nil }

// ErrorTree maps setting names to their errors, nesting to arbitrary depth.
type ErrorTree map[string]ErrorNode

// Flatten renders the tree as dot-separated field errors, sorted by path.
// Container-level errors (InvalidSettings) take the path of their container.
func (t ErrorTree) Flatten() []FieldError {
	var out []FieldError
	t.flatten("", &out)
	return out
}

func (t ErrorTree) flatten(prefix string, out *[]FieldError) {
	for _, name := range slices.Sorted(maps.Keys(t)) {
		node := t[name]
		path := prefix
		if name != InvalidSettings {
			path = joinPath(prefix, name)
		}
		for _, msg := range node.Messages {
			*out = append(*out, FieldError{FieldPath: path, Message: msg})
		}
		node.Nested.flatten(path, out)
	}
}

func (t ErrorTree) clone() ErrorTree {
	c := make(ErrorTree, len(t))
	for k, n := range t {
		c[k] = ErrorNode{
			Messages: slices.Clone(n.Messages),
			Nested:   n.Nested.cloneOrNil(),
		}
	}
	return c
}

func (t ErrorTree) cloneOrNil() ErrorTree {
	if t == nil {
		return nil
	}
	return t.clone()
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// ValidationError is returned by Settings.Check for an invalid container.
type ValidationError struct {
	Errors      ErrorTree
	FieldErrors []FieldError
}

func newValidationError(tree ErrorTree) *ValidationError {
	return &ValidationError{Errors: tree, FieldErrors: tree.Flatten()}
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "settings validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("settings validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "settings validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		if fe.FieldPath == "" {
			fmt.Fprintf(&b, "  - %s\n", fe.Message)
			continue
		}
		fmt.Fprintf(&b, "  - %s: %s\n", fe.FieldPath, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single setting validation failure.
type FieldError struct {
	FieldPath string // Dot notation (e.g., "DATABASE.HOST")
	Message   string // Human-readable description
}

// ConversionError reports an override that exists but cannot be coerced to the
// setting's type. It is distinct from NotFound.
type ConversionError struct {
	Key    string   // External key (e.g., "DATABASE_PORT")
	Raw    any      // Value as read from the source
	Target TypeHint // Requested type
	Cause  error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %#v to %s", e.Raw, e.Target)
	if e.Key != "" {
		msg = e.Key + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}
