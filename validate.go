package concrete

import (
	"fmt"
)

// TypeCheck is the built-in validator run after every other validator. It
// fails when the value is not assignable to the setting's type hint.
// Undefined passes for any type.
var TypeCheck ValidatorFunc = func(value any, vc ValidationContext) error {
	if IsUndefined(value) {
		return nil
	}
	hint := vc.Setting.TypeHint()
	if !hint.Accepts(value) {
		return fmt.Errorf("Expected value of type `%s` got value of type `%s`", hint, typeName(value))
	}
	return nil
}

// IsValid validates the instance and reports whether it has no errors,
// including errors of nested containers and of the validate hook.
func (s *Settings) IsValid() bool {
	s.errors = s.runValidation()
	return len(s.errors) == 0
}

// Check validates the instance and returns a *ValidationError listing every
// failing setting, or nil.
func (s *Settings) Check() error {
	if s.IsValid() {
		return nil
	}
	return newValidationError(s.Errors())
}

// Errors returns the error tree produced by the most recent validation.
// The returned tree is a copy; it is empty before the first validation.
func (s *Settings) Errors() ErrorTree {
	return s.errors.clone()
}

func (s *Settings) runValidation() ErrorTree {
	if s.class.validate == nil {
		return s.ValidateSettings()
	}
	tree, err := s.class.validate(s)
	if err != nil {
		return ErrorTree{InvalidSettings: {Messages: []string{err.Error()}}}
	}
	if tree == nil {
		return ErrorTree{}
	}
	return tree
}

// ValidateSettings runs the per-setting pipeline: default, mandatory and own
// validators, then TypeCheck. Every validator runs; all messages are kept.
// Nested containers are validated recursively and contribute their whole tree.
func (s *Settings) ValidateSettings() ErrorTree {
	tree := make(ErrorTree)
	for _, st := range s.class.settings {
		value := s.resolve(st)
		vc := ValidationContext{Name: st.name, Setting: st, Settings: s}

		var node ErrorNode
		for _, v := range s.class.validators[st.name] {
			if err := v.Validate(value, vc); err != nil {
				node.Messages = append(node.Messages, err.Error())
			}
		}
		if err := TypeCheck(value, vc); err != nil {
			node.Messages = append(node.Messages, err.Error())
		}

		if nested, ok := value.(*Settings); ok && nested != nil && !nested.IsValid() {
			node.Nested = nested.Errors()
		}

		if len(node.Messages) > 0 || node.Nested != nil {
			tree[st.name] = node
		}
	}
	return tree
}
