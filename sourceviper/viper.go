// Package sourceviper reads setting overrides from a viper instance, so
// settings can be layered on top of an application's existing viper setup.
//
// Key: lowercase dot path of the enclosing container names and the setting
// name: DATABASE → HOST reads "database.host".
package sourceviper

import (
	"context"
	"errors"

	"github.com/Azhovan/concrete"
	"github.com/Azhovan/concrete/internal/normalize"
	"github.com/spf13/viper"
)

func init() {
	concrete.RegisterSource("viper", func(src any) (concrete.Source, bool) {
		switch s := src.(type) {
		case *Source:
			return s, true
		case *viper.Viper:
			return New(s), true
		}
		return nil, false
	})
}

// Source reads values that are set in a viper instance: config file, env
// bindings, flags, explicit Set calls and viper defaults alike.
type Source struct {
	v *viper.Viper
}

// New wraps v.
func New(v *viper.Viper) *Source {
	return &Source{v: v}
}

// Key returns the viper key consulted for setting.
func (s *Source) Key(setting *concrete.Setting, parents []string) string {
	return normalize.DotKey(parents, setting.Name())
}

// Read returns the converted value or concrete.NotFound.
func (s *Source) Read(ctx context.Context, setting *concrete.Setting, parents []string) (any, error) {
	key := s.Key(setting, parents)
	if !s.v.IsSet(key) {
		return concrete.NotFound, nil
	}

	v, err := concrete.ConvertValue(s.v.Get(key), setting.TypeHint())
	if err != nil {
		var ce *concrete.ConversionError
		if errors.As(err, &ce) {
			ce.Key = key
		}
		return nil, err
	}
	return v, nil
}

// Name returns a human-readable identifier for this source.
func (s *Source) Name() string {
	return "viper"
}
