package sourceenv

import (
	"context"
	"errors"
	"os"

	"github.com/Azhovan/concrete"
	"github.com/Azhovan/concrete/internal/normalize"
)

func init() {
	concrete.RegisterSource("env", func(src any) (concrete.Source, bool) {
		switch s := src.(type) {
		case *Source:
			return s, true
		case Options:
			return New(s), true
		}
		return nil, false
	})
}

// Options configures environment variable source behavior.
type Options struct {
	// Prefix is prepended verbatim to every key (e.g., "APP_").
	Prefix string
}

// Source reads environment variables and converts their text to the setting's type.
type Source struct {
	opts   Options
	lookup func(string) (string, bool)
}

// New creates an environment variable source.
func New(opts Options) *Source {
	return &Source{opts: opts, lookup: os.LookupEnv}
}

// Key returns the environment variable consulted for setting.
func (e *Source) Key(setting *concrete.Setting, parents []string) string {
	return e.opts.Prefix + normalize.EnvKey(parents, setting.Name())
}

// Read returns the converted variable, or concrete.NotFound when it is unset.
// A set but empty variable is a value, not NotFound.
func (e *Source) Read(ctx context.Context, setting *concrete.Setting, parents []string) (any, error) {
	key := e.Key(setting, parents)
	raw, ok := e.lookup(key)
	if !ok {
		return concrete.NotFound, nil
	}

	v, err := concrete.ConvertString(raw, setting.TypeHint())
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
func (e *Source) Name() string {
	return "env"
}
