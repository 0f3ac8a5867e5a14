// Package sourceflag reads setting overrides from command-line flags.
//
// Key: enclosing container names and the setting name, lower-cased, joined
// with "-", underscores replaced by dashes: DB → MAX_CONNS reads --db-max-conns.
// Only flags set on the command line count; flag defaults never override settings.
package sourceflag

import (
	"context"
	"errors"
	"strings"

	"github.com/Azhovan/concrete"
	"github.com/Azhovan/concrete/internal/normalize"
	"github.com/spf13/pflag"
)

func init() {
	concrete.RegisterSource("flag", func(src any) (concrete.Source, bool) {
		switch s := src.(type) {
		case *Source:
			return s, true
		case *pflag.FlagSet:
			return New(s), true
		}
		return nil, false
	})
}

// Source reads changed flags from a pflag.FlagSet.
type Source struct {
	flags *pflag.FlagSet
}

// New creates a flag source over an already parsed flag set.
func New(flags *pflag.FlagSet) *Source {
	return &Source{flags: flags}
}

// Key returns the flag name consulted for setting.
func (f *Source) Key(setting *concrete.Setting, parents []string) string {
	return normalize.FlagKey(parents, setting.Name())
}

// Read converts the flag's textual value to the setting's type, or returns
// concrete.NotFound when the flag is undefined or was not set.
func (f *Source) Read(ctx context.Context, setting *concrete.Setting, parents []string) (any, error) {
	key := f.Key(setting, parents)
	flag := f.flags.Lookup(key)
	if flag == nil || !flag.Changed {
		return concrete.NotFound, nil
	}

	raw := flag.Value.String()
	if sv, ok := flag.Value.(pflag.SliceValue); ok {
		raw = strings.Join(sv.GetSlice(), ",")
	}

	v, err := concrete.ConvertString(raw, setting.TypeHint())
	if err != nil {
		var ce *concrete.ConversionError
		if errors.As(err, &ce) {
			ce.Key = "--" + key
		}
		return nil, err
	}
	return v, nil
}

// Name returns a human-readable identifier for this source.
func (f *Source) Name() string {
	return "flag"
}
