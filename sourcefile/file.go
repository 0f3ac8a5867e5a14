package sourcefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Azhovan/concrete"
	"github.com/Azhovan/concrete/internal/normalize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func init() {
	concrete.RegisterSource("file", func(src any) (concrete.Source, bool) {
		switch s := src.(type) {
		case *Source:
			return s, true
		case string:
			if inferFormat(s) == "" {
				return nil, false
			}
			return New(s, Options{}), true
		}
		return nil, false
	})
}

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (no overrides).
	Required bool
}

// Source reads a configuration file once, on first use, and serves values by dot path.
type Source struct {
	path string
	opts Options

	once sync.Once
	data map[string]any
	err  error
}

// New creates a file-based settings source.
func New(path string, opts Options) *Source {
	return &Source{
		path: path,
		opts: opts,
	}
}

// Key returns the flattened key consulted for setting.
func (f *Source) Key(setting *concrete.Setting, parents []string) string {
	return normalize.DotKey(parents, setting.Name())
}

// Read returns the value stored under the setting's dot path converted to its
// type, or concrete.NotFound.
func (f *Source) Read(ctx context.Context, setting *concrete.Setting, parents []string) (any, error) {
	data, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}

	key := f.Key(setting, parents)
	raw, ok := data[key]
	if !ok {
		return concrete.NotFound, nil
	}

	v, err := concrete.ConvertValue(raw, setting.TypeHint())
	if err != nil {
		var ce *concrete.ConversionError
		if errors.As(err, &ce) {
			ce.Key = key
		}
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	return v, nil
}

// Load reads and parses the file, returning flattened configuration keyed by
// lowercase dot paths. The result is cached.
func (f *Source) Load(ctx context.Context) (map[string]any, error) {
	f.once.Do(func() {
		f.data, f.err = f.load()
	})
	return f.data, f.err
}

func (f *Source) load() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", f.path, err)
			}
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", f.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", f.path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	flattened := make(map[string]any)
	flattenMap("", raw, flattened)
	return flattened, nil
}

// flattenMap recursively flattens nested maps to lowercase dot-separated keys.
// Every table is also kept whole under its own key, so map-typed settings can
// be read as well as their individual entries.
func flattenMap(prefix string, value any, result map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		if prefix != "" {
			result[prefix] = v
		}
		for key, val := range v {
			flattenMap(joinKey(prefix, key), val, result)
		}
	case map[any]any:
		if prefix != "" {
			result[prefix] = v
		}
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flattenMap(joinKey(prefix, keyStr), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = value
		}
	}
}

func joinKey(prefix, key string) string {
	key = strings.ToLower(key)
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Name returns a human-readable identifier for this source.
func (f *Source) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
