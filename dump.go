package concrete

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpEffective.
type dumpConfig struct {
	withSources bool   // Include source attribution for each setting
	asJSON      bool   // Output as JSON instead of text format
	asTable     bool   // Output as a rendered table
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each setting in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs settings as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// AsTable outputs settings as a table with name, type, value, source and doc columns.
func AsTable() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asTable = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpEffective writes the effective values of s. Computed settings are
// evaluated, nested containers are flattened to dot paths and secret settings
// are redacted as "***redacted***".
func DumpEffective(w io.Writer, s *Settings, opts ...DumpOption) error {
	if s == nil {
		return ErrNilSettings
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	provenanceMap := make(map[string]FieldProvenance)
	for _, fp := range s.Provenance().Fields {
		provenanceMap[fp.FieldPath] = fp
	}

	switch {
	case config.asJSON:
		return dumpAsJSON(w, s, provenanceMap, config)
	case config.asTable:
		return dumpAsTable(w, s, provenanceMap)
	default:
		return dumpAsText(w, s, provenanceMap, config)
	}
}

// fieldData holds information about a single setting for dumping.
type fieldData struct {
	path         string // Dot-separated path (e.g., "DATABASE.HOST")
	typeName     string
	displayValue string // Value to display (redacted if secret)
	sourceName   string
	doc          string
}

func dumpAsText(w io.Writer, s *Settings, provenanceMap map[string]FieldProvenance, config dumpConfig) error {
	for _, field := range collectFields(s, "", provenanceMap) {
		line := fmt.Sprintf("%s: %s", field.path, field.displayValue)
		if config.withSources && field.sourceName != "" {
			line += fmt.Sprintf(" (source: %s)", field.sourceName)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

func dumpAsTable(w io.Writer, s *Settings, provenanceMap map[string]FieldProvenance) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Setting", "Type", "Value", "Source", "Doc"})
	for _, field := range collectFields(s, "", provenanceMap) {
		tw.AppendRow(table.Row{field.path, field.typeName, field.displayValue, field.sourceName, field.doc})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignLeft, WidthMax: 60},
		{Number: 5, Align: text.AlignLeft, WidthMax: 60},
	})

	if _, err := io.WriteString(w, tw.Render()+"\n"); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func dumpAsJSON(w io.Writer, s *Settings, provenanceMap map[string]FieldProvenance, config dumpConfig) error {
	result := buildJSONStructure(s, "", provenanceMap)

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// collectFields walks the settings depth-first in declaration order.
func collectFields(s *Settings, prefix string, provenanceMap map[string]FieldProvenance) []fieldData {
	var fields []fieldData
	for _, st := range s.class.settings {
		path := joinPath(prefix, st.name)
		value := s.resolve(st)

		if nested, ok := value.(*Settings); ok && nested != nil {
			fields = append(fields, collectFields(nested, path, provenanceMap)...)
			continue
		}

		display := formatValueAsString(value)
		if IsSecret(st) {
			display = redacted
		}
		fields = append(fields, fieldData{
			path:         path,
			typeName:     st.typeHint.String(),
			displayValue: display,
			sourceName:   provenanceMap[path].SourceName,
			doc:          st.doc,
		})
	}
	return fields
}

// buildJSONStructure recursively builds a nested map for JSON output.
func buildJSONStructure(s *Settings, prefix string, provenanceMap map[string]FieldProvenance) map[string]any {
	result := make(map[string]any)
	for _, st := range s.class.settings {
		path := joinPath(prefix, st.name)
		value := s.resolve(st)

		if nested, ok := value.(*Settings); ok && nested != nil {
			result[st.name] = buildJSONStructure(nested, path, provenanceMap)
			continue
		}
		if IsSecret(st) {
			result[st.name] = redacted
			continue
		}
		result[st.name] = formatValueForJSON(value)
	}
	return result
}

// formatValueForJSON converts values encoding/json cannot represent.
func formatValueForJSON(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case undefined:
		return nil
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case complex64, complex128:
		return fmt.Sprint(v)
	case []byte:
		return string(v)
	}
	return value
}

// formatValueAsString formats a value for text output.
func formatValueAsString(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case undefined:
		return "<undefined>"
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return fmt.Sprintf("%q", string(v))
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.String {
		strs := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			strs[i] = rv.Index(i).String()
		}
		return fmt.Sprintf("[%s]", strings.Join(strs, ", "))
	}
	return fmt.Sprintf("%v", value)
}
