package normalize

import (
	"strings"
	"unicode"
)

// EnvKey builds an environment variable name from the enclosing container
// names and a setting name. Parents are upper-cased, the setting name is kept.
// Examples:
//   - EnvKey(nil, "HOST") → "HOST"
//   - EnvKey([]string{"db"}, "HOST") → "DB_HOST"
func EnvKey(parents []string, name string) string {
	parts := make([]string, 0, len(parents)+1)
	for _, p := range parents {
		parts = append(parts, strings.ToUpper(p))
	}
	return strings.Join(append(parts, name), "_")
}

// DotKey builds a lowercase dot-separated path for structured sources.
// Examples:
//   - DotKey([]string{"DATABASE"}, "HOST") → "database.host"
//   - DotKey(nil, "Port") → "port"
func DotKey(parents []string, name string) string {
	return strings.ToLower(strings.Join(append(append([]string{}, parents...), name), "."))
}

// FlagKey builds a command-line flag name: lowercase, levels joined with
// dashes, underscores replaced by dashes.
// Examples:
//   - FlagKey(nil, "MAX_CONNS") → "max-conns"
//   - FlagKey([]string{"DB"}, "HOST") → "db-host"
func FlagKey(parents []string, name string) string {
	key := strings.Join(append(append([]string{}, parents...), name), "-")
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// IsIdentifier reports whether s is a letter or underscore followed by
// letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
