// Package sourcefile reads setting overrides from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml). Keys are
// matched case-insensitively as dot paths: DATABASE → HOST reads database.host.
//
// Example:
//
//	s := appClass.New()
//	err := s.Update(ctx, sourcefile.New("config.yaml", sourcefile.Options{Required: true}))
//
// A bare path with a known extension is also accepted by Settings.Update.
package sourcefile
