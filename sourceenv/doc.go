// Package sourceenv reads setting overrides from environment variables.
//
// Key: enclosing container names upper-cased, then the setting name, joined
// with "_" and preceded by Options.Prefix: DB → HOST reads DB_HOST.
//
// Example:
//
//	s := appClass.New()
//	err := s.Update(ctx, sourceenv.New(sourceenv.Options{Prefix: "APP_"}))
package sourceenv
