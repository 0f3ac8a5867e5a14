package concrete

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Update overrides setting values from sources. Each argument is resolved
// through ResolveSource. For every stored setting the sources are consulted in
// argument order and the first value that is not NotFound wins; without one
// the current value is kept. Nested containers are walked with their names
// appended to parents. Property settings are skipped.
//
// A conversion failure aborts the update and is returned wrapped with the
// setting path; settings updated before it keep their new values.
func (s *Settings) Update(ctx context.Context, sources ...any) error {
	resolved := make([]Source, 0, len(sources))
	for i, src := range sources {
		r, err := ResolveSource(src)
		if err != nil {
			return fmt.Errorf("resolve source %d: %w", i, err)
		}
		resolved = append(resolved, r)
	}
	return s.update(ctx, resolved, nil)
}

func (s *Settings) update(ctx context.Context, sources []Source, parents []string) error {
	for _, st := range s.class.settings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.IsComputed() {
			continue
		}

		if nested, ok := s.resolve(st).(*Settings); ok && nested != nil {
			if err := nested.update(ctx, sources, append(slices.Clone(parents), st.name)); err != nil {
				return err
			}
			continue
		}

		path := strings.Join(append(slices.Clone(parents), st.name), ".")
		for _, src := range sources {
			v, err := src.Read(ctx, st, parents)
			if err != nil {
				return fmt.Errorf("read %s from %s: %w", path, src.Name(), err)
			}
			if IsNotFound(v) {
				continue
			}

			s.values[st.name] = v
			fp := FieldProvenance{
				FieldPath:  st.name,
				SourceName: src.Name(),
				Secret:     IsSecret(st),
			}
			if ks, ok := src.(KeyedSource); ok {
				fp.KeyPath = ks.Key(st, parents)
			}
			s.recordProvenance(fp)

			s.class.logger.Debug("setting overridden",
				slog.String("setting", path),
				slog.String("source", src.Name()),
				slog.String("key", fp.KeyPath))
			break
		}
	}
	return nil
}
