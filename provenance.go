package concrete

import "slices"

// Provenance contains source information for overridden settings.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes where a setting's value came from.
type FieldProvenance struct {
	FieldPath  string // Dot notation (e.g., "DATABASE.HOST")
	KeyPath    string // External key (e.g., "DATABASE_HOST"), empty if the source does not report it
	SourceName string // Source identifier (e.g., "env")
	Secret     bool   // Whether the setting is secret
}

// KeyedSource is implemented by sources that can name the external key they
// consult for a setting. The key is recorded in provenance.
type KeyedSource interface {
	Source
	Key(setting *Setting, parents []string) string
}

// Provenance returns the origin of every value set by Update, including values
// inside nested containers. Values assigned with Set are not listed.
func (s *Settings) Provenance() *Provenance {
	p := &Provenance{}
	s.collectProvenance("", &p.Fields)
	return p
}

func (s *Settings) collectProvenance(prefix string, out *[]FieldProvenance) {
	for _, fp := range s.provenance {
		fp.FieldPath = joinPath(prefix, fp.FieldPath)
		*out = append(*out, fp)
	}
	for _, st := range s.class.settings {
		if nested, ok := s.values[st.name].(*Settings); ok && nested != nil {
			nested.collectProvenance(joinPath(prefix, st.name), out)
		}
	}
}

func (s *Settings) recordProvenance(fp FieldProvenance) {
	s.forgetProvenance(fp.FieldPath)
	s.provenance = append(s.provenance, fp)
}

func (s *Settings) forgetProvenance(name string) {
	s.provenance = slices.DeleteFunc(s.provenance, func(fp FieldProvenance) bool {
		return fp.FieldPath == name
	})
}
