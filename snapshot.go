package concrete

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxSnapshotSize is the maximum allowed serialized snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	ErrSnapshotTooLarge   = errors.New("concrete: snapshot exceeds 100MB size limit")
	ErrNilSettings        = errors.New("concrete: settings is nil")
	ErrUnsupportedVersion = errors.New("concrete: unsupported snapshot version")
)

var supportedVersions = map[string]bool{
	"1.0": true,
}

// Snapshot is a point-in-time capture of a settings instance.
type Snapshot struct {
	Version   string    `json:"version"`
	Class     string    `json:"class"`
	Timestamp time.Time `json:"timestamp"`

	// Values maps dot paths (e.g., "DATABASE.HOST") to effective values.
	// Computed settings are evaluated and secrets redacted.
	Values map[string]any `json:"values"`

	Provenance []FieldProvenance `json:"provenance"`
}

// SnapshotOption configures snapshot creation.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	exclude map[string]bool
}

// WithExcludeFields leaves the given dot paths out of the snapshot.
// Matching is case-insensitive.
func WithExcludeFields(paths ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		for _, p := range paths {
			cfg.exclude[strings.ToLower(p)] = true
		}
	}
}

// TakeSnapshot captures the effective values of s.
func TakeSnapshot(s *Settings, opts ...SnapshotOption) (*Snapshot, error) {
	if s == nil {
		return nil, ErrNilSettings
	}

	cfg := snapshotConfig{exclude: make(map[string]bool)}
	for _, opt := range opts {
		opt(&cfg)
	}

	values := make(map[string]any)
	for _, field := range walkValues(s, "") {
		if cfg.exclude[strings.ToLower(field.path)] {
			continue
		}
		values[field.path] = field.value
	}

	var prov []FieldProvenance
	for _, fp := range s.Provenance().Fields {
		if !cfg.exclude[strings.ToLower(fp.FieldPath)] {
			prov = append(prov, fp)
		}
	}

	return &Snapshot{
		Version:    SnapshotVersion,
		Class:      s.class.name,
		Timestamp:  time.Now().UTC(),
		Values:     values,
		Provenance: prov,
	}, nil
}

type pathValue struct {
	path  string
	value any
}

func walkValues(s *Settings, prefix string) []pathValue {
	var out []pathValue
	for _, st := range s.class.settings {
		path := joinPath(prefix, st.name)
		value := s.resolve(st)
		if nested, ok := value.(*Settings); ok && nested != nil {
			out = append(out, walkValues(nested, path)...)
			continue
		}
		if IsSecret(st) {
			value = redacted
		} else {
			value = formatValueForJSON(value)
		}
		out = append(out, pathValue{path: path, value: value})
	}
	return out
}

// ExpandPathWithTime replaces every {{timestamp}} in template with t
// formatted as 20060102-150405 (UTC).
func ExpandPathWithTime(template string, t time.Time) string {
	return strings.ReplaceAll(template, "{{timestamp}}", t.UTC().Format("20060102-150405"))
}

// WriteSnapshot writes snap as indented JSON, atomically. The path may contain
// {{timestamp}}, expanded with the snapshot's own timestamp. It returns the
// path written.
func WriteSnapshot(snap *Snapshot, pathTemplate string) (string, error) {
	if snap == nil {
		return "", ErrNilSettings
	}

	target := ExpandPathWithTime(pathTemplate, snap.Timestamp)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if len(data) > MaxSnapshotSize {
		return "", ErrSnapshotTooLarge
	}

	if dir := filepath.Dir(target); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", err
		}
	}

	tmp, err := tempName(target)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return target, nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxSnapshotSize {
		return nil, ErrSnapshotTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if !supportedVersions[snap.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snap.Version)
	}
	return &snap, nil
}

// tempName returns a sibling of target so the final rename stays on one filesystem.
func tempName(target string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return target + ".tmp." + hex.EncodeToString(b), nil
}
