package concrete

import (
	"fmt"
	"sync"
)

// SourceFactory recognizes a source specification (a Source value, a file
// path, a flag set, ...) and returns the Source serving it.
type SourceFactory func(src any) (Source, bool)

var registry = struct {
	mu        sync.RWMutex
	ids       []string
	factories map[string]SourceFactory
}{factories: make(map[string]SourceFactory)}

// RegisterSource adds a factory to the process-wide registry. Source packages
// call it from init, so lookup order is package initialization order.
// Registering the same id twice panics.
func RegisterSource(id string, factory SourceFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.factories[id]; ok {
		panic(fmt.Sprintf("concrete: source %q registered twice", id))
	}
	registry.ids = append(registry.ids, id)
	registry.factories[id] = factory
}

// RegisteredSources returns registered source ids in registration order.
func RegisteredSources() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	ids := make([]string, len(registry.ids))
	copy(ids, registry.ids)
	return ids
}

// ResolveSource turns a source specification into a Source. A value that
// already implements Source is returned unchanged; otherwise registered
// factories are asked in registration order and the first match wins.
func ResolveSource(src any) (Source, error) {
	if s, ok := src.(Source); ok {
		return s, nil
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, id := range registry.ids {
		if s, ok := registry.factories[id](src); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownSource, src)
}

// FindSource returns the first source of type S in a configured chain.
func FindSource[S Source](sources []Source) (S, bool) {
	for _, src := range sources {
		if s, ok := src.(S); ok {
			return s, true
		}
	}
	var zero S
	return zero, false
}
