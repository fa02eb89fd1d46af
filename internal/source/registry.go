package source

import (
	"fmt"

	"TaigiBot/internal/ports"
)

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]ports.Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src ports.Source) {
	if r.sources == nil {
		r.sources = map[string]ports.Source{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// Ordered resolves names in the given order. The order of the returned slice
// is the order results are merged in.
func (r *Registry) Ordered(names []string) ([]ports.Source, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	out := make([]ports.Source, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("source %s enabled twice", name)
		}
		seen[name] = struct{}{}

		src, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}
