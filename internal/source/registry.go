package source

import (
	"fmt"
	"slices"
	"strings"
)

// Registry is the fixed catalog of sources, in display order.
type Registry struct {
	descs  []Descriptor
	byName map[string]int
}

// NewRegistry validates descs and builds a registry. Names must be unique and
// exactly one descriptor must be the default.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	if len(descs) == 0 {
		return nil, &ConfigurationError{Reason: "at least one source is required"}
	}

	r := &Registry{
		descs:  slices.Clone(descs),
		byName: make(map[string]int, len(descs)),
	}

	for i, d := range r.descs {
		if strings.TrimSpace(d.Name) == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("source %d: name is required", i)}
		}
		if strings.TrimSpace(d.Endpoint) == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("%s: endpoint is required", d.Name)}
		}
		if d.Normalizer == nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("%s: normalizer is required", d.Name)}
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate source name %q", d.Name)}
		}
		r.byName[d.Name] = i
	}

	if _, err := r.Default(); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns the descriptors in catalog order.
func (r *Registry) List() []Descriptor {
	return slices.Clone(r.descs)
}

// Len returns the number of sources.
func (r *Registry) Len() int {
	return len(r.descs)
}

// FindByName returns the descriptor called name.
func (r *Registry) FindByName(name string) (Descriptor, error) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r.descs[i], nil
}

// Default returns the single descriptor marked as default.
func (r *Registry) Default() (Descriptor, error) {
	var defaults []Descriptor
	for _, d := range r.descs {
		if d.IsDefault {
			defaults = append(defaults, d)
		}
	}

	switch len(defaults) {
	case 1:
		return defaults[0], nil
	case 0:
		return Descriptor{}, &ConfigurationError{Reason: "no default source"}
	default:
		names := make([]string, 0, len(defaults))
		for _, d := range defaults {
			names = append(names, d.Name)
		}
		return Descriptor{}, &ConfigurationError{Reason: "multiple default sources: " + strings.Join(names, ", ")}
	}
}

// SetDefault returns a copy of descs where only the descriptor called name is
// the default.
func SetDefault(descs []Descriptor, name string) ([]Descriptor, error) {
	out := slices.Clone(descs)
	found := false
	for i := range out {
		out[i].IsDefault = out[i].Name == name
		found = found || out[i].IsDefault
	}
	if !found {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("default source %q is not in the catalog", name)}
	}
	return out, nil
}
