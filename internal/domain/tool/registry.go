package tool

import "fmt"

// Registry holds the set of tool descriptors, keyed by name and preserving
// registration order. It is built once at startup and read-only afterwards,
// so concurrent dispatches need no locking.
type Registry struct {
	byName  map[string]*Descriptor
	ordered []*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Registering a duplicate name, an empty name or
// a nil handler is a configuration error; startup treats it as fatal.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("tool registry: nil descriptor")
	}
	if d.Name == "" {
		return fmt.Errorf("tool registry: descriptor has empty name")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool registry: tool %q has nil handler", d.Name)
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("tool registry: tool %q already registered", d.Name)
	}
	r.byName[d.Name] = d
	r.ordered = append(r.ordered, d)
	return nil
}

// Lookup returns the descriptor for name. It never errors; the second result
// reports whether the tool exists and the caller decides how to surface a
// miss.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// List returns the descriptors in registration order. The returned slice is
// a fresh copy on every call.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.ordered)
}
