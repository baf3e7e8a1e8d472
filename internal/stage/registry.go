package stage

// Registry is the fixed catalog of modules the host can activate. It is
// built once at startup and never mutated, so lookups need no locking.
type Registry struct {
	order []string
	byID  map[string]Module
}

// NewRegistry builds a registry from the given modules. Registration order
// is preserved for listings. A duplicate ID replaces the earlier module but
// keeps its position in the order.
func NewRegistry(mods ...Module) *Registry {
	r := &Registry{byID: make(map[string]Module, len(mods))}
	for _, m := range mods {
		id := m.Descriptor().ID
		if _, exists := r.byID[id]; !exists {
			r.order = append(r.order, id)
		}
		r.byID[id] = m
	}
	return r
}

// Get returns the module registered under id.
func (r *Registry) Get(id string) (Module, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// ListAll returns every module in registration order.
func (r *Registry) ListAll() []Module {
	out := make([]Module, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ListByCategory returns the modules of one category, in registration order.
func (r *Registry) ListByCategory(cat Category) []Module {
	var out []Module
	for _, id := range r.order {
		if m := r.byID[id]; m.Descriptor().Category == cat {
			out = append(out, m)
		}
	}
	return out
}
