package assets

import (
	"sort"
	"strings"
	"sync"
)

// MemoryRegistry keeps handles in process. It is the lookup surface used by
// resolvers; persistent registries load into one.
type MemoryRegistry struct {
	mu      sync.RWMutex
	handles map[Kind]map[string]Handle
}

// NewMemoryRegistry constructs an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		handles: map[Kind]map[string]Handle{
			KindStyle:  {},
			KindScript: {},
		},
	}
}

// Register adds or replaces handles.
func (r *MemoryRegistry) Register(handles ...Handle) error {
	for _, h := range handles {
		h.Name = strings.TrimSpace(h.Name)
		if err := h.Validate(); err != nil {
			return err
		}
		r.mu.Lock()
		r.handles[h.Kind][h.Name] = cloneHandle(h)
		r.mu.Unlock()
	}
	return nil
}

// Lookup satisfies Registry.
func (r *MemoryRegistry) Lookup(kind Kind, name string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[kind][name]
	if !ok {
		return Handle{}, false
	}
	return cloneHandle(h), true
}

// Remove drops a handle. Missing handles are ignored.
func (r *MemoryRegistry) Remove(kind Kind, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles[kind], name)
}

// List returns handles of kind sorted by name.
func (r *MemoryRegistry) List(kind Kind) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handle, 0, len(r.handles[kind]))
	for _, h := range r.handles[kind] {
		out = append(out, cloneHandle(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Replace swaps the registry contents in one step.
func (r *MemoryRegistry) Replace(handles []Handle) error {
	next := map[Kind]map[string]Handle{KindStyle: {}, KindScript: {}}
	for _, h := range handles {
		h.Name = strings.TrimSpace(h.Name)
		if err := h.Validate(); err != nil {
			return err
		}
		next[h.Kind][h.Name] = cloneHandle(h)
	}
	r.mu.Lock()
	r.handles = next
	r.mu.Unlock()
	return nil
}
