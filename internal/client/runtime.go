package client

import (
	"context"
	"maps"
	"sync"

	"golang.org/x/net/html"
)

// MemoryRuntime is an in-process Runtime. Loaded scripts define the entry
// point and ready hook through Define and OnElementReady.
type MemoryRuntime struct {
	mu          sync.Mutex
	globals     map[string]any
	entry       func(ctx context.Context) error
	ready       func(ctx context.Context, el *html.Node) error
	initialized bool
}

// NewMemoryRuntime returns a runtime with no entry point defined.
func NewMemoryRuntime() *MemoryRuntime {
	return &MemoryRuntime{globals: map[string]any{}}
}

func (r *MemoryRuntime) SetGlobal(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals[name] = value
}

// Global returns an installed global.
func (r *MemoryRuntime) Global(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.globals[name]
	return value, ok
}

// Globals returns a copy of every installed global.
func (r *MemoryRuntime) Globals() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.globals)
}

// Define installs the init entry point. The wrapped function runs once;
// later calls return ErrAlreadyInitialized.
func (r *MemoryRuntime) Define(init func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entry = func(ctx context.Context) error {
		r.mu.Lock()
		if r.initialized {
			r.mu.Unlock()
			return ErrAlreadyInitialized
		}
		r.initialized = true
		r.mu.Unlock()
		if init == nil {
			return nil
		}
		return init(ctx)
	}
}

// OnElementReady installs the per-element ready hook.
func (r *MemoryRuntime) OnElementReady(fn func(ctx context.Context, el *html.Node) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = fn
}

func (r *MemoryRuntime) EntryPoint() (func(ctx context.Context) error, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entry, r.entry != nil
}

func (r *MemoryRuntime) ElementReady(ctx context.Context, el *html.Node) error {
	r.mu.Lock()
	ready := r.ready
	r.mu.Unlock()
	if ready == nil {
		return nil
	}
	return ready(ctx, el)
}
