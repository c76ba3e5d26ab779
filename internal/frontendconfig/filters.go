package frontendconfig

import (
	"context"
	"sync"

	"github.com/goliatone/go-headless/internal/documents"
)

// Filter lets extensions merge their own settings into the extended config.
// It receives the current value and returns the value to pass on.
type Filter func(ctx context.Context, cfg map[string]any, doc *documents.Document) map[string]any

// Filters is the ordered hook chain applied to the extended config.
type Filters struct {
	mu    sync.RWMutex
	chain []Filter
}

// NewFilters returns an empty chain.
func NewFilters() *Filters {
	return &Filters{}
}

// Add appends filter to the chain.
func (f *Filters) Add(filter Filter) {
	if f == nil || filter == nil {
		return
	}
	f.mu.Lock()
	f.chain = append(f.chain, filter)
	f.mu.Unlock()
}

// Len reports the number of registered filters.
func (f *Filters) Len() int {
	if f == nil {
		return 0
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.chain)
}

// Apply runs every filter once, in registration order.
func (f *Filters) Apply(ctx context.Context, cfg map[string]any, doc *documents.Document) map[string]any {
	if f == nil {
		return cfg
	}
	f.mu.RLock()
	chain := append([]Filter(nil), f.chain...)
	f.mu.RUnlock()

	for _, filter := range chain {
		cfg = filter(ctx, cfg, doc)
	}
	return cfg
}
