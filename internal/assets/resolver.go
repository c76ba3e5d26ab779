package assets

import (
	"net/url"
	"strings"
)

// Resolve walks the dependency graph of roots depth first and returns the
// source URLs in load order: every dependency precedes its dependents, each
// handle appears at most once and roots keep their relative order.
//
// Unknown handles are skipped. A handle that is reached again while it is
// still being visited is treated as resolved, which terminates cycles
// without reporting them.
func Resolve(roots []string, source Source) []string {
	state := newResolution(source)
	for _, root := range roots {
		state.visit(strings.TrimSpace(root))
	}
	return state.output
}

type resolution struct {
	source   Source
	resolved map[string]struct{}
	pending  map[string]struct{}
	output   []string
}

func newResolution(source Source) *resolution {
	return &resolution{
		source:   source,
		resolved: map[string]struct{}{},
		pending:  map[string]struct{}{},
	}
}

func (r *resolution) visit(name string) {
	if name == "" {
		return
	}
	if _, done := r.resolved[name]; done {
		return
	}
	if _, inProgress := r.pending[name]; inProgress {
		return
	}

	handle, ok := r.lookup(name)
	if !ok {
		r.resolved[name] = struct{}{}
		return
	}

	r.pending[name] = struct{}{}
	for _, dep := range handle.Deps {
		r.visit(strings.TrimSpace(dep))
	}
	delete(r.pending, name)
	r.resolved[name] = struct{}{}

	if src := strings.TrimSpace(handle.Src); src != "" && !handle.Inline {
		r.output = append(r.output, withVersion(src, handle.Version))
	}
}

func (r *resolution) lookup(name string) (Handle, bool) {
	if r.source == nil {
		return Handle{}, false
	}
	return r.source.Lookup(name)
}

func withVersion(src, version string) string {
	version = strings.TrimSpace(version)
	if version == "" || strings.Contains(src, "ver=") {
		return src
	}
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return src + sep + "ver=" + url.QueryEscape(version)
}

// Resolver resolves handles of one kind and normalises the emitted URLs
// against the site base URL. Two handles pointing at the same file produce a
// single URL.
type Resolver struct {
	source     Source
	normalizer Normalizer
}

// NewResolver builds a resolver over source.
func NewResolver(source Source, normalizer Normalizer) *Resolver {
	return &Resolver{source: source, normalizer: normalizer}
}

// Resolve returns absolute, deduplicated URLs for roots in load order.
func (r *Resolver) Resolve(roots []string) []string {
	if r == nil {
		return nil
	}
	raw := Resolve(roots, r.source)
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, src := range raw {
		abs := r.normalizer.Absolute(src)
		if abs == "" {
			continue
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}
