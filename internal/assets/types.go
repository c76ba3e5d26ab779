package assets

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind separates the style and script handle namespaces.
type Kind string

const (
	KindStyle  Kind = "style"
	KindScript Kind = "script"
)

var (
	ErrHandleNameRequired = errors.New("assets: handle name is required")
	ErrHandleKindInvalid  = errors.New("assets: handle kind must be style or script")
)

// Handle is a named asset registered with the host. Src may be empty for
// alias handles that only group dependencies. Inline handles are printed
// into the page by the host, so they never contribute a URL.
type Handle struct {
	Name    string   `json:"handle" yaml:"handle"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Src     string   `json:"src,omitempty" yaml:"src"`
	Deps    []string `json:"deps,omitempty" yaml:"deps"`
	Version string   `json:"ver,omitempty" yaml:"ver"`
	Inline  bool     `json:"inline,omitempty" yaml:"inline"`
}

// Validate checks the handle can be registered.
func (h Handle) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrHandleNameRequired
	}
	if h.Kind != KindStyle && h.Kind != KindScript {
		return fmt.Errorf("%w: %q", ErrHandleKindInvalid, h.Kind)
	}
	return nil
}

func cloneHandle(h Handle) Handle {
	h.Deps = slices.Clone(h.Deps)
	return h
}

// Source exposes registered handles of one kind. Lookups must not mutate
// registry state.
type Source interface {
	Lookup(name string) (Handle, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (Handle, bool)

func (fn SourceFunc) Lookup(name string) (Handle, bool) {
	if fn == nil {
		return Handle{}, false
	}
	return fn(name)
}

// Registry exposes handles across both kinds.
type Registry interface {
	Lookup(kind Kind, name string) (Handle, bool)
}

// Scoped narrows a Registry to a single kind.
func Scoped(registry Registry, kind Kind) Source {
	return SourceFunc(func(name string) (Handle, bool) {
		if registry == nil {
			return Handle{}, false
		}
		return registry.Lookup(kind, name)
	})
}
