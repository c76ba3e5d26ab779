package widgetrender

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-headless/internal/dom"
	"github.com/goliatone/go-headless/internal/elements"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/goliatone/go-slug"
	xhtml "golang.org/x/net/html"
)

var (
	ErrTypeRequired     = errors.New("widgetrender: widget type is required")
	ErrRendererRequired = errors.New("widgetrender: renderer is required")
)

// RendererFunc turns one widget into markup. It must not have side effects
// and must escape every field it does not treat as trusted markup.
type RendererFunc func(settings elements.Settings, node elements.Node) string

// Option configures a Registry.
type Option func(*Registry)

// WithLogger overrides the registry logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registry) {
		r.logger = logging.OrNoOp(logger)
	}
}

// WithFallback replaces the renderer used for unknown widget types.
func WithFallback(fn RendererFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.fallback = fn
		}
	}
}

// Registry maps widget types to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]RendererFunc
	fallback  RendererFunc
	logger    interfaces.Logger
}

// NewRegistry returns an empty registry with the placeholder fallback.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		renderers: map[string]RendererFunc{},
		fallback:  Unsupported,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewDefaultRegistry returns a registry with every built-in widget.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	for widgetType, fn := range builtins() {
		r.renderers[widgetType] = fn
	}
	return r
}

// Register installs fn for widgetType, replacing any previous renderer.
func (r *Registry) Register(widgetType string, fn RendererFunc) error {
	widgetType = strings.TrimSpace(widgetType)
	if widgetType == "" {
		return ErrTypeRequired
	}
	if fn == nil {
		return ErrRendererRequired
	}
	r.mu.Lock()
	r.renderers[widgetType] = fn
	r.mu.Unlock()
	return nil
}

// Unregister removes the renderer for widgetType. Nodes of that type render
// through the fallback afterwards.
func (r *Registry) Unregister(widgetType string) {
	r.mu.Lock()
	delete(r.renderers, widgetType)
	r.mu.Unlock()
}

// Lookup returns the renderer for widgetType.
func (r *Registry) Lookup(widgetType string) (RendererFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[widgetType]
	return fn, ok
}

// Types lists the registered widget types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for widgetType := range r.renderers {
		out = append(out, widgetType)
	}
	sort.Strings(out)
	return out
}

// ToHTML renders tree to markup.
func (r *Registry) ToHTML(tree []elements.Node) string {
	var b strings.Builder
	for _, node := range tree {
		r.renderNode(&b, node)
	}
	return b.String()
}

// Render writes tree into container and wires its interactive widgets.
func (r *Registry) Render(container *xhtml.Node, tree []elements.Node) (*Interactions, error) {
	if container == nil {
		return nil, dom.ErrNodeRequired
	}
	if err := dom.SetInnerHTML(container, r.ToHTML(tree)); err != nil {
		return nil, err
	}
	return Wire(container), nil
}

func (r *Registry) renderNode(b *strings.Builder, node elements.Node) {
	if node.IsWidget() {
		b.WriteString(r.renderWidget(node))
		return
	}
	kind := node.ElType
	if kind == "" {
		kind = elements.KindContainer
	}
	fmt.Fprintf(b, `<div class="elementor-element elementor-%s" data-id="%s" data-element_type="%s">`,
		className(kind), html.EscapeString(node.ID), html.EscapeString(kind))
	for _, child := range node.Elements {
		r.renderNode(b, child)
	}
	b.WriteString(`</div>`)
}

func (r *Registry) renderWidget(node elements.Node) (out string) {
	fn, ok := r.Lookup(node.WidgetType)
	if !ok {
		r.mu.RLock()
		fn = r.fallback
		r.mu.RUnlock()
		r.logger.Debug("widgetrender.unsupported", "widget_type", node.WidgetType, "element", node.ID)
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("widgetrender.renderer.panic", "widget_type", node.WidgetType, "error", rec)
			out = wrapWidget(node, Unsupported(node.Settings, node))
		}
	}()
	settings := node.Settings
	if settings == nil {
		settings = elements.Settings{}
	}
	return wrapWidget(node, fn(settings, node))
}

// Unsupported renders a visible placeholder naming the widget type.
func Unsupported(_ elements.Settings, node elements.Node) string {
	return fmt.Sprintf(`<div class="headless-unsupported-widget" role="note">unsupported widget: %s</div>`,
		html.EscapeString(node.WidgetType))
}

func wrapWidget(node elements.Node, inner string) string {
	typ := html.EscapeString(node.WidgetType)
	return fmt.Sprintf(`<div class="elementor-element elementor-widget elementor-widget-%s" data-id="%s" data-element_type="widget" data-widget_type="%s.default"><div class="elementor-widget-container">%s</div></div>`,
		className(node.WidgetType), html.EscapeString(node.ID), typ, inner)
}

// className normalises a type tag into a safe CSS class fragment.
func className(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil || normalized == "" {
		return "unknown"
	}
	return normalized
}
