package scripts

import (
	"context"
	"maps"
	"slices"

	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// WidgetScripts maps a widget type to the script handles it depends on.
type WidgetScripts map[string][]string

// Handles returns the handles declared for widgetType.
func (w WidgetScripts) Handles(widgetType string) []string {
	return slices.Clone(w[widgetType])
}

// Merge returns a copy of w overlaid with other.
func (w WidgetScripts) Merge(other map[string][]string) WidgetScripts {
	out := make(WidgetScripts, len(w)+len(other))
	maps.Copy(out, w)
	for widgetType, handles := range other {
		out[widgetType] = slices.Clone(handles)
	}
	return out
}

// Config lists the root handles the collector starts from.
type Config struct {
	Core           []string
	Extended       []string
	ExtendedActive bool
	Widgets        WidgetScripts
}

// Request carries the page being built, its widget inventory and the queue.
type Request struct {
	Document    *documents.Document
	WidgetTypes []string
	Queue       *assets.Queue
}

// Collector resolves the script URLs a page needs.
type Collector struct {
	resolver *assets.Resolver
	cfg      Config
	logger   interfaces.Logger
}

// NewCollector builds a script collector over the script handles of registry.
func NewCollector(registry assets.Registry, normalizer assets.Normalizer, cfg Config, logger interfaces.Logger) *Collector {
	return &Collector{
		resolver: assets.NewResolver(assets.Scoped(registry, assets.KindScript), normalizer),
		cfg:      cfg,
		logger:   logging.OrNoOp(logger),
	}
}

// CollectScripts returns absolute script URLs in load order. Unknown handles
// are dropped by the resolver.
func (c *Collector) CollectScripts(_ context.Context, req Request) []string {
	doc := req.Document
	if doc == nil || !doc.BuiltWithBuilder {
		return []string{}
	}

	roots := c.Roots(req)
	urls := c.resolver.Resolve(roots)
	c.logger.Debug("scripts.collected", "post_id", doc.PageID, "roots", len(roots), "count", len(urls))
	if urls == nil {
		return []string{}
	}
	return urls
}

// Roots returns the required handles for req before resolution: core,
// extended when active, per-widget handles in inventory order, then the
// document's conditional scripts and anything else enqueued for the build.
func (c *Collector) Roots(req Request) []string {
	roots := make([]string, 0, len(c.cfg.Core)+len(c.cfg.Extended))
	roots = append(roots, c.cfg.Core...)
	if c.cfg.ExtendedActive {
		roots = append(roots, c.cfg.Extended...)
	}
	for _, widgetType := range req.WidgetTypes {
		roots = append(roots, c.cfg.Widgets.Handles(widgetType)...)
	}
	if req.Document != nil {
		roots = append(roots, req.Document.ConditionalScripts...)
	}
	roots = append(roots, req.Queue.Handles(assets.KindScript)...)
	return roots
}
