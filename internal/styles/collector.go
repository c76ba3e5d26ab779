package styles

import (
	"context"
	"fmt"

	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/kit"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// Request carries the page being built and the handles enqueued for it.
type Request struct {
	Document *documents.Document
	Queue    *assets.Queue
}

// Collector gathers the stylesheet URLs, inline CSS and Kit data of a page.
type Collector struct {
	resolver   *assets.Resolver
	normalizer assets.Normalizer
	kits       kit.Source
	logger     interfaces.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger overrides the collector logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Collector) {
		c.logger = logging.OrNoOp(logger)
	}
}

// NewCollector builds a style collector over the style handles of registry.
func NewCollector(registry assets.Registry, normalizer assets.Normalizer, kits kit.Source, opts ...Option) *Collector {
	c := &Collector{
		resolver:   assets.NewResolver(assets.Scoped(registry, assets.KindStyle), normalizer),
		normalizer: normalizer,
		kits:       kits,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// CollectStyles returns absolute stylesheet URLs in load order: the Kit file
// first, then every enqueued style handle, then the page's own CSS file.
func (c *Collector) CollectStyles(ctx context.Context, req Request) ([]string, error) {
	doc := req.Document
	if doc == nil || !doc.BuiltWithBuilder {
		return []string{}, nil
	}

	links := newLinkSet()
	data, err := c.KitData(ctx)
	if err != nil {
		return nil, err
	}
	if data.CSSURL != nil {
		links.add(*data.CSSURL)
	}

	for _, url := range c.resolver.Resolve(req.Queue.Handles(assets.KindStyle)) {
		links.add(url)
	}

	if doc.CSSMode != documents.CSSModeInline {
		links.add(c.normalizer.Absolute(doc.CSSFileURL))
	}
	c.logger.Debug("styles.collected", "post_id", doc.PageID, "count", len(links.order))
	return links.order, nil
}

// InlineCSS returns the page CSS when the page delivers it inline.
func (c *Collector) InlineCSS(doc *documents.Document) string {
	if doc == nil || !doc.BuiltWithBuilder || doc.CSSMode != documents.CSSModeInline {
		return ""
	}
	return doc.InlineCSS
}

// KitData returns the active Kit with its stylesheet URL made absolute.
func (c *Collector) KitData(ctx context.Context) (kit.Data, error) {
	if c.kits == nil {
		return kit.Data{}, nil
	}
	active, err := c.kits.ActiveKit(ctx)
	if err != nil {
		return kit.Data{}, fmt.Errorf("styles: active kit: %w", err)
	}
	data := kit.ToData(active)
	if data.CSSURL != nil {
		abs := c.normalizer.Absolute(*data.CSSURL)
		data.CSSURL = &abs
	}
	return data, nil
}

type linkSet struct {
	order []string
	seen  map[string]struct{}
}

func newLinkSet() *linkSet {
	return &linkSet{order: []string{}, seen: map[string]struct{}{}}
}

func (s *linkSet) add(url string) {
	if url == "" {
		return
	}
	if _, ok := s.seen[url]; ok {
		return
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
}
