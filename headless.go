package headless

import (
	"context"
	"net/http"

	"github.com/goliatone/go-headless/internal/bundle"
	"github.com/goliatone/go-headless/internal/client"
	documentscmd "github.com/goliatone/go-headless/internal/commands/documents"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/dom"
	"github.com/goliatone/go-headless/internal/elements"
	headlesshttp "github.com/goliatone/go-headless/internal/http"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/widgetrender"
)

// Bundle is the asset payload of one page.
type Bundle = bundle.Bundle

// Page is the content endpoint payload.
type Page = bundle.Page

// Document is a stored page document.
type Document = documents.Document

// DocumentService exports the document service contract.
type DocumentService = documents.Service

// Node is one element of a builder layout tree.
type Node = elements.Node

// SaveDocumentCommand exports the document save message.
type SaveDocumentCommand = documentscmd.SaveDocumentCommand

// DeleteDocumentCommand exports the document delete message.
type DeleteDocumentCommand = documentscmd.DeleteDocumentCommand

// Loader exports the client loader/hydrator.
type Loader = client.Loader

// LoaderOption configures a Loader.
type LoaderOption = client.Option

// Interactions exports the wired behaviour of a rendered widget tree.
type Interactions = widgetrender.Interactions

// Module is the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using cfg and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Documents returns the page document service.
func (m *Module) Documents() DocumentService {
	return m.container.DocumentService()
}

// SaveDocument stores a document through the command layer.
func (m *Module) SaveDocument(ctx context.Context, msg SaveDocumentCommand) error {
	return m.container.SaveDocumentHandler().Execute(ctx, msg)
}

// DeleteDocument removes a document through the command layer.
func (m *Module) DeleteDocument(ctx context.Context, pageID int64) error {
	return m.container.DeleteDocumentHandler().Execute(ctx, DeleteDocumentCommand{PageID: pageID})
}

// Bundle builds the asset bundle for pageID.
func (m *Module) Bundle(ctx context.Context, pageID int64) Bundle {
	return m.container.Aggregator().Build(ctx, pageID)
}

// Page returns the content payload for pageID. The bundle is attached only
// for exposed post types.
func (m *Module) Page(ctx context.Context, pageID int64) (*Page, error) {
	doc, err := m.Documents().Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	page := &Page{
		ID:      doc.PageID,
		Type:    doc.PostType,
		Title:   doc.Title,
		Excerpt: doc.Excerpt,
		Content: doc.Content,
	}
	if m.container.Config.ExposesPostType(doc.PostType) {
		b := m.Bundle(ctx, pageID)
		page.Elementor = &b
	}
	return page, nil
}

// RenderWidgets renders a widget tree to HTML with the configured renderers.
func (m *Module) RenderWidgets(tree []Node) string {
	return m.container.WidgetRegistry().ToHTML(tree)
}

// RegisterHTTP mounts the page API on mux.
func (m *Module) RegisterHTTP(mux *http.ServeMux) error {
	c := m.container
	opts := []headlesshttp.Option{
		headlesshttp.WithBasePath(c.Config.Server.BasePath),
		headlesshttp.WithDocumentService(c.DocumentService()),
		headlesshttp.WithBundleBuilder(c.Aggregator()),
		headlesshttp.WithExposure(c.Config.ExposesPostType),
		headlesshttp.WithLogger(logging.HTTPLogger(c.LoggerProvider())),
	}
	if c.Config.Features.Writes {
		opts = append(opts,
			headlesshttp.WithSaveHandler(c.SaveDocumentHandler()),
			headlesshttp.WithDeleteHandler(c.DeleteDocumentHandler()),
		)
	}
	return headlesshttp.NewPageAPI(opts...).Register(mux)
}

// NewLoader creates a client loader for doc using the configured client
// knobs. opts are applied after the configuration.
func (m *Module) NewLoader(doc *dom.Document, opts ...LoaderOption) (*Loader, error) {
	cfg, err := client.ConfigFrom(m.container.Config.Client)
	if err != nil {
		return nil, err
	}
	base := []LoaderOption{
		client.WithConfig(cfg),
		client.WithLogger(logging.ClientLogger(m.container.LoggerProvider())),
	}
	return client.New(doc, append(base, opts...)...), nil
}

// Close releases storage held by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
