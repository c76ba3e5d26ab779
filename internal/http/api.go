package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-headless/internal/bundle"
	documentscmd "github.com/goliatone/go-headless/internal/commands/documents"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// DefaultBasePath is the mount point used when none is configured.
const DefaultBasePath = "/api"

// BundleBuilder produces the asset bundle of a page.
type BundleBuilder interface {
	Build(ctx context.Context, pageID int64) bundle.Bundle
}

// PageAPI serves page content together with builder bundles.
type PageAPI struct {
	basePath  string
	documents documents.Service
	bundles   BundleBuilder
	save      command.Commander[documentscmd.SaveDocumentCommand]
	remove    command.Commander[documentscmd.DeleteDocumentCommand]
	exposes   func(postType string) bool
	logger    interfaces.Logger
}

// Option mutates the PageAPI configuration.
type Option func(*PageAPI)

// NewPageAPI constructs a PageAPI instance.
func NewPageAPI(opts ...Option) *PageAPI {
	api := &PageAPI{
		basePath: DefaultBasePath,
		exposes:  func(string) bool { return true },
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path.
func WithBasePath(path string) Option {
	return func(api *PageAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithDocumentService wires the document service used for reads.
func WithDocumentService(service documents.Service) Option {
	return func(api *PageAPI) {
		api.documents = service
	}
}

// WithBundleBuilder wires the page asset aggregator.
func WithBundleBuilder(builder BundleBuilder) Option {
	return func(api *PageAPI) {
		api.bundles = builder
	}
}

// WithSaveHandler wires the document save command. Without it PUT is not
// registered.
func WithSaveHandler(handler command.Commander[documentscmd.SaveDocumentCommand]) Option {
	return func(api *PageAPI) {
		api.save = handler
	}
}

// WithDeleteHandler wires the document delete command. Without it DELETE is
// not registered.
func WithDeleteHandler(handler command.Commander[documentscmd.DeleteDocumentCommand]) Option {
	return func(api *PageAPI) {
		api.remove = handler
	}
}

// WithExposure restricts bundles to the post types for which fn returns true.
func WithExposure(fn func(postType string) bool) Option {
	return func(api *PageAPI) {
		if fn != nil {
			api.exposes = fn
		}
	}
}

// WithLogger overrides the API logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *PageAPI) {
		api.logger = logging.OrNoOp(logger)
	}
}

// Register attaches the endpoints to mux.
func (api *PageAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api.documents == nil {
		return fmt.Errorf("http: document service is required")
	}
	if api.bundles == nil {
		return fmt.Errorf("http: bundle builder is required")
	}
	api.registerPageRoutes(mux, api.basePath)
	return nil
}
