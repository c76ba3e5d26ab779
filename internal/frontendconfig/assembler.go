package frontendconfig

import (
	"context"
	"maps"

	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// SettingsProvider is the host runtime's public accessor for the frontend
// settings object.
type SettingsProvider interface {
	FrontendSettings(ctx context.Context, doc *documents.Document) (map[string]any, error)
}

// SettingsProviderFunc adapts a function to SettingsProvider.
type SettingsProviderFunc func(ctx context.Context, doc *documents.Document) (map[string]any, error)

func (fn SettingsProviderFunc) FrontendSettings(ctx context.Context, doc *documents.Document) (map[string]any, error) {
	return fn(ctx, doc)
}

// Breakpoints used when the host runtime supplies no settings.
var Breakpoints = map[string]int{
	"xs":  0,
	"sm":  480,
	"md":  768,
	"lg":  1025,
	"xl":  1440,
	"xxl": 1600,
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger overrides the assembler logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Assembler) {
		a.logger = logging.OrNoOp(logger)
	}
}

// WithFilters sets the extended config hook chain.
func WithFilters(filters *Filters) Option {
	return func(a *Assembler) {
		if filters != nil {
			a.filters = filters
		}
	}
}

// WithNonce overrides the nonce generator.
func WithNonce(fn func() string) Option {
	return func(a *Assembler) {
		if fn != nil {
			a.nonce = fn
		}
	}
}

// Assembler produces the core and extended frontend config objects.
type Assembler struct {
	cfg        runtimeconfig.Config
	provider   SettingsProvider
	normalizer assets.Normalizer
	endpoints  *Endpoints
	filters    *Filters
	nonce      func() string
	logger     interfaces.Logger
}

// NewAssembler builds an assembler for cfg. provider may be nil, in which
// case the fallback settings are always used.
func NewAssembler(cfg runtimeconfig.Config, provider SettingsProvider, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:        cfg,
		provider:   provider,
		normalizer: assets.NewNormalizer(cfg.SiteURL),
		endpoints:  NewEndpoints(cfg.SiteURL, cfg.Runtime.AjaxPath, cfg.Runtime.RESTPath),
		filters:    NewFilters(),
		nonce:      uuid.NewString,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.ExtendedExposed() && cfg.WildcardOrigin() {
		a.logger.Warn("frontendconfig.extended.wildcard_origin",
			"origins", cfg.Exposure.AllowedOrigins,
		)
	}
	return a
}

// ExtendedExposed reports whether the extended config leaves the server.
func (a *Assembler) ExtendedExposed() bool {
	return a.cfg.Runtime.ExtendedActive && a.cfg.Exposure.ExtendedConfig
}

// CoreConfig returns the runtime settings object with the page's post data
// merged in. A failing or empty provider yields the fallback object.
func (a *Assembler) CoreConfig(ctx context.Context, doc *documents.Document) map[string]any {
	var settings map[string]any
	if a.provider != nil {
		got, err := a.provider.FrontendSettings(ctx, doc)
		if err != nil {
			a.logger.Warn("frontendconfig.provider.failed", "error", err)
		} else {
			settings = maps.Clone(got)
		}
	}
	if len(settings) == 0 {
		settings = a.fallback()
	}
	settings["post"] = postData(doc)
	return settings
}

// ExtendedConfig returns the extended runtime config, or nil when it is not
// exposed. The result of the filter chain is returned as is.
func (a *Assembler) ExtendedConfig(ctx context.Context, doc *documents.Document) (map[string]any, error) {
	if !a.ExtendedExposed() {
		return nil, nil
	}
	ajaxURL, err := a.endpoints.AjaxURL()
	if err != nil {
		return nil, err
	}
	restURL, err := a.endpoints.RESTURL()
	if err != nil {
		return nil, err
	}
	base := map[string]any{
		"ajaxurl": ajaxURL,
		"nonce":   a.nonce(),
		"urls": map[string]any{
			"assets": a.normalizer.Absolute(a.cfg.Runtime.ExtendedAssetsURL),
			"rest":   restURL,
		},
		"lazyloadBackgrounds": a.cfg.Runtime.LazyLoadBackgrounds,
	}
	return a.filters.Apply(ctx, base, doc), nil
}

func (a *Assembler) fallback() map[string]any {
	rt := a.cfg.Runtime
	restURL, err := a.endpoints.RESTURL()
	if err != nil {
		a.logger.Warn("frontendconfig.rest_url.failed", "error", err)
	}
	breakpoints := make(map[string]any, len(Breakpoints))
	for name, width := range Breakpoints {
		breakpoints[name] = width
	}
	return map[string]any{
		"environmentMode": map[string]any{
			"edit":          false,
			"wpPreview":     false,
			"isScriptDebug": rt.Debug,
		},
		"is_rtl":      rt.IsRTL,
		"breakpoints": breakpoints,
		"version":     rt.Version,
		"urls": map[string]any{
			"assets":    a.normalizer.Absolute(rt.AssetsURL),
			"uploadUrl": a.normalizer.Absolute(rt.UploadsURL),
			"rest":      restURL,
		},
	}
}

func postData(doc *documents.Document) map[string]any {
	if doc == nil {
		return map[string]any{"id": int64(0), "title": "", "excerpt": ""}
	}
	return map[string]any{
		"id":      doc.PageID,
		"title":   doc.Title,
		"excerpt": doc.Excerpt,
	}
}
