package client

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-headless/internal/bundle"
	"github.com/goliatone/go-headless/internal/dom"
	"github.com/goliatone/go-headless/internal/kit"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/pkg/interfaces"
	xhtml "golang.org/x/net/html"
)

// Config holds the loader knobs.
type Config struct {
	InitTimeout       time.Duration
	PollInterval      time.Duration
	FoundationPattern *regexp.Regexp
	PageStylePattern  *regexp.Regexp
	KitClassPrefix    string
	TitleTag          string
}

// ConfigFrom compiles the client section of the runtime config.
func ConfigFrom(cfg runtimeconfig.ClientConfig) (Config, error) {
	foundation, err := regexp.Compile(cfg.FoundationPattern)
	if err != nil {
		return Config{}, fmt.Errorf("client: foundation pattern: %w", err)
	}
	pageStyle, err := regexp.Compile(cfg.PageStylePattern)
	if err != nil {
		return Config{}, fmt.Errorf("client: page style pattern: %w", err)
	}
	return Config{
		InitTimeout:       cfg.InitTimeout,
		PollInterval:      cfg.PollInterval,
		FoundationPattern: foundation,
		PageStylePattern:  pageStyle,
		KitClassPrefix:    cfg.KitClassPrefix,
		TitleTag:          cfg.TitleTag,
	}, nil
}

// DefaultConfig returns the loader defaults.
func DefaultConfig() Config {
	cfg, err := ConfigFrom(runtimeconfig.DefaultConfig().Client)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Option configures a Loader.
type Option func(*Loader)

// WithSession uses session instead of the one shared by loaders of the same
// document.
func WithSession(session *Session) Option {
	return func(l *Loader) {
		if session != nil {
			l.session = session
		}
	}
}

// WithFetcher sets the payload fetcher.
func WithFetcher(fetcher Fetcher) Option {
	return func(l *Loader) {
		if fetcher != nil {
			l.fetcher = fetcher
		}
	}
}

// WithScriptLoader sets the script loader.
func WithScriptLoader(loader ScriptLoader) Option {
	return func(l *Loader) {
		if loader != nil {
			l.scripts = loader
		}
	}
}

// WithRuntime sets the frontend runtime.
func WithRuntime(runtime Runtime) Option {
	return func(l *Loader) {
		if runtime != nil {
			l.runtime = runtime
		}
	}
}

// WithConfig overrides the loader knobs. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(l *Loader) {
		if cfg.InitTimeout > 0 {
			l.cfg.InitTimeout = cfg.InitTimeout
		}
		if cfg.PollInterval > 0 {
			l.cfg.PollInterval = cfg.PollInterval
		}
		if cfg.FoundationPattern != nil {
			l.cfg.FoundationPattern = cfg.FoundationPattern
		}
		if cfg.PageStylePattern != nil {
			l.cfg.PageStylePattern = cfg.PageStylePattern
		}
		if cfg.KitClassPrefix != "" {
			l.cfg.KitClassPrefix = cfg.KitClassPrefix
		}
		if cfg.TitleTag != "" {
			l.cfg.TitleTag = cfg.TitleTag
		}
	}
}

// WithLogger overrides the loader logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		l.logger = logging.OrNoOp(logger)
	}
}

// WithClock overrides the clock used for report durations.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// Loader drives containers of one document through the load, render,
// hydrate and destroy lifecycle.
type Loader struct {
	doc     *dom.Document
	session *Session
	fetcher Fetcher
	scripts ScriptLoader
	runtime Runtime
	cfg     Config
	logger  interfaces.Logger
	now     func() time.Time

	mu     sync.Mutex
	states map[*xhtml.Node]State
}

// New builds a loader for doc.
func New(doc *dom.Document, opts ...Option) *Loader {
	l := &Loader{
		doc:     doc,
		session: SessionFor(doc),
		fetcher: HTTPFetcher{},
		scripts: HTTPScriptLoader{},
		runtime: NewMemoryRuntime(),
		cfg:     DefaultConfig(),
		logger:  logging.NoOp(),
		now:     time.Now,
		states:  map[*xhtml.Node]State{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Session returns the session the loader records into.
func (l *Loader) Session() *Session { return l.session }

// State returns the lifecycle state of container.
func (l *Loader) State(container *xhtml.Node) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok := l.states[container]; ok {
		return state
	}
	return StateIdle
}

func (l *Loader) setState(container *xhtml.Node, report *Report, state State) {
	l.mu.Lock()
	l.states[container] = state
	l.mu.Unlock()
	if report != nil {
		report.State = state
	}
	l.logger.Debug("client.state", "state", string(state))
}

// Load fetches the page at url and renders it into the element matched by
// selector.
func (l *Loader) Load(ctx context.Context, selector, url string, opts Options) (*Report, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrURLRequired
	}
	container, err := l.doc.Query(selector)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, selector)
	}

	started := l.now()
	report := &Report{}
	l.setState(container, report, StateLoading)
	dom.AddClass(container, loadingClass)
	dom.SetAttr(container, "aria-busy", "true")

	page, err := l.fetcher.FetchPage(ctx, url)
	dom.RemoveClass(container, loadingClass)
	dom.RemoveAttr(container, "aria-busy")
	if err != nil {
		logging.WithURL(l.logger, url).Error("client.fetch.failed", "error", err)
		report.FetchErr = err
		markup := fmt.Sprintf(`<div class="%s" role="alert">Failed to load content: %s</div>`, errorClass, html.EscapeString(err.Error()))
		if setErr := dom.SetInnerHTML(container, markup); setErr != nil {
			return nil, setErr
		}
		l.setState(container, report, StateError)
		report.Duration = l.now().Sub(started)
		return report, nil
	}

	rendered, err := l.Render(ctx, container, page, opts)
	if err != nil {
		return nil, err
	}
	rendered.Duration = l.now().Sub(started)
	return rendered, nil
}

// Render mounts page into container and brings the builder runtime up.
func (l *Loader) Render(ctx context.Context, container *xhtml.Node, page *bundle.Page, opts Options) (*Report, error) {
	if container == nil {
		return nil, ErrContainerRequired
	}
	if page == nil {
		return nil, ErrPayloadRequired
	}
	started := l.now()
	report := &Report{}
	l.setState(container, report, StateRendering)

	if !page.IsElementor() {
		if err := l.mountFallback(container, page, opts); err != nil {
			return nil, err
		}
		l.setState(container, report, StateReady)
		report.Duration = l.now().Sub(started)
		return report, nil
	}

	b := page.Elementor
	l.applyKitClass(container, b.Kit)
	l.loadStyles(b, report)
	l.installConfig(b)
	if err := l.mountContent(container, page, opts, page.Content); err != nil {
		return nil, err
	}
	l.finish(ctx, container, b, report)
	report.Duration = l.now().Sub(started)
	return report, nil
}

// Hydrate brings the runtime up over markup that is already in container.
// CSS is loaded only when opts.LoadCSS is set. Pages without a builder bundle
// are left as they are.
func (l *Loader) Hydrate(ctx context.Context, container *xhtml.Node, page *bundle.Page, opts Options) (*Report, error) {
	if container == nil {
		return nil, ErrContainerRequired
	}
	if page == nil {
		return nil, ErrPayloadRequired
	}
	started := l.now()
	report := &Report{}
	l.setState(container, report, StateRendering)

	if !page.IsElementor() {
		l.setState(container, report, StateReady)
		report.Duration = l.now().Sub(started)
		return report, nil
	}

	b := page.Elementor
	l.applyKitClass(container, b.Kit)
	if opts.LoadCSS {
		l.loadStyles(b, report)
	}
	l.installConfig(b)
	l.finish(ctx, container, b, report)
	report.Duration = l.now().Sub(started)
	return report, nil
}

// Destroy removes the page specific assets this session injected and clears
// container. Shared stylesheets and the loaded script memo are kept.
func (l *Loader) Destroy(container *xhtml.Node) error {
	if container == nil {
		return ErrContainerRequired
	}
	for _, node := range l.session.forgetPageStyles(l.isPageStyle) {
		dom.Remove(node)
	}
	dom.RemoveClassPrefix(container, l.kitPrefix())
	dom.Clear(container)
	l.setState(container, nil, StateDestroyed)
	return nil
}

func (l *Loader) finish(ctx context.Context, container *xhtml.Node, b *bundle.Bundle, report *Report) {
	l.setState(container, report, StateScriptsLoading)
	l.loadScripts(ctx, b.Scripts, report)

	l.setState(container, report, StateInitializing)
	if err := l.initRuntime(ctx); err != nil {
		l.logger.Error("client.init.failed", "error", err)
		report.InitErr = err
	} else {
		report.Initialized = true
		report.ReadyElements = l.readyElements(ctx, container)
	}
	l.setState(container, report, StateReady)
}

func (l *Loader) mountFallback(container *xhtml.Node, page *bundle.Page, opts Options) error {
	content := page.Content
	if strings.TrimSpace(content) == "" {
		content = fmt.Sprintf(`<p class="%s">No content</p>`, emptyClass)
	}
	return l.mountContent(container, page, opts, content)
}

func (l *Loader) mountContent(container *xhtml.Node, page *bundle.Page, opts Options, content string) error {
	var b strings.Builder
	if opts.ShowTitle && strings.TrimSpace(page.Title) != "" {
		tag := opts.TitleTag
		if tag == "" {
			tag = l.cfg.TitleTag
		}
		if tag == "" {
			tag = "h1"
		}
		fmt.Fprintf(&b, "<%s>%s</%s>", tag, html.EscapeString(page.Title), tag)
	}
	b.WriteString(content)
	return dom.SetInnerHTML(container, b.String())
}

func (l *Loader) applyKitClass(container *xhtml.Node, data kit.Data) {
	if data.ID == nil {
		return
	}
	dom.AddClass(container, kit.ClassName(l.kitPrefix(), *data.ID))
}

func (l *Loader) kitPrefix() string {
	if l.cfg.KitClassPrefix == "" {
		return kit.DefaultClassPrefix
	}
	return l.cfg.KitClassPrefix
}

func (l *Loader) installConfig(b *bundle.Bundle) {
	if b.Config != nil {
		l.runtime.SetGlobal(GlobalConfig, b.Config)
	}
	if b.ProConfig != nil {
		l.runtime.SetGlobal(GlobalExtendedConfig, b.ProConfig)
	}
}

func (l *Loader) isPageStyle(href string) bool {
	return matchPath(l.cfg.PageStylePattern, href)
}

// matchPath matches pattern against the path of raw, so cache busting query
// strings such as ?ver=3.23.0 do not defeat anchored patterns.
func matchPath(pattern *regexp.Regexp, raw string) bool {
	if pattern == nil {
		return false
	}
	path := raw
	if parsed, err := url.Parse(raw); err == nil {
		path = parsed.Path
	}
	return pattern.MatchString(path)
}
