package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/bundle"
	"github.com/goliatone/go-headless/internal/client"
	"github.com/goliatone/go-headless/internal/dom"
	"github.com/goliatone/go-headless/internal/kit"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"golang.org/x/net/html"
)

type recordingScripts struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (r *recordingScripts) LoadScript(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, url)
	return r.fail[url]
}

func (r *recordingScripts) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func ptr[T any](v T) *T { return &v }

func builderPage() *bundle.Page {
	return &bundle.Page{
		ID:      42,
		Type:    "page",
		Title:   "Landing <b>",
		Content: `<div class="elementor elementor-42"><div class="elementor-element" data-id="a1"></div><div class="elementor-element" data-id="a2"></div></div>`,
		Elementor: &bundle.Bundle{
			IsElementor: true,
			StyleLinks: []string{
				"https://example.com/wp-content/uploads/elementor/css/post-5.css",
				"https://example.com/assets/css/frontend.min.css",
				"https://example.com/wp-content/uploads/elementor/css/post-42.css",
			},
			InlineCSS: ".elementor-42 .hero{color:red}",
			Scripts: []string{
				"https://example.com/wp-includes/js/jquery/jquery.min.js",
				"https://example.com/assets/js/webpack.runtime.min.js",
				"https://example.com/assets/js/frontend-modules.min.js",
				"https://example.com/assets/js/frontend.min.js",
			},
			Config:    map[string]any{"version": "3.23.0"},
			ProConfig: map[string]any{"nonce": "abc"},
			Kit: kit.Data{
				ID:     ptr(int64(5)),
				CSSURL: ptr("https://example.com/wp-content/uploads/elementor/css/post-5.css"),
			},
		},
	}
}

type harness struct {
	doc       *dom.Document
	container *html.Node
	scripts   *recordingScripts
	runtime   *client.MemoryRuntime
	loader    *client.Loader
	inits     int
}

func newHarness(t *testing.T, opts ...client.Option) *harness {
	t.Helper()
	doc := dom.MustParse(`<html><head></head><body><div id="app"></div></body></html>`)
	container, _ := doc.Query("#app")
	h := &harness{doc: doc, container: container, scripts: &recordingScripts{}, runtime: client.NewMemoryRuntime()}
	h.runtime.Define(func(context.Context) error {
		h.inits++
		return nil
	})
	base := []client.Option{
		client.WithSession(client.NewSession()),
		client.WithScriptLoader(h.scripts),
		client.WithRuntime(h.runtime),
		client.WithConfig(client.Config{InitTimeout: 200 * time.Millisecond, PollInterval: 5 * time.Millisecond}),
	}
	h.loader = client.New(doc, append(base, opts...)...)
	return h
}

func headLinks(t *testing.T, doc *dom.Document) []string {
	t.Helper()
	nodes, err := dom.QueryAll(doc.Head(), `link[rel="stylesheet"]`)
	if err != nil {
		t.Fatalf("query links: %v", err)
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		href, _ := dom.Attr(n, "href")
		out = append(out, href)
	}
	return out
}

func TestRenderNonBuilderPageDoesNoAssetWork(t *testing.T) {
	h := newHarness(t)
	page := &bundle.Page{ID: 7, Content: "<p>plain</p>", Elementor: &bundle.Bundle{IsElementor: false}}

	report, err := h.loader.Render(context.Background(), h.container, page, client.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if report.State != client.StateReady {
		t.Fatalf("expected ready, got %s", report.State)
	}
	if len(h.scripts.Calls()) != 0 || len(headLinks(t, h.doc)) != 0 || h.inits != 0 {
		t.Fatalf("expected no asset work, scripts %v links %v", h.scripts.Calls(), headLinks(t, h.doc))
	}
	if got := dom.InnerHTML(h.container); got != "<p>plain</p>" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestRenderEmptyNonBuilderShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	if _, err := h.loader.Render(context.Background(), h.container, &bundle.Page{ID: 7}, client.Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(dom.InnerHTML(h.container), "No content") {
		t.Fatalf("expected placeholder, got %q", dom.InnerHTML(h.container))
	}
}

func TestRenderBuilderPage(t *testing.T) {
	h := newHarness(t)
	report, err := h.loader.Render(context.Background(), h.container, builderPage(), client.Options{ShowTitle: true, TitleTag: "h2"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if report.State != client.StateReady || h.loader.State(h.container) != client.StateReady {
		t.Fatalf("expected ready, got %s", report.State)
	}
	if report.Failed() {
		t.Fatalf("unexpected failures %+v", report)
	}

	if !dom.HasClass(h.container, "elementor-kit-5") {
		t.Fatal("expected kit class on container")
	}
	links := headLinks(t, h.doc)
	if len(links) != 3 || links[0] != "https://example.com/wp-content/uploads/elementor/css/post-5.css" {
		t.Fatalf("unexpected links %v", links)
	}
	if report.InlineAdded != 1 {
		t.Fatalf("expected one inline block, got %d", report.InlineAdded)
	}

	if cfg, ok := h.runtime.Global(client.GlobalConfig); !ok || cfg.(map[string]any)["version"] != "3.23.0" {
		t.Fatalf("expected core config installed, got %v", cfg)
	}
	if _, ok := h.runtime.Global(client.GlobalExtendedConfig); !ok {
		t.Fatal("expected extended config installed")
	}

	title, _ := dom.QueryFirst(h.container, "h2")
	if title == nil || dom.Text(title) != "Landing <b>" {
		t.Fatalf("expected escaped title, got %q", dom.InnerHTML(h.container))
	}

	calls := h.scripts.Calls()
	if len(calls) != 4 {
		t.Fatalf("expected 4 script loads, got %v", calls)
	}
	foundation := map[string]bool{calls[0]: true, calls[1]: true}
	if !foundation["https://example.com/wp-includes/js/jquery/jquery.min.js"] || !foundation["https://example.com/assets/js/webpack.runtime.min.js"] {
		t.Fatalf("expected foundation scripts first, got %v", calls)
	}
	if calls[2] != "https://example.com/assets/js/frontend-modules.min.js" || calls[3] != "https://example.com/assets/js/frontend.min.js" {
		t.Fatalf("expected remaining scripts in order, got %v", calls)
	}
	if h.inits != 1 || !report.Initialized || report.ReadyElements != 2 {
		t.Fatalf("expected init and 2 ready elements, got inits=%d report=%+v", h.inits, report)
	}
}

func TestRenderTwiceDeduplicatesAssets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.loader.Render(ctx, h.container, builderPage(), client.Options{}); err != nil {
		t.Fatalf("first render: %v", err)
	}
	report, err := h.loader.Render(ctx, h.container, builderPage(), client.Options{})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(report.StylesAdded) != 0 || report.InlineAdded != 0 || len(report.ScriptsLoaded) != 0 {
		t.Fatalf("expected no new assets, got %+v", report)
	}
	if len(report.ScriptsSkipped) != 4 {
		t.Fatalf("expected all scripts skipped, got %v", report.ScriptsSkipped)
	}
	if len(headLinks(t, h.doc)) != 3 || h.loader.Session().InlineStyles() != 1 {
		t.Fatalf("expected no duplicate style elements")
	}
	if report.InitErr != nil || !report.Initialized {
		t.Fatalf("already initialised runtime must be tolerated, got %v", report.InitErr)
	}
}

func TestRenderContinuesAfterScriptFailure(t *testing.T) {
	h := newHarness(t)
	broken := "https://example.com/assets/js/frontend-modules.min.js"
	h.scripts.fail = map[string]error{broken: errors.New("404")}

	report, err := h.loader.Render(context.Background(), h.container, builderPage(), client.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(report.ScriptFailures) != 1 || report.ScriptFailures[0].URL != broken {
		t.Fatalf("expected one failure, got %+v", report.ScriptFailures)
	}
	if len(report.ScriptsLoaded) != 3 || report.State != client.StateReady {
		t.Fatalf("expected later scripts to load, got %+v", report)
	}
}

func TestRenderInitTimeout(t *testing.T) {
	doc := dom.MustParse(`<div id="app"></div>`)
	container, _ := doc.Query("#app")
	loader := client.New(doc,
		client.WithSession(client.NewSession()),
		client.WithScriptLoader(&recordingScripts{}),
		client.WithRuntime(client.NewMemoryRuntime()),
		client.WithConfig(client.Config{InitTimeout: 30 * time.Millisecond, PollInterval: 5 * time.Millisecond}),
	)

	report, err := loader.Render(context.Background(), container, builderPage(), client.Options{})
	if err != nil {
		t.Fatalf("Render must not return init failures, got %v", err)
	}
	if !errors.Is(report.InitErr, client.ErrInitTimeout) || report.Initialized {
		t.Fatalf("expected init timeout, got %+v", report)
	}
	if report.State != client.StateReady {
		t.Fatalf("expected ready state after init failure, got %s", report.State)
	}
}

func TestHydrateSkipsCSSUnlessRequested(t *testing.T) {
	h := newHarness(t)
	if err := dom.SetInnerHTML(h.container, builderPage().Content); err != nil {
		t.Fatalf("seed markup: %v", err)
	}

	report, err := h.loader.Hydrate(context.Background(), h.container, builderPage(), client.Options{})
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if len(headLinks(t, h.doc)) != 0 || report.InlineAdded != 0 {
		t.Fatalf("expected no css, got %v", headLinks(t, h.doc))
	}
	if len(report.ScriptsLoaded) != 4 || report.ReadyElements != 2 {
		t.Fatalf("expected scripts and init, got %+v", report)
	}

	other := newHarness(t)
	report, _ = other.loader.Hydrate(context.Background(), other.container, builderPage(), client.Options{LoadCSS: true})
	if len(report.StylesAdded) != 3 {
		t.Fatalf("expected css with LoadCSS, got %v", report.StylesAdded)
	}
}

func TestDestroyRemovesPageAssetsOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.loader.Render(ctx, h.container, builderPage(), client.Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if err := h.loader.Destroy(h.container); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	links := headLinks(t, h.doc)
	want := []string{
		"https://example.com/wp-content/uploads/elementor/css/post-5.css",
		"https://example.com/assets/css/frontend.min.css",
	}
	if strings.Join(links, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected remaining links %v", links)
	}
	if h.loader.Session().InlineStyles() != 0 {
		t.Fatal("expected inline styles forgotten")
	}
	if styles, _ := dom.QueryAll(h.doc.Head(), "style"); len(styles) != 0 {
		t.Fatalf("expected inline style elements removed, got %d", len(styles))
	}
	if dom.HasClass(h.container, "elementor-kit-5") || dom.InnerHTML(h.container) != "" {
		t.Fatalf("expected container reset, got %q", dom.Render(h.container))
	}
	if h.loader.State(h.container) != client.StateDestroyed {
		t.Fatalf("expected destroyed, got %s", h.loader.State(h.container))
	}
	if len(h.loader.Session().LoadedScripts()) != 4 {
		t.Fatal("script memo must survive destroy")
	}

	report, _ := h.loader.Render(ctx, h.container, builderPage(), client.Options{})
	if len(report.StylesAdded) != 1 || report.StylesAdded[0] != "https://example.com/wp-content/uploads/elementor/css/post-42.css" {
		t.Fatalf("expected only page css reloaded, got %v", report.StylesAdded)
	}
}

func TestLoadFetchesAndRenders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pages/42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(builderPage())
	}))
	defer server.Close()

	h := newHarness(t, client.WithFetcher(client.HTTPFetcher{Client: server.Client()}))
	report, err := h.loader.Load(context.Background(), "#app", server.URL+"/api/pages/42", client.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if report.State != client.StateReady || report.FetchErr != nil {
		t.Fatalf("unexpected report %+v", report)
	}
	if dom.HasClass(h.container, "headless-loading") {
		t.Fatal("loading indicator must be cleared")
	}
}

func TestLoadReportsFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := newHarness(t, client.WithFetcher(client.HTTPFetcher{Client: server.Client()}))
	report, err := h.loader.Load(context.Background(), "#app", server.URL+"/api/pages/42", client.Options{})
	if err != nil {
		t.Fatalf("Load must report fetch failures, got %v", err)
	}
	var status *client.StatusError
	if !errors.As(report.FetchErr, &status) || status.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", report.FetchErr)
	}
	if report.State != client.StateError || h.loader.State(h.container) != client.StateError {
		t.Fatalf("expected error state, got %s", report.State)
	}
	if alert, _ := dom.QueryFirst(h.container, `[role="alert"]`); alert == nil {
		t.Fatalf("expected inline error message, got %q", dom.InnerHTML(h.container))
	}
	if len(h.scripts.Calls()) != 0 {
		t.Fatal("no scripts should load after a failed fetch")
	}
}

func TestInvalidInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.loader.Load(ctx, "#missing", "https://example.com", client.Options{}); !errors.Is(err, client.ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
	if _, err := h.loader.Load(ctx, "#app", " ", client.Options{}); !errors.Is(err, client.ErrURLRequired) {
		t.Fatalf("expected ErrURLRequired, got %v", err)
	}
	if _, err := h.loader.Render(ctx, nil, builderPage(), client.Options{}); !errors.Is(err, client.ErrContainerRequired) {
		t.Fatalf("expected ErrContainerRequired, got %v", err)
	}
	if _, err := h.loader.Render(ctx, h.container, nil, client.Options{}); !errors.Is(err, client.ErrPayloadRequired) {
		t.Fatalf("expected ErrPayloadRequired, got %v", err)
	}
}

func TestConfigPatterns(t *testing.T) {
	cfg := client.DefaultConfig()
	if cfg.FoundationPattern == nil || !cfg.FoundationPattern.MatchString("https://x/jquery.min.js") {
		t.Fatal("default foundation pattern should match jquery")
	}
	if cfg.FoundationPattern.MatchString("https://x/frontend.min.js") {
		t.Fatal("frontend bundle is not a foundation script")
	}
	if !cfg.PageStylePattern.MatchString("https://x/uploads/elementor/css/post-42.css") {
		t.Fatal("default page style pattern should match per-page css")
	}

	raw := runtimeconfig.DefaultConfig().Client
	raw.FoundationPattern = "("
	if _, err := client.ConfigFrom(raw); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestLoadersOfOneDocumentShareASession(t *testing.T) {
	doc := dom.MustParse(`<html><head></head><body><div id="app"></div></body></html>`)
	other := dom.MustParse(`<html><head></head><body><div id="app"></div></body></html>`)
	t.Cleanup(func() {
		client.ReleaseSession(doc)
		client.ReleaseSession(other)
	})

	if client.New(doc).Session() != client.New(doc).Session() {
		t.Fatal("loaders of the same document should share a session")
	}
	if client.New(doc).Session() == client.New(other).Session() {
		t.Fatal("loaders of different documents must not share a session")
	}
	if client.NewSession() == client.NewSession() {
		t.Fatal("expected independent sessions")
	}
}

func TestRenderIntoTwoDocumentsLoadsAssetsInEach(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"first", "second"} {
		doc := dom.MustParse(`<html><head></head><body><div id="app"></div></body></html>`)
		t.Cleanup(func() { client.ReleaseSession(doc) })
		container, _ := doc.Query("#app")
		runtime := client.NewMemoryRuntime()
		runtime.Define(func(context.Context) error { return nil })
		scripts := &recordingScripts{}
		loader := client.New(doc,
			client.WithScriptLoader(scripts),
			client.WithRuntime(runtime),
			client.WithConfig(client.Config{InitTimeout: 200 * time.Millisecond, PollInterval: 5 * time.Millisecond}),
		)

		report, err := loader.Render(ctx, container, builderPage(), client.Options{})
		if err != nil {
			t.Fatalf("%s render: %v", name, err)
		}
		if links := headLinks(t, doc); len(links) != 3 {
			t.Fatalf("%s document: expected 3 stylesheets, got %v", name, links)
		}
		if styles, _ := dom.QueryAll(doc.Head(), "style"); len(styles) != 1 {
			t.Fatalf("%s document: expected inline css, got %d blocks", name, len(styles))
		}
		if len(scripts.Calls()) != 4 || len(report.ScriptsSkipped) != 0 {
			t.Fatalf("%s document: expected every script loaded, got %v skipped %v", name, scripts.Calls(), report.ScriptsSkipped)
		}
	}
}

// gatedScripts holds jQuery until the webpack runtime has been requested and
// logs request and completion events in order.
type gatedScripts struct {
	mu      sync.Mutex
	events  []string
	runtime chan struct{}
}

func newGatedScripts() *gatedScripts {
	return &gatedScripts{runtime: make(chan struct{})}
}

func (g *gatedScripts) log(event string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
}

func (g *gatedScripts) index(event string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, e := range g.events {
		if e == event {
			return i
		}
	}
	return -1
}

func scriptName(url string) string {
	switch {
	case strings.Contains(url, "jquery"):
		return "jquery"
	case strings.Contains(url, "webpack"):
		return "runtime"
	case strings.Contains(url, "frontend-modules"):
		return "modules"
	default:
		return "frontend"
	}
}

func (g *gatedScripts) LoadScript(ctx context.Context, url string) error {
	name := scriptName(url)
	g.log("start:" + name)
	switch name {
	case "runtime":
		close(g.runtime)
	case "jquery":
		select {
		case <-g.runtime:
		case <-time.After(2 * time.Second):
			return errors.New("jquery was loaded alone")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.log("done:" + name)
	return nil
}

func TestRenderLoadsFoundationScriptsConcurrently(t *testing.T) {
	versioned := builderPage()
	for i, url := range versioned.Elementor.Scripts {
		versioned.Elementor.Scripts[i] = url + "?ver=3.23.0"
	}
	cases := []struct {
		name string
		page *bundle.Page
	}{
		{name: "plain urls", page: builderPage()},
		{name: "versioned urls", page: versioned},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := newGatedScripts()
			h := newHarness(t, client.WithScriptLoader(gate))

			report, err := h.loader.Render(context.Background(), h.container, tc.page, client.Options{})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if len(report.ScriptFailures) != 0 {
				t.Fatalf("foundation scripts did not load together: %+v", report.ScriptFailures)
			}
			modules := gate.index("start:modules")
			for _, done := range []string{"done:jquery", "done:runtime"} {
				at := gate.index(done)
				if at < 0 || at > modules {
					t.Fatalf("frontend modules requested before %s: %v", done, gate.events)
				}
			}
			if gate.index("start:frontend") < gate.index("done:modules") {
				t.Fatalf("ordered scripts overlapped: %v", gate.events)
			}
		})
	}
}

func TestDestroyRemovesVersionedPageStylesheet(t *testing.T) {
	h := newHarness(t)
	page := builderPage()
	for i, url := range page.Elementor.StyleLinks {
		page.Elementor.StyleLinks[i] = url + "?ver=1700000000"
	}
	page.Elementor.Kit.CSSURL = ptr(*page.Elementor.Kit.CSSURL + "?ver=1700000000")
	if _, err := h.loader.Render(context.Background(), h.container, page, client.Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := h.loader.Destroy(h.container); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	want := []string{
		"https://example.com/wp-content/uploads/elementor/css/post-5.css?ver=1700000000",
		"https://example.com/assets/css/frontend.min.css?ver=1700000000",
	}
	if links := headLinks(t, h.doc); strings.Join(links, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected remaining links %v", links)
	}
}

func TestHydrateNonBuilderPageDoesNoAssetWork(t *testing.T) {
	h := newHarness(t)
	if err := dom.SetInnerHTML(h.container, "<p>server markup</p>"); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}
	for _, page := range []*bundle.Page{
		{ID: 7, Content: "<p>plain</p>"},
		{ID: 7, Content: "<p>plain</p>", Elementor: &bundle.Bundle{IsElementor: false, Scripts: []string{"https://example.com/x.js"}}},
	} {
		report, err := h.loader.Hydrate(context.Background(), h.container, page, client.Options{LoadCSS: true})
		if err != nil {
			t.Fatalf("Hydrate: %v", err)
		}
		if report.State != client.StateReady {
			t.Fatalf("expected ready, got %s", report.State)
		}
	}
	if len(h.scripts.Calls()) != 0 || len(headLinks(t, h.doc)) != 0 || h.inits != 0 {
		t.Fatalf("expected no asset work, scripts %v links %v inits %d", h.scripts.Calls(), headLinks(t, h.doc), h.inits)
	}
	if _, ok := h.runtime.Global(client.GlobalConfig); ok {
		t.Fatal("config must not be installed for plain pages")
	}
	if got := dom.InnerHTML(h.container); got != "<p>server markup</p>" {
		t.Fatalf("markup must be left untouched, got %q", got)
	}
}
