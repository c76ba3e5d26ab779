package di_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/assets"
	documentscmd "github.com/goliatone/go-headless/internal/commands/documents"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/internal/elements"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

const manifestYAML = `styles:
  - handle: elementor-icons
    src: /wp-content/plugins/elementor/assets/lib/eicons/css/elementor-icons.min.css
  - handle: elementor-frontend
    src: /wp-content/plugins/elementor/assets/css/frontend.min.css
    deps: [elementor-icons]
scripts:
  - handle: swiper
    src: /wp-content/plugins/elementor/assets/lib/swiper/swiper.min.js
widgets:
  image-carousel: [swiper]
`

func testManifest(t *testing.T) *assets.Manifest {
	t.Helper()
	manifest, err := assets.LoadManifest(strings.NewReader(manifestYAML))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	return manifest
}

func saveCommand() documentscmd.SaveDocumentCommand {
	return documentscmd.SaveDocumentCommand{
		PageID:           42,
		PostType:         "page",
		Title:            "Landing",
		BuiltWithBuilder: true,
		CSSFileURL:       "/wp-content/uploads/elementor/css/post-42.css",
		Elements: []elements.Node{
			{ID: "w1", ElType: elements.KindWidget, WidgetType: "image-carousel"},
		},
	}
}

func assertLandingBundle(t *testing.T, container *di.Container) {
	t.Helper()
	ctx := context.Background()
	if err := container.SaveDocumentHandler().Execute(ctx, saveCommand()); err != nil {
		t.Fatalf("save document: %v", err)
	}

	b := container.Aggregator().Build(ctx, 42)
	if b.Error != nil {
		t.Fatalf("unexpected bundle error %+v", b.Error)
	}
	want := []string{
		"http://wp.test/wp-content/plugins/elementor/assets/lib/eicons/css/elementor-icons.min.css",
		"http://wp.test/wp-content/plugins/elementor/assets/css/frontend.min.css",
		"http://wp.test/wp-content/uploads/elementor/css/post-42.css",
	}
	if fmt.Sprint(b.StyleLinks) != fmt.Sprint(want) {
		t.Fatalf("unexpected style links\nwant %v\ngot  %v", want, b.StyleLinks)
	}
	found := false
	for _, src := range b.Scripts {
		if strings.HasSuffix(src, "/swiper.min.js") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected widget script in %v", b.Scripts)
	}
}

func baseConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SiteURL = "http://wp.test"
	return cfg
}

func TestContainerMemoryStorage(t *testing.T) {
	container, err := di.NewContainer(baseConfig(), di.WithManifest(testManifest(t)))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.DB() != nil || container.MemoryAssetRegistry() == nil {
		t.Fatal("expected memory backed registries")
	}
	assertLandingBundle(t, container)

	if _, ok := container.WidgetRegistry().Lookup("markdown"); !ok {
		t.Fatal("expected markdown renderer registered by default")
	}
}

func TestContainerSQLiteStorage(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.Provider = "sqlite"
	cfg.Storage.DSN = fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared", time.Now().UnixNano())

	container, err := di.NewContainer(cfg, di.WithManifest(testManifest(t)))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() == nil || container.BunAssetRegistry() == nil {
		t.Fatal("expected sql backed registries")
	}
	if _, ok := container.AssetRegistry().Lookup(assets.KindScript, "swiper"); !ok {
		t.Fatal("expected manifest handles imported")
	}
	assertLandingBundle(t, container)

	doc, err := container.DocumentService().Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get stored document: %v", err)
	}
	if doc.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", doc.Revision)
	}
}

func TestContainerFeatureToggles(t *testing.T) {
	cfg := baseConfig()
	cfg.Features.Markdown = false
	cfg.Features.Writes = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := container.WidgetRegistry().Lookup("markdown"); ok {
		t.Fatal("expected markdown renderer removed")
	}
	if _, ok := container.WidgetRegistry().Lookup("heading"); !ok {
		t.Fatal("expected built-in renderers kept")
	}
	err = container.SaveDocumentHandler().Execute(context.Background(), saveCommand())
	if err == nil || !strings.Contains(err.Error(), "writes disabled") {
		t.Fatalf("expected writes disabled error, got %v", err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.SiteURL = ""
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected config validation error")
	}

	cfg = baseConfig()
	cfg.Features.ThemeTokens = true
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected theme loading error without a theme directory")
	}

	cfg = baseConfig()
	cfg.Assets.ManifestPath = "/does/not/exist.yaml"
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected manifest loading error")
	}
}

func TestContainerUsesInjectedLoggerProvider(t *testing.T) {
	rec := &recordingProvider{}
	if _, err := di.NewContainer(baseConfig(), di.WithLoggerProvider(rec)); err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if !rec.has("headless.container.ready") {
		t.Fatalf("expected container ready entry, got %v", rec.messages)
	}
}

type recordingProvider struct {
	mu       sync.Mutex
	messages []string
}

func (p *recordingProvider) GetLogger(string) interfaces.Logger {
	return &recordingLogger{provider: p}
}

func (p *recordingProvider) record(msg string) {
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
}

func (p *recordingProvider) has(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.messages {
		if m == msg {
			return true
		}
	}
	return false
}

type recordingLogger struct {
	provider *recordingProvider
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.provider.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.provider.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.provider.record(msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }
