package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/bundle"
	assetscmd "github.com/goliatone/go-headless/internal/commands/assets"
	documentscmd "github.com/goliatone/go-headless/internal/commands/documents"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/frontendconfig"
	"github.com/goliatone/go-headless/internal/kit"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/internal/scripts"
	"github.com/goliatone/go-headless/internal/styles"
	"github.com/goliatone/go-headless/internal/widgetrender"
	"github.com/goliatone/go-headless/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	manifest      *assets.Manifest
	registry      assets.Registry
	memoryAssets  *assets.MemoryRegistry
	bunAssets     *assets.BunRegistry
	widgetScripts scripts.WidgetScripts

	documentRepo documents.Repository
	documentSvc  documents.Service

	kitSource kit.Source
	settings  frontendconfig.SettingsProvider
	filters   *frontendconfig.Filters

	styles     *styles.Collector
	scripts    *scripts.Collector
	assembler  *frontendconfig.Assembler
	aggregator *bundle.Aggregator
	widgets    *widgetrender.Registry

	saveHandler   *documentscmd.SaveDocumentHandler
	deleteHandler *documentscmd.DeleteDocumentHandler
	importHandler *assetscmd.ImportManifestHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithDocumentRepository overrides the document repository.
func WithDocumentRepository(repo documents.Repository) Option {
	return func(c *Container) {
		c.documentRepo = repo
	}
}

// WithKitSource overrides the Kit source built from configuration.
func WithKitSource(source kit.Source) Option {
	return func(c *Container) {
		c.kitSource = source
	}
}

// WithSettingsProvider wires the host's frontend settings.
func WithSettingsProvider(provider frontendconfig.SettingsProvider) Option {
	return func(c *Container) {
		c.settings = provider
	}
}

// WithConfigFilters registers extended config filters.
func WithConfigFilters(filters *frontendconfig.Filters) Option {
	return func(c *Container) {
		c.filters = filters
	}
}

// WithManifest supplies an already decoded asset manifest. It takes
// precedence over Assets.ManifestPath.
func WithManifest(manifest *assets.Manifest) Option {
	return func(c *Container) {
		c.manifest = manifest
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	if err := c.configureAssets(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureKit(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureServices()

	c.logger.Info("headless.container.ready",
		"storage", storageProvider(cfg),
		"cache", c.cacheService != nil,
		"widgets", len(c.widgets.Types()),
	)
	return c, nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("headless.cache.disabled", "error", err)
		} else {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureAssets() error {
	if c.manifest == nil {
		if path := strings.TrimSpace(c.Config.Assets.ManifestPath); path != "" {
			manifest, err := assets.LoadManifestFile(path)
			if err != nil {
				return err
			}
			c.manifest = manifest
		}
	}

	c.widgetScripts = scripts.WidgetScripts{}.Merge(c.Config.Assets.WidgetScripts)
	if c.manifest != nil {
		c.widgetScripts = c.widgetScripts.Merge(c.manifest.Widgets)
	}

	logger := logging.AssetsLogger(c.loggerProvider)
	if c.bunDB != nil {
		if c.cacheService != nil {
			c.bunAssets = assets.NewBunRegistryWithCache(c.bunDB, c.cacheService, c.keySerializer, logger)
		} else {
			c.bunAssets = assets.NewBunRegistry(c.bunDB, logger)
		}
		ctx := context.Background()
		if c.manifest != nil {
			if err := c.bunAssets.Import(ctx, c.manifest); err != nil {
				return fmt.Errorf("di: import manifest: %w", err)
			}
		}
		if err := c.bunAssets.Load(ctx); err != nil {
			return fmt.Errorf("di: load asset handles: %w", err)
		}
		c.registry = c.bunAssets
		return nil
	}

	c.memoryAssets = assets.NewMemoryRegistry()
	if err := c.manifest.Apply(c.memoryAssets); err != nil {
		return fmt.Errorf("di: apply manifest: %w", err)
	}
	c.registry = c.memoryAssets
	return nil
}

func (c *Container) configureKit() error {
	if c.kitSource == nil {
		kc := c.Config.Kit
		c.kitSource = kit.StaticSource{Kit: &kit.Kit{
			ID:         kc.ID,
			CSSMode:    documents.ParseCSSMode(kc.CSSMode),
			CSSFileURL: kc.CSSFileURL,
			InlineCSS:  kc.InlineCSS,
		}}
	}
	if !c.Config.Features.ThemeTokens {
		return nil
	}
	kc := c.Config.Kit
	selection, err := kit.LoadTheme(kc.ThemeDir, kc.Theme, kc.Variant)
	if err != nil {
		return fmt.Errorf("di: load theme tokens: %w", err)
	}
	c.kitSource = kit.NewThemeSource(c.kitSource, selection, kc.TokensPrefix, c.Config.Client.KitClassPrefix)
	return nil
}

func (c *Container) configureServices() {
	cfg := c.Config
	normalizer := assets.NewNormalizer(cfg.SiteURL)

	c.documentSvc = documents.NewService(c.documentRepo,
		documents.WithLogger(logging.DocumentsLogger(c.loggerProvider)),
	)

	c.styles = styles.NewCollector(c.registry, normalizer, c.kitSource,
		styles.WithLogger(logging.AssetsLogger(c.loggerProvider)),
	)
	c.scripts = scripts.NewCollector(c.registry, normalizer, scripts.Config{
		Core:           cfg.Assets.CoreScripts,
		Extended:       cfg.Assets.ExtendedScripts,
		ExtendedActive: cfg.Runtime.ExtendedActive,
		Widgets:        c.widgetScripts,
	}, logging.AssetsLogger(c.loggerProvider))

	assemblerOpts := []frontendconfig.Option{
		frontendconfig.WithLogger(logging.BundleLogger(c.loggerProvider)),
	}
	if c.filters != nil {
		assemblerOpts = append(assemblerOpts, frontendconfig.WithFilters(c.filters))
	}
	c.assembler = frontendconfig.NewAssembler(cfg, c.settings, assemblerOpts...)

	c.aggregator = bundle.NewAggregator(bundle.Deps{
		Documents:      c.documentSvc,
		Styles:         c.styles,
		Scripts:        c.scripts,
		Config:         c.assembler,
		FrontendStyles: cfg.Assets.FrontendStyles,
		Logger:         logging.BundleLogger(c.loggerProvider),
	})

	c.widgets = widgetrender.NewDefaultRegistry(
		widgetrender.WithLogger(logging.RenderLogger(c.loggerProvider)),
	)
	if !cfg.Features.Markdown {
		c.widgets.Unregister("markdown")
	}

	gates := documentscmd.FeatureGates{
		WritesEnabled: func() bool { return c.Config.Features.Writes },
	}
	commandLogger := logging.DocumentsLogger(c.loggerProvider)
	c.saveHandler = documentscmd.NewSaveDocumentHandler(c.documentSvc, commandLogger, gates)
	c.deleteHandler = documentscmd.NewDeleteDocumentHandler(c.documentSvc, commandLogger, gates)

	var importer assetscmd.Importer = assetscmd.MemoryImporter{Registry: c.memoryAssets}
	if c.bunAssets != nil {
		importer = c.bunAssets
	}
	c.importHandler = assetscmd.NewImportManifestHandler(importer, logging.AssetsLogger(c.loggerProvider))
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB returns the SQL database, or nil for memory storage.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// AssetRegistry exposes the handle registry collectors resolve against.
func (c *Container) AssetRegistry() assets.Registry {
	return c.registry
}

// BunAssetRegistry returns the persistent handle registry when SQL storage
// is configured.
func (c *Container) BunAssetRegistry() *assets.BunRegistry {
	return c.bunAssets
}

// MemoryAssetRegistry returns the in-process handle registry when memory
// storage is configured.
func (c *Container) MemoryAssetRegistry() *assets.MemoryRegistry {
	return c.memoryAssets
}

// DocumentService returns the page document service.
func (c *Container) DocumentService() documents.Service {
	return c.documentSvc
}

// KitSource returns the active Kit source.
func (c *Container) KitSource() kit.Source {
	return c.kitSource
}

// StyleCollector returns the configured style collector.
func (c *Container) StyleCollector() *styles.Collector {
	return c.styles
}

// ScriptCollector returns the configured script collector.
func (c *Container) ScriptCollector() *scripts.Collector {
	return c.scripts
}

// ConfigAssembler returns the frontend config assembler.
func (c *Container) ConfigAssembler() *frontendconfig.Assembler {
	return c.assembler
}

// Aggregator returns the page asset aggregator.
func (c *Container) Aggregator() *bundle.Aggregator {
	return c.aggregator
}

// WidgetRegistry returns the structured widget renderer registry.
func (c *Container) WidgetRegistry() *widgetrender.Registry {
	return c.widgets
}

// SaveDocumentHandler returns the document save command handler.
func (c *Container) SaveDocumentHandler() *documentscmd.SaveDocumentHandler {
	return c.saveHandler
}

// DeleteDocumentHandler returns the document delete command handler.
func (c *Container) DeleteDocumentHandler() *documentscmd.DeleteDocumentHandler {
	return c.deleteHandler
}

// ImportManifestHandler returns the handle manifest import command handler.
// It writes into whichever registry backs the container.
func (c *Container) ImportManifestHandler() *assetscmd.ImportManifestHandler {
	return c.importHandler
}
