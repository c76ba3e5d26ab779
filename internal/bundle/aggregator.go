package bundle

import (
	"context"
	"fmt"

	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/elements"
	"github.com/goliatone/go-headless/internal/kit"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/scripts"
	"github.com/goliatone/go-headless/internal/styles"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// DocumentSource loads page documents.
type DocumentSource interface {
	Get(ctx context.Context, pageID int64) (*documents.Document, error)
}

// StyleCollector produces stylesheet data for a page.
type StyleCollector interface {
	CollectStyles(ctx context.Context, req styles.Request) ([]string, error)
	InlineCSS(doc *documents.Document) string
	KitData(ctx context.Context) (kit.Data, error)
}

// ScriptCollector produces the script URLs for a page.
type ScriptCollector interface {
	CollectScripts(ctx context.Context, req scripts.Request) []string
}

// ConfigAssembler produces the runtime config objects for a page.
type ConfigAssembler interface {
	CoreConfig(ctx context.Context, doc *documents.Document) map[string]any
	ExtendedConfig(ctx context.Context, doc *documents.Document) (map[string]any, error)
}

// Deps lists the collaborators of an Aggregator.
type Deps struct {
	Documents      DocumentSource
	Styles         StyleCollector
	Scripts        ScriptCollector
	Config         ConfigAssembler
	FrontendStyles []string
	Logger         interfaces.Logger
}

// Aggregator builds page asset bundles.
type Aggregator struct {
	docs           DocumentSource
	styles         StyleCollector
	scripts        ScriptCollector
	config         ConfigAssembler
	frontendStyles []string
	logger         interfaces.Logger
}

// NewAggregator wires an Aggregator.
func NewAggregator(deps Deps) *Aggregator {
	return &Aggregator{
		docs:           deps.Documents,
		styles:         deps.Styles,
		scripts:        deps.Scripts,
		config:         deps.Config,
		frontendStyles: append([]string(nil), deps.FrontendStyles...),
		logger:         logging.OrNoOp(deps.Logger),
	}
}

// build holds the state of one Build call.
type build struct {
	ctx       context.Context
	doc       *documents.Document
	queue     *assets.Queue
	inventory *elements.Inventory
	step      Step
	out       Bundle
}

// Build returns the asset bundle for pageID. It never fails: problems are
// reported through Bundle.Error.
func (a *Aggregator) Build(ctx context.Context, pageID int64) (out Bundle) {
	if ctx == nil {
		ctx = context.Background()
	}
	var b *build
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			if b == nil {
				logging.WithPageStep(a.logger, pageID, string(StepInitializing)).Warn("bundle.step.failed", "error", err)
				out = Failed(false, CodeStepFailed, pageID, StepInitializing, err)
				return
			}
			out = a.fail(b, err)
		}
	}()

	logger := logging.WithPageStep(a.logger, pageID, string(StepInitializing))
	logger.Debug("bundle.step.start")

	doc, err := a.docs.Get(ctx, pageID)
	if err != nil {
		code := CodeStepFailed
		if documents.IsNotFound(err) {
			code = CodePageNotFound
		}
		logger.Warn("bundle.step.failed", "error", err)
		return Failed(false, code, pageID, StepInitializing, err)
	}
	if !doc.BuiltWithBuilder {
		logger.Debug("bundle.not_applicable")
		return Empty(false)
	}

	b = &build{
		ctx:       documents.WithCurrent(ctx, doc),
		doc:       doc,
		queue:     assets.NewQueue(),
		inventory: elements.NewInventory(),
		step:      StepEnablingPageAssets,
		out:       Empty(true),
	}

	steps := []struct {
		step Step
		run  func(*build) error
	}{
		{StepEnablingPageAssets, a.enablePageAssets},
		{StepCollectingStyles, a.collectStyles},
		{StepCollectingInlineCSS, a.collectInlineCSS},
		{StepCollectingScripts, a.collectScripts},
		{StepCollectingKitData, a.collectKitData},
		{StepGeneratingFrontendConfig, a.generateFrontendConfig},
		{StepGeneratingExtendedConfig, a.generateExtendedConfig},
	}
	for _, s := range steps {
		b.step = s.step
		if err := ctx.Err(); err != nil {
			return a.fail(b, err)
		}
		logging.WithPageStep(a.logger, pageID, string(s.step)).Debug("bundle.step.start")
		if err := s.run(b); err != nil {
			return a.fail(b, err)
		}
	}
	b.step = StepDone
	logging.WithPageStep(a.logger, pageID, string(StepDone)).Debug("bundle.built",
		"styles", len(b.out.StyleLinks),
		"scripts", len(b.out.Scripts),
	)
	return b.out
}

func (a *Aggregator) fail(b *build, err error) Bundle {
	logging.WithPageStep(a.logger, b.doc.PageID, string(b.step)).Warn("bundle.step.failed", "error", err)
	return Failed(true, CodeStepFailed, b.doc.PageID, b.step, err)
}

func (a *Aggregator) enablePageAssets(b *build) error {
	b.queue.Enqueue(assets.KindStyle, a.frontendStyles...)
	b.queue.Enqueue(assets.KindStyle, b.doc.ConditionalStyles...)
	b.queue.Enqueue(assets.KindScript, b.doc.ConditionalScripts...)
	return nil
}

func (a *Aggregator) collectStyles(b *build) error {
	links, err := a.styles.CollectStyles(b.ctx, styles.Request{Document: a.current(b), Queue: b.queue})
	if err != nil {
		return err
	}
	b.out.StyleLinks = links
	return nil
}

func (a *Aggregator) collectInlineCSS(b *build) error {
	b.out.InlineCSS = a.styles.InlineCSS(a.current(b))
	return nil
}

func (a *Aggregator) collectScripts(b *build) error {
	doc := a.current(b)
	types := b.inventory.WidgetTypes(doc.PageID, func() []elements.Node { return doc.Elements })
	b.out.Scripts = a.scripts.CollectScripts(b.ctx, scripts.Request{
		Document:    doc,
		WidgetTypes: types,
		Queue:       b.queue,
	})
	return nil
}

func (a *Aggregator) collectKitData(b *build) error {
	data, err := a.styles.KitData(b.ctx)
	if err != nil {
		return err
	}
	b.out.Kit = data
	return nil
}

func (a *Aggregator) generateFrontendConfig(b *build) error {
	cfg := a.config.CoreConfig(b.ctx, a.current(b))
	if cfg == nil {
		cfg = map[string]any{}
	}
	b.out.Config = cfg
	return nil
}

func (a *Aggregator) generateExtendedConfig(b *build) error {
	cfg, err := a.config.ExtendedConfig(b.ctx, a.current(b))
	if err != nil {
		return err
	}
	b.out.ProConfig = cfg
	return nil
}

// current returns the page installed on this build's context. A collector
// or filter that swaps the page for a nested resolution does so on its own
// derived context and never touches b.
func (a *Aggregator) current(b *build) *documents.Document {
	if doc := documents.CurrentFrom(b.ctx); doc != nil {
		return doc
	}
	return b.doc
}
