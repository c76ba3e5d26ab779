package documentscmd

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-headless/internal/commands"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/elements"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

const (
	saveDocumentMessageType   = "headless.documents.save"
	deleteDocumentMessageType = "headless.documents.delete"
)

var ErrDocumentsReadOnly = errors.New("documents command: writes disabled")

var (
	_ command.Commander[SaveDocumentCommand]   = (*SaveDocumentHandler)(nil)
	_ command.Commander[DeleteDocumentCommand] = (*DeleteDocumentHandler)(nil)
)

// FeatureGates exposes the runtime toggles consulted by document handlers.
type FeatureGates struct {
	WritesEnabled func() bool
}

func (g FeatureGates) writesEnabled() bool {
	if g.WritesEnabled == nil {
		return true
	}
	return g.WritesEnabled()
}

// SaveDocumentCommand creates or replaces the stored document of a page.
type SaveDocumentCommand struct {
	PageID             int64           `json:"page_id"`
	PostType           string          `json:"post_type"`
	Title              string          `json:"title"`
	Excerpt            string          `json:"excerpt,omitempty"`
	Content            string          `json:"content,omitempty"`
	BuiltWithBuilder   bool            `json:"built_with_builder"`
	CSSMode            string          `json:"css_mode,omitempty"`
	CSSFileURL         string          `json:"css_file_url,omitempty"`
	InlineCSS          string          `json:"inline_css,omitempty"`
	Elements           []elements.Node `json:"elements,omitempty"`
	ConditionalStyles  []string        `json:"conditional_styles,omitempty"`
	ConditionalScripts []string        `json:"conditional_scripts,omitempty"`
}

// Type implements command.Message.
func (SaveDocumentCommand) Type() string { return saveDocumentMessageType }

// Validate checks the identifying fields. Tree validation happens in the
// document service.
func (m SaveDocumentCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, validation.Required, validation.Min(int64(1))),
		validation.Field(&m.PostType, validation.By(notBlank("post_type"))),
		validation.Field(&m.CSSMode, validation.In("", string(documents.CSSModeFile), string(documents.CSSModeInline))),
	)
}

// Document converts the message into a document record.
func (m SaveDocumentCommand) Document() *documents.Document {
	return &documents.Document{
		PageID:             m.PageID,
		PostType:           strings.TrimSpace(m.PostType),
		Title:              m.Title,
		Excerpt:            m.Excerpt,
		Content:            m.Content,
		BuiltWithBuilder:   m.BuiltWithBuilder,
		CSSMode:            documents.ParseCSSMode(m.CSSMode),
		CSSFileURL:         m.CSSFileURL,
		InlineCSS:          m.InlineCSS,
		Elements:           m.Elements,
		ConditionalStyles:  m.ConditionalStyles,
		ConditionalScripts: m.ConditionalScripts,
	}
}

func notBlank(field string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError("headless.documents."+field+"_required", field+" is required")
		}
		return nil
	}
}

// SaveDocumentHandler persists documents through the document service.
type SaveDocumentHandler struct {
	inner *commands.Handler[SaveDocumentCommand]
}

// NewSaveDocumentHandler constructs a handler wired to service.
func NewSaveDocumentHandler(service documents.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SaveDocumentCommand]) *SaveDocumentHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg SaveDocumentCommand) error {
		if !gates.writesEnabled() {
			return ErrDocumentsReadOnly
		}
		saved, err := service.Save(ctx, msg.Document())
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"page_id":  saved.PageID,
			"revision": saved.Revision,
		}).Info("documents.command.saved")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveDocumentCommand]{
		commands.WithLogger[SaveDocumentCommand](baseLogger),
		commands.WithOperation[SaveDocumentCommand]("documents.save"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveDocumentCommand].
func (h *SaveDocumentHandler) Execute(ctx context.Context, msg SaveDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
