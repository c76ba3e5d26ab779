package documentscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-headless/internal/commands"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// DeleteDocumentCommand removes the stored document of a page.
type DeleteDocumentCommand struct {
	PageID int64 `json:"page_id"`
}

// Type implements command.Message.
func (DeleteDocumentCommand) Type() string { return deleteDocumentMessageType }

// Validate satisfies command.Message.
func (m DeleteDocumentCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, validation.Required, validation.Min(int64(1))),
	)
}

// DeleteDocumentHandler deletes documents through the document service.
type DeleteDocumentHandler struct {
	inner *commands.Handler[DeleteDocumentCommand]
}

// NewDeleteDocumentHandler constructs a handler wired to service.
func NewDeleteDocumentHandler(service documents.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[DeleteDocumentCommand]) *DeleteDocumentHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg DeleteDocumentCommand) error {
		if !gates.writesEnabled() {
			return ErrDocumentsReadOnly
		}
		if err := service.Delete(ctx, msg.PageID); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"page_id": msg.PageID,
		}).Info("documents.command.deleted")
		return nil
	}

	handlerOpts := []commands.HandlerOption[DeleteDocumentCommand]{
		commands.WithLogger[DeleteDocumentCommand](baseLogger),
		commands.WithOperation[DeleteDocumentCommand]("documents.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteDocumentCommand].
func (h *DeleteDocumentHandler) Execute(ctx context.Context, msg DeleteDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
