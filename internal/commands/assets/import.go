package assetscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-headless/internal/assets"
	"github.com/goliatone/go-headless/internal/commands"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

const importManifestMessageType = "headless.assets.manifest.import"

// Importer stores every handle of a manifest.
type Importer interface {
	Import(ctx context.Context, manifest *assets.Manifest) error
}

// MemoryImporter applies manifests to an in-process registry.
type MemoryImporter struct {
	Registry *assets.MemoryRegistry
}

// Import satisfies Importer.
func (m MemoryImporter) Import(_ context.Context, manifest *assets.Manifest) error {
	return manifest.Apply(m.Registry)
}

// ImportManifestCommand loads a handle manifest file into the registry.
type ImportManifestCommand struct {
	Path string `json:"path"`
}

// Type implements command.Message.
func (ImportManifestCommand) Type() string { return importManifestMessageType }

// Validate satisfies command.Message.
func (m ImportManifestCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.Required),
	)
}

// ImportManifestHandler reads manifests and hands them to an Importer.
type ImportManifestHandler struct {
	inner *commands.Handler[ImportManifestCommand]
}

// NewImportManifestHandler constructs a handler writing into importer.
func NewImportManifestHandler(importer Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportManifestCommand]) *ImportManifestHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg ImportManifestCommand) error {
		manifest, err := assets.LoadManifestFile(strings.TrimSpace(msg.Path))
		if err != nil {
			return err
		}
		if err := importer.Import(ctx, manifest); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"path":    msg.Path,
			"handles": len(manifest.Handles()),
		}).Info("assets.command.manifest.imported")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportManifestCommand]{
		commands.WithLogger[ImportManifestCommand](baseLogger),
		commands.WithOperation[ImportManifestCommand]("assets.manifest.import"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportManifestHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportManifestCommand].
func (h *ImportManifestHandler) Execute(ctx context.Context, msg ImportManifestCommand) error {
	return h.inner.Execute(ctx, msg)
}
