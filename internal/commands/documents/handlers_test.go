package documentscmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/elements"
	"github.com/goliatone/go-headless/internal/logging"
)

func saveCommand() SaveDocumentCommand {
	return SaveDocumentCommand{
		PageID:           7,
		PostType:         "page",
		Title:            "About",
		BuiltWithBuilder: true,
		CSSMode:          "inline",
		InlineCSS:        ".elementor-7{color:red}",
		Elements: []elements.Node{
			{ID: "w1", ElType: elements.KindWidget, WidgetType: "heading", Settings: elements.Settings{"title": "About"}},
		},
	}
}

func TestSaveDocumentHandlerPersists(t *testing.T) {
	ctx := context.Background()
	service := documents.NewService(documents.NewMemoryRepository())
	handler := NewSaveDocumentHandler(service, logging.NoOp(), FeatureGates{})

	if err := handler.Execute(ctx, saveCommand()); err != nil {
		t.Fatalf("execute save: %v", err)
	}
	if err := handler.Execute(ctx, saveCommand()); err != nil {
		t.Fatalf("execute second save: %v", err)
	}

	doc, err := service.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Revision != 2 || doc.CSSMode != documents.CSSModeInline || doc.InlineCSS == "" {
		t.Fatalf("unexpected stored document %+v", doc)
	}
}

func TestSaveDocumentCommandValidation(t *testing.T) {
	cases := map[string]func(*SaveDocumentCommand){
		"missing page":  func(c *SaveDocumentCommand) { c.PageID = 0 },
		"negative page": func(c *SaveDocumentCommand) { c.PageID = -3 },
		"blank type":    func(c *SaveDocumentCommand) { c.PostType = "  " },
		"unknown css":   func(c *SaveDocumentCommand) { c.CSSMode = "embedded" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := saveCommand()
			mutate(&cmd)
			if err := cmd.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if err := saveCommand().Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestSaveDocumentHandlerRejectsInvalidTree(t *testing.T) {
	service := documents.NewService(documents.NewMemoryRepository())
	handler := NewSaveDocumentHandler(service, nil, FeatureGates{})

	cmd := saveCommand()
	cmd.Elements = []elements.Node{{ID: "", ElType: elements.KindWidget}}
	err := handler.Execute(context.Background(), cmd)
	if !errors.Is(err, elements.ErrTreeInvalid) {
		t.Fatalf("expected ErrTreeInvalid, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestDocumentHandlersHonourWriteGate(t *testing.T) {
	service := documents.NewService(documents.NewMemoryRepository())
	gates := FeatureGates{WritesEnabled: func() bool { return false }}

	err := NewSaveDocumentHandler(service, nil, gates).Execute(context.Background(), saveCommand())
	if !errors.Is(err, ErrDocumentsReadOnly) {
		t.Fatalf("expected ErrDocumentsReadOnly, got %v", err)
	}
	err = NewDeleteDocumentHandler(service, nil, gates).Execute(context.Background(), DeleteDocumentCommand{PageID: 7})
	if !errors.Is(err, ErrDocumentsReadOnly) {
		t.Fatalf("expected ErrDocumentsReadOnly, got %v", err)
	}
}

func TestDeleteDocumentHandler(t *testing.T) {
	ctx := context.Background()
	service := documents.NewService(documents.NewMemoryRepository())
	if err := NewSaveDocumentHandler(service, nil, FeatureGates{}).Execute(ctx, saveCommand()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := NewDeleteDocumentHandler(service, nil, FeatureGates{})
	if err := handler.Execute(ctx, DeleteDocumentCommand{PageID: 7}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Get(ctx, 7); !documents.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := handler.Execute(ctx, DeleteDocumentCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
