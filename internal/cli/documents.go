package cli

import (
	"context"
	"encoding/json"
	"fmt"

	headless "github.com/goliatone/go-headless"
	"github.com/spf13/cobra"
)

func newDocumentsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Manage stored page documents",
	}
	cmd.AddCommand(newDocumentsSaveCmd(g))
	cmd.AddCommand(newDocumentsDeleteCmd(g))
	cmd.AddCommand(newDocumentsListCmd(g))
	return cmd
}

func newDocumentsSaveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "save <document.json|->",
		Short: "Store a page document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var msg headless.SaveDocumentCommand
			if err := json.Unmarshal(data, &msg); err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			return g.withModule(cmd.Context(), func(ctx context.Context, module *headless.Module) error {
				if err := module.SaveDocument(ctx, msg); err != nil {
					return err
				}
				doc, err := module.Documents().Get(ctx, msg.PageID)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved page %d revision %d\n", doc.PageID, doc.Revision)
				return err
			})
		},
	}
}

func newDocumentsDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <page-id>",
		Short: "Remove a page document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parsePageID(args[0])
			if err != nil {
				return err
			}
			return g.withModule(cmd.Context(), func(ctx context.Context, module *headless.Module) error {
				return module.DeleteDocument(ctx, pageID)
			})
		},
	}
}

func newDocumentsListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored page documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withModule(cmd.Context(), func(ctx context.Context, module *headless.Module) error {
				docs, err := module.Documents().List(ctx)
				if err != nil {
					return err
				}
				for _, doc := range docs {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", doc.PageID, doc.PostType, doc.Title)
				}
				return nil
			})
		},
	}
}
