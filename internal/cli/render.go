package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	headless "github.com/goliatone/go-headless"
	"github.com/goliatone/go-headless/internal/elements"
	"github.com/spf13/cobra"
)

func newRenderCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "render <tree.json|->",
		Short: "Render a widget tree to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			tree, err := elements.ParseTree(data)
			if err != nil {
				return err
			}
			return g.withModule(cmd.Context(), func(_ context.Context, module *headless.Module) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), module.RenderWidgets(tree))
				return err
			})
		},
	}
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
