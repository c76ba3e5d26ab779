package cli

import (
	"context"
	"fmt"

	headless "github.com/goliatone/go-headless"
	assetscmd "github.com/goliatone/go-headless/internal/commands/assets"
	"github.com/spf13/cobra"
)

func newAssetsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage registered asset handles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <manifest>",
		Short: "Import a handle manifest into the configured registry",
		Long: `Import stores every style and script handle of a manifest. With SQL
storage the handles persist for later runs; with memory storage the
command only validates the manifest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withModule(cmd.Context(), func(ctx context.Context, module *headless.Module) error {
				handler := module.Container().ImportManifestHandler()
				if err := handler.Execute(ctx, assetscmd.ImportManifestCommand{Path: args[0]}); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", args[0])
				return err
			})
		},
	})
	return cmd
}
