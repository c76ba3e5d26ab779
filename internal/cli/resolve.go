package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	headless "github.com/goliatone/go-headless"
	"github.com/spf13/cobra"
)

func newResolveCmd(g *globals) *cobra.Command {
	var withPage bool
	cmd := &cobra.Command{
		Use:   "resolve <page-id>",
		Short: "Print the asset bundle of a page as JSON",
		Long: `Resolve builds the asset bundle for a stored page. Failures are part of
the bundle payload, so the command only exits non-zero for usage errors.
With --page the content payload is printed instead, carrying the bundle
when the page type is exposed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parsePageID(args[0])
			if err != nil {
				return err
			}
			return g.withModule(cmd.Context(), func(ctx context.Context, module *headless.Module) error {
				if withPage {
					page, err := module.Page(ctx, pageID)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), page)
				}
				return writeJSON(cmd.OutOrStdout(), module.Bundle(ctx, pageID))
			})
		},
	}
	cmd.Flags().BoolVar(&withPage, "page", false, "Print the page payload instead of the bare bundle")
	return cmd
}

func parsePageID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid page id %q", raw)
	}
	return id, nil
}
