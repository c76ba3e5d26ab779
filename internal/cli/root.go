// Package cli implements the headless command line: serving the page API,
// resolving bundles, rendering widget trees and managing stored documents.
package cli

import (
	"context"
	"encoding/json"
	"io"

	headless "github.com/goliatone/go-headless"
	"github.com/spf13/cobra"
)

// ModuleFactory builds the module a command runs against.
type ModuleFactory func(cfg headless.Config) (*headless.Module, error)

type globals struct {
	configFile string
	verbose    bool
	factory    ModuleFactory
	cfg        headless.Config
}

// Option configures the root command.
type Option func(*globals)

// WithModuleFactory overrides how commands construct the module.
func WithModuleFactory(factory ModuleFactory) Option {
	return func(g *globals) {
		if factory != nil {
			g.factory = factory
		}
	}
}

// NewRootCmd creates the root command.
func NewRootCmd(opts ...Option) *cobra.Command {
	g := &globals{
		factory: func(cfg headless.Config) (*headless.Module, error) {
			return headless.New(cfg)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "headless",
		Short: "Page builder asset bridge",
		Long: `headless resolves the stylesheets, scripts and runtime configuration a
page builder layout needs outside its host, and serves them over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.initialize()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "Path to config file (env: HEADLESS_* overrides)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newResolveCmd(g))
	rootCmd.AddCommand(newRenderCmd(g))
	rootCmd.AddCommand(newAssetsCmd(g))
	rootCmd.AddCommand(newDocumentsCmd(g))

	return rootCmd
}

func (g *globals) initialize() error {
	cfg, err := NewLoader().Load(g.configFile)
	if err != nil {
		return err
	}
	if g.verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
		if cfg.Logging.Provider == "" {
			cfg.Logging.Provider = "console"
		}
	}
	g.cfg = cfg
	return nil
}

// withModule builds the module, runs fn and releases storage afterwards.
func (g *globals) withModule(ctx context.Context, fn func(context.Context, *headless.Module) error) error {
	module, err := g.factory(g.cfg)
	if err != nil {
		return err
	}
	defer module.Close()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, module)
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
