package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	headless "github.com/goliatone/go-headless"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				g.cfg.Server.Addr = addr
			}
			return g.withModule(cmd.Context(), func(ctx context.Context, module *headless.Module) error {
				listener, err := net.Listen("tcp", g.cfg.Server.Addr)
				if err != nil {
					return fmt.Errorf("listen %s: %w", g.cfg.Server.Addr, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", listener.Addr())
				return serve(ctx, module, listener)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
	return cmd
}

// serve runs the page API on listener until ctx is done.
func serve(ctx context.Context, module *headless.Module, listener net.Listener) error {
	mux := http.NewServeMux()
	if err := module.RegisterHTTP(mux); err != nil {
		return err
	}
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
