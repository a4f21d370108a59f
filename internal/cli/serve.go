package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardpath/cardpath/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		vaultRoot string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cardpath HTTP API",
		Long: `Run an HTTP server exposing graph checks and queue building.

Routes:
  GET  /healthz          liveness probe
  GET  /api/graph/check  graph health report
  POST /api/queue        build a study queue from posted due ids`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			scanner, err := c.newScanner(ctx, cfg, vaultRoot, noCache)
			if err != nil {
				return err
			}
			defer scanner.Cache.Close()

			logger := loggerFromContext(ctx)
			srv := &http.Server{
				Addr:              addr,
				Handler:           (&server.Server{Source: scanner, Logger: logger}).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8477", "listen address")
	cmd.Flags().StringVar(&vaultRoot, "vault", "", "vault directory (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the vault scan cache")

	return cmd
}
