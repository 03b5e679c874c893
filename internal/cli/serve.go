package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/chainrag/server"
)

// NewServeCmd creates the 'serve' command running the HTTP API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the recommendation API.

Routes:
  POST /api/v1/query          - full recommendation pipeline
  POST /api/v1/chains         - ingest a plugin chain
  GET  /api/v1/chains/search  - direct similarity search
  GET  /api/v1/health         - liveness and store connectivity
  POST /api/v1/initialize     - create the backing collections

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Example: `  # Serve on the configured address (default :8000)
  chainrag serve

  # Serve on an explicit address
  chainrag serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides CHAINRAG_ADDR)")

	return cmd
}

func runServe(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	if addr == "" {
		addr = app.cfg.Server.Addr
	}

	if err := app.rag.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize collections: %w", err)
	}

	srv := server.New(app.rag.Recommender(), func(o *server.Options) {
		o.Logger = app.logger
	})

	return srv.Run(ctx, addr)
}
