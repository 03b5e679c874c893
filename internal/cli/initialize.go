package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCmd creates the 'init' command ensuring the backing collections exist.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the backing collections",
		Long: `Ensure the chain and knowledge collections exist in the configured index
backend. Idempotent; safe to run repeatedly.`,
		Example: `  # Prepare a fresh SQLite database
  CHAINRAG_INDEX=sqlite chainrag init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context())
		},
	}
}

func runInit(ctx context.Context) error {
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	if err := app.rag.Initialize(ctx); err != nil {
		return err
	}

	fmt.Println("Collections ready.")

	return nil
}
