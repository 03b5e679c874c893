/*
Package main is the entry point for the chainrag CLI.

chainrag recommends audio plugin chains for described mixing tasks. Plugin
chains and mixing knowledge are embedded into a similarity index; a query
retrieves the closest candidates and synthesizes them into an explained,
confidence-scored recommendation.

Usage:
  chainrag [command]

Available Commands:
  serve       Run the HTTP API server
  init        Create the backing collections
  load        Load plugin chains and knowledge into the index
  query       Ask for plugin chain recommendations
  help        Help about any command

Examples:
  # Load the bundled sample catalog and start the API
  chainrag load --samples
  chainrag serve

  # Ask for a recommendation from the shell
  chainrag query "warm vintage vocal chain for indie rock"
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/chainrag/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chainrag",
		Short: "Audio plugin chain recommendations over embedding retrieval",
		Long: `chainrag recommends audio plugin chains (EQ, compression, saturation, ...)
for a described mixing task. Chains and mixing knowledge are embedded into a
similarity index; queries retrieve the closest candidates and synthesize them
into an explained, confidence-scored recommendation.

Configuration is read from the environment (and an optional .env file):
  • CHAINRAG_INDEX        - memory | sqlite | pgvector
  • CHAINRAG_SYNTHESIZER  - heuristic | openai | anthropic
  • CHAINRAG_CACHE        - none | memory | redis
  • OPENAI_API_KEY        - enables OpenAI embeddings and synthesis
  • ANTHROPIC_API_KEY     - enables Anthropic synthesis`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewInitCmd())
	rootCmd.AddCommand(cli.NewLoadCmd())
	rootCmd.AddCommand(cli.NewQueryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
