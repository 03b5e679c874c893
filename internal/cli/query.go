package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/chainrag/core"
)

// NewQueryCmd creates the 'query' command asking for recommendations.
func NewQueryCmd() *cobra.Command {
	var (
		genre      string
		instrument string
		owned      []string
		limit      int
		direct     bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Ask for plugin chain recommendations",
		Long: `Run one recommendation query against the configured index. The query text
is embedded, the closest chains and supporting knowledge are retrieved, and
the synthesizer turns them into an explained, confidence-scored answer.

With --direct the synthesis step is skipped and raw similarity results are
printed instead.`,
		Example: `  # Full pipeline
  chainrag query "warm vintage vocal chain for indie rock" --genre "indie rock"

  # Raw similarity search, JSON output
  chainrag query "drum bus glue" --direct --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := core.Query{
				Text:         strings.Join(args, " "),
				Genre:        genre,
				Instrument:   instrument,
				OwnedPlugins: owned,
				MaxResults:   limit,
			}

			return runQuery(cmd.Context(), query, direct, asJSON)
		},
	}

	cmd.Flags().StringVar(&genre, "genre", "", "restrict results to chains matching this genre")
	cmd.Flags().StringVar(&instrument, "instrument", "", "restrict results to chains matching this instrument")
	cmd.Flags().StringSliceVar(&owned, "owned", nil, "plugins you already own (context for the answer)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 uses the default)")
	cmd.Flags().BoolVar(&direct, "direct", false, "skip synthesis and print raw similarity results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")

	return cmd
}

func runQuery(ctx context.Context, query core.Query, direct, asJSON bool) error {
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	if direct {
		hits, err := app.rag.SearchChains(ctx, query.Text, query.Genre, query.Instrument, query.Limit())
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(hits)
		}

		if len(hits) == 0 {
			fmt.Println("No matching chains.")
			return nil
		}

		for i, hit := range hits {
			fmt.Printf("%d. %s (similarity %.3f)\n", i+1, hit.Entity.Name, hit.Score)
		}

		return nil
	}

	envelope, err := app.rag.SubmitQuery(ctx, query)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(envelope)
	}

	printEnvelope(envelope)

	return nil
}

func printEnvelope(envelope *core.ResponseEnvelope) {
	if len(envelope.Recommendations) == 0 {
		fmt.Println("No matching chains.")
	}

	for i, rec := range envelope.Recommendations {
		fmt.Printf("%d. %s (similarity %.3f)\n", i+1, rec.Chain.Name, rec.Similarity)

		for _, plugin := range rec.Chain.Plugins {
			fmt.Printf("   %d) %s - %s (%s)\n", plugin.Position, plugin.Name, plugin.Manufacturer, plugin.Category)
		}
	}

	if len(envelope.Recommendations) > 0 {
		top := envelope.Recommendations[0]
		fmt.Printf("\n%s\n", top.Explanation)
		fmt.Printf("Confidence: %.2f | %d result(s) in %.1f ms\n", top.Confidence, envelope.TotalResults, envelope.SearchTimeMS)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
