// ABOUTME: CLI command to search ingested documents
// ABOUTME: Runs the retrieval stage alone, without answer generation
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search ingested documents",
		Long: `Search the owner's ingested documents for relevant passages.

Shows exactly the passages a chat turn with this query would be
grounded in, after similarity-threshold filtering.

Examples:
  atlas search "machine learning experience"
  atlas search --limit 10 "internships"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum passages to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchLimit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", searchLimit)
	}
	query := args[0]

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	passages, err := a.retriever.Retrieve(cmd.Context(), ownerID, query, searchLimit, a.cfg.ScoreThreshold)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(passages, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(passages) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No passages found for query: %s\n", query)
		}
		return nil
	}

	for i, passage := range passages {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, passage)
	}
	return nil
}
