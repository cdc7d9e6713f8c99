package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedcorpus/backend/internal/ranker"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank the session corpus against a free-text query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	results, err := eng.Search(args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if searchJSON {
		return outputJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []ranker.Result) error {
	if len(results) == 0 {
		cmd.Println("No matching documents.")
		return nil
	}

	for i, r := range results {
		title := ""
		if doc, err := eng.GetDocument(r.DocumentIndex); err == nil {
			title = doc.Title
		}
		cmd.Printf("  [%d] %s (%s, %.3f)\n", i+1, title, r.Source, r.Score)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
