package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/source"
)

var (
	fetchSubreddit string
	fetchKeyword   string
	fetchTopic     string
	fetchQuantity  int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Collect documents from both feeds into the session corpus",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSubreddit, "subreddit", "", "subreddit to pull hot submissions from")
	fetchCmd.Flags().StringVar(&fetchKeyword, "keyword", "", "arXiv search keyword")
	fetchCmd.Flags().StringVar(&fetchTopic, "topic", "", "topic key for the snapshot cache")
	fetchCmd.Flags().IntVarP(&fetchQuantity, "quantity", "n", 0, "documents per feed (0 uses the configured default)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	var queries []source.Query
	if fetchSubreddit != "" {
		queries = append(queries, source.Query{
			Origin:   corpus.SourceForum,
			Keyword:  fetchSubreddit,
			Topic:    fetchTopic,
			Quantity: fetchQuantity,
		})
	}
	if fetchKeyword != "" {
		queries = append(queries, source.Query{
			Origin:   corpus.SourceAcademic,
			Keyword:  fetchKeyword,
			Topic:    fetchTopic,
			Quantity: fetchQuantity,
		})
	}
	if len(queries) == 0 {
		return fmt.Errorf("at least one of --subreddit or --keyword is required")
	}

	stats, err := eng.Collect(context.Background(), queries)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	origin := "the feeds"
	if stats.FromCache {
		origin = "the snapshot cache"
	}
	cmd.Printf("Collected %d documents from %d authors via %s (topic %q)\n",
		stats.Documents, stats.Authors, origin, stats.Topic)
	return nil
}
