package cli

import (
	"github.com/spf13/cobra"
)

var (
	statsTop  int
	statsStem bool
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics and the most frequent words",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 20, "number of words to list")
	statsCmd.Flags().BoolVar(&statsStem, "stem", false, "group words by Snowball stem")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	words := eng.WordStats(statsStem)
	if len(words) > statsTop {
		words = words[:statsTop]
	}

	if statsJSON {
		return outputJSON(cmd, struct {
			Collection interface{} `json:"collection"`
			Words      interface{} `json:"words"`
		}{eng.Stats(), words})
	}

	stats := eng.Stats()
	cmd.Printf("Topic: %s\nDocuments: %d\nAuthors: %d\n\n", stats.Topic, stats.Documents, stats.Authors)
	if c := eng.Corpus(); c != nil {
		summary := c.Stats()
		cmd.Printf("Mean words/doc: %.1f\nTotal words: %d\n\n", summary.MeanWords, summary.TotalWords)
	}
	for _, w := range words {
		cmd.Printf("  %-24s count=%-5d docs=%d\n", w.Word, w.Count, w.DocCount)
	}
	return nil
}
