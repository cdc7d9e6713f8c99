package cli

import (
	"github.com/spf13/cobra"
)

var (
	relatedK    int
	relatedJSON bool
)

var relatedCmd = &cobra.Command{
	Use:   "related",
	Short: "List the most similar documents for every corpus entry",
	RunE:  runRelated,
}

func init() {
	relatedCmd.Flags().IntVarP(&relatedK, "top", "k", 3, "neighbors per document")
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	pairs := eng.Related(relatedK)
	if relatedJSON {
		return outputJSON(cmd, pairs)
	}

	for origin, byID := range pairs {
		for id, neighbors := range byID {
			if len(neighbors) == 0 {
				continue
			}
			cmd.Printf("%s_%s:\n", origin, id)
			for _, n := range neighbors {
				cmd.Printf("    %s_%s (%.3f)\n", n.SimilarSource, n.SimilarID, n.Similarity)
			}
		}
	}
	return nil
}
