package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/feedcorpus/backend/internal/trends"
)

var trendsJSON bool

var trendsCmd = &cobra.Command{
	Use:   "trends [word]...",
	Short: "Show per-year occurrence counts for tracked words",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	table := eng.Trends(args)

	series := make(map[string][]trends.Point, len(args))
	for _, word := range args {
		series[strings.ToLower(word)] = trends.TimeSeries(table, word)
	}

	if trendsJSON {
		return outputJSON(cmd, series)
	}

	for word, points := range series {
		cmd.Printf("%s:\n", word)
		if len(points) == 0 {
			cmd.Println("    no occurrences")
			continue
		}
		for _, p := range points {
			cmd.Printf("    %d: %d\n", p.Year, p.Count)
		}
	}
	return nil
}
