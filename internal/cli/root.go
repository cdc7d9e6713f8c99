// Package cli implements the command-line surface over the engine.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/feedcorpus/backend/internal/engine"
)

// eng is wired by Execute before any command runs.
var eng *engine.Engine

var rootTopic string

var rootCmd = &cobra.Command{
	Use:   "feedcorpus",
	Short: "Aggregate forum and academic feeds into a searchable corpus",
	Long: `feedcorpus collects short documents from a social-forum feed and an
academic-abstract feed, indexes them in memory, and answers free-text
queries with relevance ranking and related-document suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Query commands run against a snapshot restored from the cache;
		// fetch builds its own session and ignores the root flag.
		if rootTopic == "" || cmd.Name() == "fetch" || cmd.Name() == "version" {
			return nil
		}
		if _, err := eng.LoadTopic(rootTopic); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootTopic, "topic", "",
		"restore a cached corpus by topic before running the command")
}

// Execute runs the CLI against the given engine.
func Execute(e *engine.Engine) error {
	eng = e
	return rootCmd.Execute()
}
