package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the feedcorpus version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("feedcorpus %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
