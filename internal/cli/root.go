package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Personal habit consistency tracker",
	Long:  "Cadence records daily habit completions and serves streaks, completion rates, and heatmaps over an HTTP API. Single Go binary, local SQLite storage.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
}
