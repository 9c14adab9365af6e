package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "congress",
	Short: "Process legislative bulk data into normalized records",
	Long: `congress re-derives normalized, versioned records from government
bulk bill-status data.

The process command walks the data directory, classifies each bill's and
amendment's legislative actions, derives current statuses, and writes a
data.json and legacy data.xml artifact per record. The serve command
exposes the processed records and artifacts over HTTP.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
