package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "websentry",
	Short: "Session-scoped URL security triage with AI-assisted analysis",
	Long: `websentry - URL security triage assistant

Applies deterministic heuristics to flag likely web-security issues in a
URL, computes a risk score, and augments the result with an AI-generated
assessment. Scan and chat history is retained per session with bounded
size.

Detection is pure pattern matching over the URL string; no request is ever
sent to the scanned target.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path (YAML)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().IntP("verbose", "v", 0, "Verbosity level (0-2)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("websentry %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
