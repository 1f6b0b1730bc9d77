package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "safepost-eval",
		Short: "SafePost Eval - PII detection evaluation harness",
		Long: `SafePost Eval validates the SafePost analyze endpoint against a labeled
image corpus and reports accuracy, precision, recall, F1 and specificity
per PII category, together with confusion matrices and comparison charts.

Run 'safepost-eval run' to evaluate a corpus against a live endpoint.
Run 'safepost-eval analyze' to regenerate charts from a saved results CSV.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(
		runCmd(),
		analyzeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("safepost-eval %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
