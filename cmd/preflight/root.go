package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Preflight - static analysis for AI skill definitions",
	Long: `Preflight scans AI skill definitions (markdown with YAML front matter plus
bundled scripts) for dangerous patterns: remote code piped into shells,
credential exfiltration, prompt injection, and risky metadata.

Findings are deduplicated, ordered by severity, and rolled up into a
0-100 risk score.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the CLI logger honoring the verbosity flags.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	if quiet {
		level = hclog.Error
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "preflight",
		Level:  level,
		Output: os.Stderr,
	})
}
