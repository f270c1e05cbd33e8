package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iankiku/preflight"
	"github.com/iankiku/preflight/pkg/report"
	"github.com/iankiku/preflight/pkg/rule"
	"github.com/iankiku/preflight/pkg/types"
)

var (
	scanRulesPath     string
	scanCategories    []string
	scanOutputPath    string
	scanOutputFormat  string
	scanFailOn        string
	scanMinScore      int
	scanMaxFileSize   int64
	scanIncludeHidden bool
	scanWorkers       int
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Scan a skill directory or file",
	Long:  "Scan a skill definition (file or directory) for dangerous patterns using detection rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRulesPath, "rules", "", "Path to custom rules file (YAML)")
	scanCmd.Flags().StringSliceVar(&scanCategories, "categories", nil, "Only run rules in these categories")
	scanCmd.Flags().StringVar(&scanOutputPath, "output", "", "Write report to file instead of stdout")
	scanCmd.Flags().StringVar(&scanOutputFormat, "format", "table", "Output format: table, json, sarif")
	scanCmd.Flags().StringVar(&scanFailOn, "fail-on", "", "Exit non-zero if any finding is at or above this severity")
	scanCmd.Flags().IntVar(&scanMinScore, "min-score", -1, "Exit non-zero if the score falls below this value")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to scan (bytes)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Documents analyzed concurrently (0 = number of CPUs)")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	rules, err := loadScanRules()
	if err != nil {
		return err
	}

	scanner, err := newScanner(rules)
	if err != nil {
		return err
	}

	result, err := scanner.ScanPath(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", target, err)
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	switch scanOutputFormat {
	case "table":
		err = report.WriteTable(out, result.Findings, result.Score)
	case "json":
		err = report.WriteJSON(out, result.Findings, result.Score)
	case "sarif":
		err = report.WriteSARIF(out, result.Findings, rules)
	default:
		return fmt.Errorf("unknown output format: %s", scanOutputFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return checkThresholds(cmd, result)
}

func loadScanRules() ([]*types.Rule, error) {
	loader := rule.NewLoader()

	var rules []*types.Rule
	var err error
	if scanRulesPath != "" {
		rules, err = loader.LoadRuleFile(scanRulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules from %s: %w", scanRulesPath, err)
		}
	} else {
		rules, err = loader.LoadBuiltinRules()
		if err != nil {
			return nil, fmt.Errorf("failed to load builtin rules: %w", err)
		}
	}

	if len(scanCategories) > 0 {
		rules = rule.FilterByCategory(rules, scanCategories...)
		if len(rules) == 0 {
			return nil, fmt.Errorf("no rules match categories %v", scanCategories)
		}
	}
	return rules, nil
}

func newScanner(rules []*types.Rule) (*preflight.Scanner, error) {
	opts := []preflight.Option{
		preflight.WithRules(rules),
		preflight.WithLogger(newLogger()),
		preflight.WithMaxFileSize(scanMaxFileSize),
	}
	if scanWorkers > 0 {
		opts = append(opts, preflight.WithWorkers(scanWorkers))
	}
	if scanIncludeHidden {
		opts = append(opts, preflight.WithHiddenFiles())
	}
	return preflight.NewScanner(opts...)
}

// openOutput returns the report destination. Callers must invoke the
// returned close function.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if scanOutputPath == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(scanOutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", scanOutputPath, err)
	}
	return f, func() { f.Close() }, nil
}

// checkThresholds enforces --fail-on and --min-score after the report is
// written.
func checkThresholds(cmd *cobra.Command, result *preflight.Report) error {
	if scanFailOn != "" {
		threshold, err := types.ParseSeverity(scanFailOn)
		if err != nil {
			return fmt.Errorf("invalid --fail-on value: %w", err)
		}
		for _, f := range result.Findings {
			if f.Severity.Rank() >= threshold.Rank() {
				cmd.SilenceUsage = true
				return fmt.Errorf("found %s finding %s (threshold %s)", f.Severity, f.RuleID, threshold)
			}
		}
	}

	if scanMinScore >= 0 && result.Score < scanMinScore {
		cmd.SilenceUsage = true
		return fmt.Errorf("score %d is below required minimum %d", result.Score, scanMinScore)
	}
	return nil
}
