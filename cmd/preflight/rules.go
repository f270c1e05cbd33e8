package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iankiku/preflight/pkg/rule"
	"github.com/iankiku/preflight/pkg/types"
)

var (
	rulesPath         string
	rulesOutputFormat string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage detection rules",
	Long:  "Commands for listing and inspecting detection rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rules",
	Long:  "Display all available detection rules with their IDs, severities, and categories",
	RunE:  runRulesList,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to custom rules file (YAML)")
	rulesListCmd.Flags().StringVar(&rulesOutputFormat, "format", "table", "Output format: table, json")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	loader := rule.NewLoader()

	var rules []*types.Rule
	var err error
	if rulesPath != "" {
		rules, err = loader.LoadRuleFile(rulesPath)
		if err != nil {
			return fmt.Errorf("failed to load rules from %s: %w", rulesPath, err)
		}
	} else {
		rules, err = loader.LoadBuiltinRules()
		if err != nil {
			return fmt.Errorf("failed to load builtin rules: %w", err)
		}
	}

	switch rulesOutputFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rules)
	case "table":
		return outputRulesTable(cmd, rules)
	default:
		return fmt.Errorf("unknown output format: %s", rulesOutputFormat)
	}
}

func outputRulesTable(cmd *cobra.Command, rules []*types.Rule) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tSEVERITY\tCATEGORY\tNAME\n")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Severity, r.Category, r.Name)
	}
	return nil
}
