// Package report renders scan results as SARIF, JSON, or a terminal table.
package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/iankiku/preflight/pkg/types"
)

const (
	toolName = "preflight"
	toolURI  = "https://github.com/iankiku/preflight"
)

// sarifLevel maps a severity onto the SARIF reporting level vocabulary.
func sarifLevel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical, types.SeverityHigh:
		return "error"
	case types.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF emits a SARIF 2.1.0 log for the findings. Rules referenced by
// findings are registered in the run's driver so viewers can show metadata.
func WriteSARIF(w io.Writer, findings []types.Finding, rules []*types.Rule) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create sarif log: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)

	referenced := make(map[string]bool, len(findings))
	for _, f := range findings {
		referenced[f.RuleID] = true
	}
	for _, r := range rules {
		if !referenced[r.ID] {
			continue
		}
		rule := run.AddRule(r.ID).
			WithName(r.Name).
			WithDescription(r.Message).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: sarifLevel(r.Severity),
			})
		if len(r.References) > 0 {
			rule.WithHelpURI(r.References[0])
		}
	}

	for _, f := range findings {
		region := sarif.NewRegion().
			WithStartLine(f.Location.StartLine).
			WithStartColumn(f.Location.StartColumn).
			WithEndLine(f.Location.EndLine).
			WithEndColumn(f.Location.EndColumn)
		if f.Snippet != "" {
			region.WithSnippet(sarif.NewArtifactContent().WithText(f.Snippet))
		}

		result := sarif.NewRuleResult(f.RuleID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(sarifLevel(f.Severity)).
			WithLocations([]*sarif.Location{
				sarif.NewLocation().WithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Location.File)).
						WithRegion(region),
				),
			})
		run.AddResult(result)
	}

	log.AddRun(run)
	return log.PrettyWrite(w)
}
