package report

import (
	"encoding/json"
	"io"

	"github.com/iankiku/preflight/pkg/types"
)

// Summary aggregates finding counts by severity alongside the overall score.
type Summary struct {
	Score      int            `json:"score"`
	Total      int            `json:"total_findings"`
	BySeverity map[string]int `json:"by_severity,omitempty"`
}

// jsonReport is the machine-readable document emitted by WriteJSON.
type jsonReport struct {
	Tool     string          `json:"tool"`
	Summary  Summary         `json:"summary"`
	Findings []types.Finding `json:"findings"`
}

// Summarize computes the severity histogram and totals for a finding set.
func Summarize(findings []types.Finding, score int) Summary {
	s := Summary{Score: score, Total: len(findings)}
	if len(findings) == 0 {
		return s
	}
	s.BySeverity = make(map[string]int)
	for _, f := range findings {
		s.BySeverity[string(f.Severity)]++
	}
	return s
}

// WriteJSON emits the full report as indented JSON.
func WriteJSON(w io.Writer, findings []types.Finding, score int) error {
	doc := jsonReport{
		Tool:     toolName,
		Summary:  Summarize(findings, score),
		Findings: findings,
	}
	if doc.Findings == nil {
		doc.Findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
