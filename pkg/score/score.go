// Package score maps a finding multiset to a 0-100 risk score.
package score

import "github.com/iankiku/preflight/pkg/types"

// penalties are the fixed per-finding deductions by severity tier.
var penalties = map[types.Severity]int{
	types.SeverityCritical: 15,
	types.SeverityHigh:     8,
	types.SeverityMedium:   3,
	types.SeverityLow:      1,
	types.SeverityInfo:     0,
}

// Penalty returns the deduction for one finding of the given severity.
func Penalty(sev types.Severity) int {
	return penalties[sev]
}

// Score computes max(0, 100 - sum of penalties). A clean scan scores 100.
func Score(findings []types.Finding) int {
	score := 100
	for _, f := range findings {
		score -= penalties[f.Severity]
	}
	if score < 0 {
		return 0
	}
	return score
}
