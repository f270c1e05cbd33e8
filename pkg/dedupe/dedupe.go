// Package dedupe collapses duplicate findings and imposes the deterministic
// report order.
package dedupe

import (
	"sort"

	"github.com/iankiku/preflight/pkg/types"
)

// Dedupe keeps the first-seen finding per (rule id, file, start line) key,
// preserving input order. Later duplicates are discarded even when their
// column or snippet differs.
func Dedupe(findings []types.Finding) []types.Finding {
	seen := make(map[types.FindingKey]bool, len(findings))
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

// Sort orders findings by severity descending, then file path ascending,
// then start line ascending. The order is a stable total order independent
// of engine invocation order, keeping reports reproducible.
func Sort(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := &findings[i], &findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		return a.Location.StartLine < b.Location.StartLine
	})
}

// Process applies Dedupe then Sort, the standard pipeline step between the
// router and the scorer.
func Process(findings []types.Finding) []types.Finding {
	out := Dedupe(findings)
	Sort(out)
	return out
}
