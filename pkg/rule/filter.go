package rule

import "github.com/iankiku/preflight/pkg/types"

// FilterByCategory returns rules whose category is in the given set.
// An empty set keeps everything.
func FilterByCategory(rules []*types.Rule, categories ...string) []*types.Rule {
	if len(categories) == 0 {
		return rules
	}
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var out []*types.Rule
	for _, r := range rules {
		if want[r.Category] {
			out = append(out, r)
		}
	}
	return out
}

// FilterBySeverity returns rules at or above the given severity.
func FilterBySeverity(rules []*types.Rule, min types.Severity) []*types.Rule {
	var out []*types.Rule
	for _, r := range rules {
		if r.Severity.Rank() >= min.Rank() {
			out = append(out, r)
		}
	}
	return out
}

// Enabled returns only rules with the enabled flag set.
func Enabled(rules []*types.Rule) []*types.Rule {
	var out []*types.Rule
	for _, r := range rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}
