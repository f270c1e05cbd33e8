// Package prefilter narrows the rule set per document with Aho-Corasick
// keyword matching before the pattern engines run. Rules without keywords
// always pass through.
package prefilter

import (
	"bytes"

	"github.com/cloudflare/ahocorasick"

	"github.com/iankiku/preflight/pkg/types"
)

// Prefilter indexes rule keywords for fast multi-pattern containment tests.
type Prefilter struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// New builds a prefilter over the keywords of all rules. Keywords are
// matched case-insensitively against lowercased content.
func New(rules []*types.Rule) *Prefilter {
	seen := make(map[string]bool)
	var keywords []string
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = string(bytes.ToLower([]byte(kw)))
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}

	pf := &Prefilter{keywords: keywords}
	if len(keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return pf
}

// Filter returns the subset of rules that might match content: rules without
// keywords, plus rules with at least one keyword present. Input order is
// preserved so downstream output stays deterministic.
func (pf *Prefilter) Filter(content string, rules []*types.Rule) []*types.Rule {
	if pf.matcher == nil {
		return rules
	}

	hits := pf.matcher.Match(bytes.ToLower([]byte(content)))
	present := make(map[string]bool, len(hits))
	for _, idx := range hits {
		present[pf.keywords[idx]] = true
	}

	out := make([]*types.Rule, 0, len(rules))
	for _, rule := range rules {
		if len(rule.Keywords) == 0 {
			out = append(out, rule)
			continue
		}
		for _, kw := range rule.Keywords {
			if present[string(bytes.ToLower([]byte(kw)))] {
				out = append(out, rule)
				break
			}
		}
	}
	return out
}
