package engine

import (
	"github.com/dlclark/regexp2"
	"github.com/hashicorp/go-hclog"

	"github.com/iankiku/preflight/pkg/region"
	"github.com/iankiku/preflight/pkg/types"
)

// TextEngine runs regex patterns over a document's resolved content regions.
type TextEngine struct {
	log hclog.Logger
}

// NewTextEngine creates a textual engine reporting diagnostics to log.
func NewTextEngine(log hclog.Logger) *TextEngine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &TextEngine{log: log}
}

// Analyze evaluates every rule with a textual pattern against the document.
// Matching always searches all occurrences, advancing past zero-length
// matches to guarantee termination. A rule with PerFileLimit stops after its
// first surviving match across all patterns and regions.
func (e *TextEngine) Analyze(doc *types.Document, rules []*types.Rule) []types.Finding {
	var findings []types.Finding

	for _, rule := range rules {
		if !rule.HasTextPattern() {
			continue
		}
		if !gateAllows(e.log, rule, doc) || excluded(rule, doc) {
			continue
		}

		limitHit := false
		for _, pat := range rule.Patterns {
			tp, ok := pat.(types.TextPattern)
			if !ok {
				continue
			}

			re, err := compilePattern(tp.Regex, tp.Flags)
			if err != nil {
				e.log.Warn("invalid text pattern; skipping", "rule", rule.ID, "error", err)
				continue
			}
			suppressors := e.compileSuppressors(rule.ID, tp.Suppress)

			for _, reg := range region.Resolve(doc, rule.EffectiveScopes()) {
				matches := e.matchRegion(rule, doc, re, suppressors, reg)
				findings = append(findings, matches...)
				if rule.PerFileLimit && len(matches) > 0 {
					limitHit = true
					break
				}
			}
			if limitHit {
				break
			}
		}
	}

	return findings
}

// matchRegion runs one compiled pattern over one region, emitting findings
// located in the full document.
func (e *TextEngine) matchRegion(rule *types.Rule, doc *types.Document, re *regexp2.Regexp, suppressors []*regexp2.Regexp, reg region.Region) []types.Finding {
	var findings []types.Finding

	startAt := 0
	for startAt <= len(reg.Text) {
		m, err := re.FindStringMatchStartingAt(reg.Text, startAt)
		if err != nil {
			e.log.Warn("pattern execution failed", "rule", rule.ID, "file", doc.Path, "error", err)
			break
		}
		if m == nil {
			break
		}

		// Advance past the match; one position past zero-length matches.
		startAt = m.Index + m.Length
		if m.Length == 0 {
			startAt = m.Index + 1
		}

		absStart := reg.Offset + m.Index
		absEnd := absStart + m.Length
		if e.suppressed(suppressors, doc.Content, absStart) {
			continue
		}

		findings = append(findings, newFinding(rule, doc, m.String(), spanFromOffsets(doc.Content, absStart, absEnd)))
		if rule.PerFileLimit {
			break
		}
	}

	return findings
}

// compileSuppressors compiles per-line suppressing regexes. Invalid
// suppressors are dropped with a diagnostic; they must not block the match.
func (e *TextEngine) compileSuppressors(ruleID string, exprs []string) []*regexp2.Regexp {
	var out []*regexp2.Regexp
	for _, expr := range exprs {
		re, err := compilePattern(expr, "")
		if err != nil {
			e.log.Warn("invalid suppressor; ignoring", "rule", ruleID, "error", err)
			continue
		}
		out = append(out, re)
	}
	return out
}

// suppressed tests the full text of the matched line against the pattern's
// suppressing regexes.
func (e *TextEngine) suppressed(suppressors []*regexp2.Regexp, content string, offset int) bool {
	if len(suppressors) == 0 {
		return false
	}
	line := types.LineAt(content, offset)
	for _, re := range suppressors {
		if ok, err := re.MatchString(line); err == nil && ok {
			return true
		}
	}
	return false
}
