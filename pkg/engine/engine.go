// Package engine implements the three pattern-matching engines (textual,
// structured-field, syntax-tree) and the router that dispatches rules to
// them. Engines never fail a scan: malformed regexes, queries and gates are
// reported to the diagnostics logger and skipped.
package engine

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
	"github.com/hashicorp/go-hclog"

	"github.com/iankiku/preflight/pkg/types"
)

const (
	// maxMessageMatch caps the {match} substitution in finding messages.
	maxMessageMatch = 100

	// maxSnippetLen caps the stored snippet text.
	maxSnippetLen = 200

	// contextBefore / contextAfter bound the context lines around a finding.
	contextBefore = 3
	contextAfter  = 5

	// regexTimeout bounds a single pattern execution against catastrophic
	// backtracking.
	regexTimeout = 5 * time.Second
)

// compilePattern compiles a rule regex with regexp2. An empty flag string
// means the default case-insensitive + multiline semantics; an explicit flag
// string replaces the defaults. All-occurrence search is applied by the
// engines themselves, so a "g" flag is accepted and ignored.
func compilePattern(expr, flags string) (*regexp2.Regexp, error) {
	opts := regexp2.RegexOptions(regexp2.IgnoreCase | regexp2.Multiline)
	if flags != "" {
		opts = regexp2.None
		for _, f := range flags {
			switch f {
			case 'i':
				opts |= regexp2.IgnoreCase
			case 'm':
				opts |= regexp2.Multiline
			case 's':
				opts |= regexp2.Singleline
			case 'x':
				opts |= regexp2.IgnorePatternWhitespace
			case 'g':
				// implied
			}
		}
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = regexTimeout
	return re, nil
}

// gateAllows evaluates a rule's context gate against the full document.
// Rules without a gate always pass. An invalid gate regex skips the rule for
// safety rather than failing the scan.
func gateAllows(log hclog.Logger, rule *types.Rule, doc *types.Document) bool {
	if rule.ContextGate == "" {
		return true
	}
	re, err := compilePattern(rule.ContextGate, "")
	if err != nil {
		log.Warn("invalid context gate; skipping rule", "rule", rule.ID, "error", err)
		return false
	}
	ok, err := re.MatchString(doc.Content)
	if err != nil {
		log.Warn("context gate evaluation failed; skipping rule", "rule", rule.ID, "error", err)
		return false
	}
	return ok
}

// excluded reports whether the rule's exclusion globs match the document,
// checked against both the display path and the absolute path.
func excluded(rule *types.Rule, doc *types.Document) bool {
	for _, glob := range rule.ExcludePaths {
		for _, path := range []string{doc.Path, doc.AbsPath} {
			if path == "" {
				continue
			}
			if ok, err := doublestar.Match(glob, path); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// span carries the resolved position of a match within a document.
type span struct {
	startLine, startColumn int
	endLine, endColumn     int
}

// spanFromOffsets translates absolute byte offsets into a 1-based span.
func spanFromOffsets(content string, start, end int) span {
	sl, sc := types.ComputeLineColumn(content, start)
	el, ec := types.ComputeLineColumn(content, end)
	return span{startLine: sl, startColumn: sc, endLine: el, endColumn: ec}
}

// newFinding assembles a finding from a rule, the matched text and its span.
// Rule metadata is copied so findings stay valid after the rule set is gone.
func newFinding(rule *types.Rule, doc *types.Document, matchText string, sp span) types.Finding {
	message := strings.ReplaceAll(rule.Message, "{match}", truncate(matchText, maxMessageMatch))
	before, after := contextLines(doc.Content, sp.startLine, sp.endLine)

	return types.Finding{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Severity:    rule.Severity,
		Category:    rule.Category,
		Message:     message,
		Remediation: rule.Remediation,
		References:  rule.References,
		Location: types.Location{
			File:        doc.Path,
			StartLine:   sp.startLine,
			EndLine:     sp.endLine,
			StartColumn: sp.startColumn,
			EndColumn:   sp.endColumn,
		},
		Snippet: truncate(matchText, maxSnippetLen),
		Context: types.Context{Before: before, After: after},
	}
}

// contextLines returns up to contextBefore lines preceding startLine and
// contextAfter lines following endLine. Lines are 1-based.
func contextLines(content string, startLine, endLine int) (before, after []string) {
	lines := strings.Split(content, "\n")

	from := startLine - 1 - contextBefore
	if from < 0 {
		from = 0
	}
	if startLine-1 > len(lines) {
		return nil, nil
	}
	for _, l := range lines[from : startLine-1] {
		before = append(before, l)
	}

	to := endLine + contextAfter
	if to > len(lines) {
		to = len(lines)
	}
	if endLine <= len(lines) {
		for _, l := range lines[endLine:to] {
			after = append(after, l)
		}
	}
	return before, after
}

// truncate caps s at n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
