package engine

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/iankiku/preflight/pkg/types"
)

// FieldEngine evaluates structured-field patterns against a document's
// parsed front matter.
type FieldEngine struct {
	log hclog.Logger
}

// NewFieldEngine creates a structured-field engine reporting diagnostics to
// log.
func NewFieldEngine(log hclog.Logger) *FieldEngine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &FieldEngine{log: log}
}

// Analyze evaluates every rule with a field pattern against the document.
// Documents without parsed front matter yield no findings. Findings are
// located at a fixed nominal position just inside the front-matter block
// (line 2, column 1); front-matter keys are not position-tracked.
func (e *FieldEngine) Analyze(doc *types.Document, rules []*types.Rule) []types.Finding {
	if !doc.HasFrontMatter() {
		return nil
	}

	var findings []types.Finding
	for _, rule := range rules {
		if !rule.HasFieldPattern() {
			continue
		}
		if !gateAllows(e.log, rule, doc) || excluded(rule, doc) {
			continue
		}

		for _, pat := range rule.Patterns {
			fp, ok := pat.(types.FieldPattern)
			if !ok {
				continue
			}

			value, defined := lookupPath(doc.FrontMatter.Data, fp.Path)
			if !conditionMet(fp.Condition, value, defined) {
				continue
			}

			snippet := fieldSnippet(fp.Path, value, defined)
			f := newFinding(rule, doc, snippet, span{
				startLine: 2, startColumn: 1,
				endLine: 2, endColumn: 1,
			})
			f.Snippet = truncate(snippet, maxSnippetLen)
			findings = append(findings, f)

			if rule.PerFileLimit {
				break
			}
		}
	}

	return findings
}

// lookupPath walks a dot-delimited path through the front-matter tree.
// Any non-traversable intermediate yields undefined, never an error.
func lookupPath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// conditionMet evaluates exactly the one condition the pattern declares.
func conditionMet(c types.FieldCondition, value any, defined bool) bool {
	switch {
	case c.Exists != nil:
		return defined == *c.Exists

	case c.EqualsSet:
		return defined && reflect.DeepEqual(value, c.Equals)

	case c.Contains != "":
		if !defined {
			return false
		}
		switch v := value.(type) {
		case string:
			return strings.Contains(v, c.Contains)
		case []any:
			for _, elem := range v {
				if fmt.Sprint(elem) == c.Contains {
					return true
				}
			}
		}
		return false

	case c.Matches != "":
		if !defined {
			return false
		}
		s, ok := value.(string)
		if !ok {
			return false
		}
		re, err := compilePattern(c.Matches, "i")
		if err != nil {
			// Invalid condition regex fails silently.
			return false
		}
		ok, err = re.MatchString(s)
		return err == nil && ok
	}
	return false
}

// fieldSnippet renders "field.path: <value>" for the finding snippet and
// {match} substitution.
func fieldSnippet(path string, value any, defined bool) string {
	if !defined {
		return fmt.Sprintf("%s: undefined", path)
	}
	return fmt.Sprintf("%s: %v", path, value)
}
