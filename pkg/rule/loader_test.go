package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iankiku/preflight/pkg/types"
)

const sampleYAML = `
rules:
  - id: pf.test.pipe
    name: Piped shell
    severity: critical
    category: execution
    message: 'pipe: {match}'
    keywords: [curl]
    contextGate: 'curl|wget'
    perFileLimit: true
    location:
      include: [scripts]
    exclude: ['vendor/**']
    patterns:
      - regex: 'curl .*\| *bash'
        flags: im
        suppress: ['^\s*#']
  - id: pf.test.always
    name: Always flag
    severity: high
    category: metadata
    message: '{match}'
    patterns:
      - field: metadata.always
        equals: false
  - id: pf.test.query
    name: System call
    severity: medium
    category: execution
    message: '{match}'
    disabled: true
    patterns:
      - query: '(call) @call'
        language: python
`

func TestLoadRules(t *testing.T) {
	loader := NewLoader()
	rules, err := loader.LoadRules([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	pipe := rules[0]
	assert.Equal(t, "pf.test.pipe", pipe.ID)
	assert.Equal(t, types.SeverityCritical, pipe.Severity)
	assert.Equal(t, []types.Scope{types.ScopeScripts}, pipe.Scopes)
	assert.Equal(t, "curl|wget", pipe.ContextGate)
	assert.True(t, pipe.PerFileLimit)
	assert.True(t, pipe.Enabled)
	require.Len(t, pipe.Patterns, 1)
	tp, ok := pipe.Patterns[0].(types.TextPattern)
	require.True(t, ok)
	assert.Equal(t, "im", tp.Flags)
	assert.Equal(t, []string{`^\s*#`}, tp.Suppress)

	always := rules[1]
	fp, ok := always.Patterns[0].(types.FieldPattern)
	require.True(t, ok)
	assert.Equal(t, "metadata.always", fp.Path)
	// "equals: false" must be recognized as a set condition.
	assert.True(t, fp.Condition.EqualsSet)
	assert.Equal(t, false, fp.Condition.Equals)

	query := rules[2]
	assert.False(t, query.Enabled)
	qp, ok := query.Patterns[0].(types.QueryPattern)
	require.True(t, ok)
	assert.Equal(t, "python", qp.Language)
}

func TestLoadRulesRejectsAmbiguousPattern(t *testing.T) {
	bad := `
rules:
  - id: pf.bad
    severity: low
    message: x
    patterns:
      - regex: 'a'
        field: b
`
	_, err := NewLoader().LoadRules([]byte(bad))
	assert.ErrorContains(t, err, "exactly one of regex, field or query")
}

func TestLoadRulesRejectsUnknownSeverity(t *testing.T) {
	bad := `
rules:
  - id: pf.bad
    severity: urgent
    message: x
    patterns:
      - regex: 'a'
`
	_, err := NewLoader().LoadRules([]byte(bad))
	assert.ErrorContains(t, err, "unknown severity")
}

func TestLoadRulesRejectsMultiCondition(t *testing.T) {
	bad := `
rules:
  - id: pf.bad
    severity: low
    message: x
    patterns:
      - field: a.b
        contains: x
        matches: y
`
	_, err := NewLoader().LoadRules([]byte(bad))
	assert.ErrorContains(t, err, "exactly one of exists, equals, contains or matches")
}

func TestLoadRulesRejectsEmpty(t *testing.T) {
	_, err := NewLoader().LoadRules([]byte("rules: []"))
	assert.Error(t, err)

	_, err = NewLoader().LoadRules([]byte("{not yaml"))
	assert.Error(t, err)
}

func TestLoadBuiltinRules(t *testing.T) {
	rules, err := NewLoader().LoadBuiltinRules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules)

	ids := make(map[string]bool)
	for _, r := range rules {
		assert.NoError(t, Validate(r), r.ID)
		assert.False(t, ids[r.ID], "duplicate rule id %s", r.ID)
		ids[r.ID] = true
	}
	assert.True(t, ids["pf.exec.pipe-to-shell"])
	assert.True(t, ids["pf.meta.always-run"])
}

func TestFilters(t *testing.T) {
	rules, err := NewLoader().LoadBuiltinRules()
	require.NoError(t, err)

	execOnly := FilterByCategory(rules, "execution")
	assert.NotEmpty(t, execOnly)
	for _, r := range execOnly {
		assert.Equal(t, "execution", r.Category)
	}

	high := FilterBySeverity(rules, types.SeverityHigh)
	for _, r := range high {
		assert.GreaterOrEqual(t, r.Severity.Rank(), types.SeverityHigh.Rank())
	}

	assert.Equal(t, rules, FilterByCategory(rules))
}
