package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iankiku/preflight/pkg/types"
)

func withSeverity(sevs ...types.Severity) []types.Finding {
	out := make([]types.Finding, len(sevs))
	for i, s := range sevs {
		out[i] = types.Finding{Severity: s}
	}
	return out
}

func TestScoreEmpty(t *testing.T) {
	assert.Equal(t, 100, Score(nil))
}

func TestScoreMixedSeverities(t *testing.T) {
	// 100 - 15 - 8 - 8 = 69
	findings := withSeverity(types.SeverityCritical, types.SeverityHigh, types.SeverityHigh)
	assert.Equal(t, 69, Score(findings))
}

func TestScoreFlooredAtZero(t *testing.T) {
	findings := withSeverity(
		types.SeverityCritical, types.SeverityCritical, types.SeverityCritical,
		types.SeverityCritical, types.SeverityCritical, types.SeverityCritical,
		types.SeverityCritical,
	)
	assert.Equal(t, 0, Score(findings))
}

func TestScoreInfoIsFree(t *testing.T) {
	findings := withSeverity(types.SeverityInfo, types.SeverityInfo)
	assert.Equal(t, 100, Score(findings))
}

func TestScoreMonotonic(t *testing.T) {
	base := withSeverity(types.SeverityMedium, types.SeverityLow)
	baseScore := Score(base)

	for _, sev := range []types.Severity{
		types.SeverityCritical, types.SeverityHigh, types.SeverityMedium,
		types.SeverityLow, types.SeverityInfo,
	} {
		grown := append(append([]types.Finding{}, base...), types.Finding{Severity: sev})
		assert.LessOrEqual(t, Score(grown), baseScore, string(sev))
	}
}
