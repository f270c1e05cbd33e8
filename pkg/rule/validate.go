package rule

import (
	"fmt"

	"github.com/iankiku/preflight/pkg/types"
)

// Validate checks a converted rule's shape. Value-level safety (bad regex,
// bad query) is deliberately left to the engines, which skip offenders at
// evaluation time; validation here only rejects structurally broken rules.
func Validate(r *types.Rule) error {
	if r.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("rule %s: invalid severity %q", r.ID, r.Severity)
	}
	if len(r.Patterns) == 0 {
		return fmt.Errorf("rule %s: at least one pattern required", r.ID)
	}
	if r.Message == "" {
		return fmt.Errorf("rule %s: message required", r.ID)
	}
	for _, s := range r.Scopes {
		if !types.ValidScope(s) {
			return fmt.Errorf("rule %s: unknown location scope %q", r.ID, s)
		}
	}
	for i, p := range r.Patterns {
		fp, ok := p.(types.FieldPattern)
		if !ok {
			continue
		}
		if err := validateCondition(fp.Condition); err != nil {
			return fmt.Errorf("rule %s: pattern %d: %w", r.ID, i, err)
		}
	}
	return nil
}

// validateCondition enforces the exactly-one-condition contract.
func validateCondition(c types.FieldCondition) error {
	n := 0
	if c.Exists != nil {
		n++
	}
	if c.EqualsSet {
		n++
	}
	if c.Contains != "" {
		n++
	}
	if c.Matches != "" {
		n++
	}
	if n != 1 {
		return fmt.Errorf("field pattern must set exactly one of exists, equals, contains or matches")
	}
	return nil
}
