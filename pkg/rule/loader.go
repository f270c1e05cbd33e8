// Package rule loads detection rules from YAML files and validates their
// shape before the analysis pipeline sees them.
package rule

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iankiku/preflight/pkg/types"
)

// Loader reads rule files from a filesystem.
type Loader struct {
	fs fs.FS
}

// NewLoader creates a loader serving the embedded builtin rules.
func NewLoader() *Loader {
	return &Loader{fs: builtinRulesFS}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// LoadRules parses rules from YAML bytes and validates each one.
func (l *Loader) LoadRules(data []byte) ([]*types.Rule, error) {
	var file yamlRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule YAML: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("no rules found in YAML")
	}

	rules := make([]*types.Rule, 0, len(file.Rules))
	for _, yr := range file.Rules {
		r, err := convertRule(yr)
		if err != nil {
			return nil, err
		}
		if err := Validate(r); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// LoadRuleFile loads rules from a YAML file path.
func (l *Loader) LoadRuleFile(path string) ([]*types.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.LoadRules(data)
}

// LoadBuiltinRules loads all builtin rules from the embedded filesystem.
func (l *Loader) LoadBuiltinRules() ([]*types.Rule, error) {
	var rules []*types.Rule

	err := fs.WalkDir(l.fs, "rules", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}
		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		loaded, err := l.LoadRules(data)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		rules = append(rules, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// convertRule maps the YAML shape onto the Pattern sum type.
func convertRule(yr yamlRule) (*types.Rule, error) {
	sev, err := types.ParseSeverity(yr.Severity)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", yr.ID, err)
	}

	r := &types.Rule{
		ID:           yr.ID,
		Name:         yr.Name,
		Severity:     sev,
		Category:     yr.Category,
		Message:      yr.Message,
		Remediation:  yr.Remediation,
		References:   yr.References,
		Keywords:     yr.Keywords,
		ContextGate:  yr.ContextGate,
		PerFileLimit: yr.PerFileLimit,
		ExcludePaths: yr.Exclude,
		Enabled:      !yr.Disabled,
	}

	if yr.Location != nil {
		for _, s := range yr.Location.Include {
			r.Scopes = append(r.Scopes, types.Scope(s))
		}
	}

	for i, yp := range yr.Patterns {
		p, err := convertPattern(yp)
		if err != nil {
			return nil, fmt.Errorf("rule %s: pattern %d: %w", yr.ID, i, err)
		}
		r.Patterns = append(r.Patterns, p)
	}
	return r, nil
}

// convertPattern picks the pattern variant from the keys present.
func convertPattern(yp yamlPattern) (types.Pattern, error) {
	kinds := 0
	if yp.Regex != "" {
		kinds++
	}
	if yp.Field != "" {
		kinds++
	}
	if yp.Query != "" {
		kinds++
	}
	if kinds != 1 {
		return nil, fmt.Errorf("pattern must set exactly one of regex, field or query")
	}

	switch {
	case yp.Regex != "":
		return types.TextPattern{Regex: yp.Regex, Flags: yp.Flags, Suppress: yp.Suppress}, nil

	case yp.Field != "":
		cond := types.FieldCondition{
			Exists:   yp.Exists,
			Contains: yp.Contains,
			Matches:  yp.Matches,
		}
		if yp.Equals.Kind != 0 {
			var v any
			if err := yp.Equals.Decode(&v); err != nil {
				return nil, fmt.Errorf("invalid equals literal: %w", err)
			}
			cond.Equals = v
			cond.EqualsSet = true
		}
		return types.FieldPattern{Path: yp.Field, Condition: cond}, nil

	default:
		return types.QueryPattern{Query: yp.Query, Language: yp.Language}, nil
	}
}
