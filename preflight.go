// Package preflight scans AI skill definitions for dangerous patterns.
//
// A skill is a markdown document with YAML front matter plus any scripts it
// ships with. Preflight loads detection rules, routes each document through
// textual, metadata, and syntax-tree analysis, and reports deduplicated
// findings together with a 0-100 risk score.
//
// # Basic Usage
//
// Create a scanner with builtin rules and scan a skill directory:
//
//	scanner, err := preflight.NewScanner()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := scanner.ScanPath(ctx, "./skills/my-skill")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, f := range report.Findings {
//	    fmt.Printf("[%s] %s %s:%d\n", f.Severity, f.RuleID, f.Location.File, f.Location.StartLine)
//	}
//	fmt.Printf("score: %d/100\n", report.Score)
package preflight

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/iankiku/preflight/pkg/dedupe"
	"github.com/iankiku/preflight/pkg/discover"
	"github.com/iankiku/preflight/pkg/document"
	"github.com/iankiku/preflight/pkg/engine"
	"github.com/iankiku/preflight/pkg/grammar"
	"github.com/iankiku/preflight/pkg/rule"
	"github.com/iankiku/preflight/pkg/score"
	"github.com/iankiku/preflight/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/iankiku/preflight" without subpackages.
type (
	// Finding is a single reported occurrence of a rule match.
	Finding = types.Finding

	// Rule defines one detection pattern set.
	Rule = types.Rule

	// Document is a parsed scannable file.
	Document = types.Document

	// Severity classifies finding impact.
	Severity = types.Severity

	// Location describes where a finding sits within a file.
	Location = types.Location
)

// Re-export severity constants.
const (
	SeverityCritical = types.SeverityCritical
	SeverityHigh     = types.SeverityHigh
	SeverityMedium   = types.SeverityMedium
	SeverityLow      = types.SeverityLow
	SeverityInfo     = types.SeverityInfo
)

// Report is the outcome of one scan: deduplicated findings in severity order
// plus the aggregate risk score.
type Report struct {
	Findings []types.Finding
	Score    int
}

// Scanner runs the full analysis pipeline over documents.
type Scanner struct {
	rules  []*types.Rule
	router *engine.Router
	config *scannerConfig
}

type scannerConfig struct {
	rules         []*types.Rule
	workers       int
	maxFileSize   int64
	includeHidden bool
	logger        hclog.Logger
}

// Option configures a Scanner.
type Option func(*scannerConfig)

// WithRules uses custom rules instead of the builtin set.
func WithRules(rules []*Rule) Option {
	return func(c *scannerConfig) {
		c.rules = rules
	}
}

// WithWorkers sets the number of documents analyzed concurrently.
// Default is the number of CPUs.
func WithWorkers(n int) Option {
	return func(c *scannerConfig) {
		c.workers = n
	}
}

// WithLogger attaches a structured logger. Default is a no-op logger.
func WithLogger(log hclog.Logger) Option {
	return func(c *scannerConfig) {
		c.logger = log
	}
}

// WithMaxFileSize skips files larger than n bytes during path scans.
func WithMaxFileSize(n int64) Option {
	return func(c *scannerConfig) {
		c.maxFileSize = n
	}
}

// WithHiddenFiles also scans dotfiles and dot-directories during path scans.
func WithHiddenFiles() Option {
	return func(c *scannerConfig) {
		c.includeHidden = true
	}
}

// NewScanner creates a Scanner.
//
// By default the scanner uses all builtin rules, a no-op logger, and one
// analysis worker per CPU.
func NewScanner(opts ...Option) (*Scanner, error) {
	config := &scannerConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = hclog.NewNullLogger()
	}

	if config.rules == nil {
		rules, err := rule.NewLoader().LoadBuiltinRules()
		if err != nil {
			return nil, fmt.Errorf("failed to load builtin rules: %w", err)
		}
		config.rules = rules
	}

	router := engine.NewRouter(engine.RouterConfig{
		Registry: grammar.NewRegistry(),
		Workers:  config.workers,
		Logger:   config.logger,
	})

	return &Scanner{
		rules:  config.rules,
		router: router,
		config: config,
	}, nil
}

// Scan analyzes the given documents and returns the deduplicated, ordered
// findings with the aggregate score.
func (s *Scanner) Scan(ctx context.Context, docs []*Document) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	findings := s.router.Analyze(ctx, docs, s.rules)
	findings = dedupe.Process(findings)

	return &Report{
		Findings: findings,
		Score:    score.Score(findings),
	}, nil
}

// ScanPath discovers documents under root (a directory or a single file) and
// scans them.
func (s *Scanner) ScanPath(ctx context.Context, root string) (*Report, error) {
	docs, err := discover.Documents(ctx, discover.Config{
		Root:          root,
		MaxFileSize:   s.config.maxFileSize,
		IncludeHidden: s.config.includeHidden,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover documents: %w", err)
	}
	return s.Scan(ctx, docs)
}

// ScanContent scans a single in-memory document. The path determines language
// detection and appears in finding locations.
func (s *Scanner) ScanContent(ctx context.Context, path, content string) (*Report, error) {
	doc := document.Build(path, path, content)
	return s.Scan(ctx, []*Document{doc})
}

// Rules returns the loaded detection rules.
func (s *Scanner) Rules() []*Rule {
	rules := make([]*Rule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// RuleCount returns the number of loaded detection rules.
func (s *Scanner) RuleCount() int {
	return len(s.rules)
}

// LoadBuiltinRules returns all builtin detection rules. Useful for inspecting
// or filtering the set before passing it back via WithRules.
func LoadBuiltinRules() ([]*Rule, error) {
	return rule.NewLoader().LoadBuiltinRules()
}

// LoadRulesFromFile loads detection rules from a YAML file.
func LoadRulesFromFile(path string) ([]*Rule, error) {
	return rule.NewLoader().LoadRuleFile(path)
}
