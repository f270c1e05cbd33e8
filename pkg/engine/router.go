package engine

import (
	"context"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/iankiku/preflight/pkg/grammar"
	"github.com/iankiku/preflight/pkg/prefilter"
	"github.com/iankiku/preflight/pkg/types"
)

// Router partitions a rule set by pattern kind and dispatches documents to
// the three engines. Documents are analyzed in parallel; results are
// collected in input order so the raw finding list is deterministic before
// dedup/sort even runs.
type Router struct {
	text    *TextEngine
	field   *FieldEngine
	ast     *ASTEngine
	workers int
	log     hclog.Logger
}

// RouterConfig configures router construction.
type RouterConfig struct {
	// Registry supplies tree-sitter grammars. A nil registry gets a fresh
	// one, scoped to this router.
	Registry *grammar.Registry

	// Workers bounds per-document parallelism. Zero means GOMAXPROCS.
	Workers int

	// Logger receives non-fatal diagnostics (bad regexes, bad queries,
	// unloadable grammars).
	Logger hclog.Logger
}

// NewRouter creates a router and its three engines.
func NewRouter(cfg RouterConfig) *Router {
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = grammar.NewRegistry()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Router{
		text:    NewTextEngine(log),
		field:   NewFieldEngine(log),
		ast:     NewASTEngine(reg, log),
		workers: workers,
		log:     log,
	}
}

// Analyze runs all enabled rules over all documents and returns the raw
// concatenated finding list in {textual, structured-field, syntax-tree}
// engine order. Callers typically pipe the result through dedupe and score.
func (r *Router) Analyze(ctx context.Context, docs []*types.Document, rules []*types.Rule) []types.Finding {
	enabled := make([]*types.Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}

	textRules, fieldRules, astRules := partition(enabled)
	pf := prefilter.New(enabled)

	var findings []types.Finding
	findings = append(findings, r.forEachDoc(ctx, docs, func(doc *types.Document) []types.Finding {
		return r.text.Analyze(doc, pf.Filter(doc.Content, textRules))
	})...)
	findings = append(findings, r.forEachDoc(ctx, docs, func(doc *types.Document) []types.Finding {
		if !doc.HasFrontMatter() {
			return nil
		}
		return r.field.Analyze(doc, pf.Filter(doc.Content, fieldRules))
	})...)
	findings = append(findings, r.forEachDoc(ctx, docs, func(doc *types.Document) []types.Finding {
		if doc.Language == "" {
			return nil
		}
		return r.ast.Analyze(ctx, doc, pf.Filter(doc.Content, astRules))
	})...)

	return findings
}

// forEachDoc fans documents out to a bounded worker pool and flattens the
// per-document results in input order.
func (r *Router) forEachDoc(ctx context.Context, docs []*types.Document, fn func(*types.Document) []types.Finding) []types.Finding {
	results := make([][]types.Finding, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = fn(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Warn("analysis interrupted", "error", err)
	}

	var flat []types.Finding
	for _, fs := range results {
		flat = append(flat, fs...)
	}
	return flat
}

// partition splits rules into the three engine groups. A rule legitimately
// mixing pattern kinds lands in every group it belongs to.
func partition(rules []*types.Rule) (text, field, ast []*types.Rule) {
	for _, rule := range rules {
		if rule.HasTextPattern() {
			text = append(text, rule)
		}
		if rule.HasFieldPattern() {
			field = append(field, rule)
		}
		if rule.HasQueryPattern() {
			ast = append(ast, rule)
		}
	}
	return text, field, ast
}
