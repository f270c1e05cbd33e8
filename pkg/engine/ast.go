package engine

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iankiku/preflight/pkg/grammar"
	"github.com/iankiku/preflight/pkg/types"
)

// ASTEngine evaluates tree-sitter query patterns against documents with a
// detected source language. Grammars load lazily through the shared
// registry; a language whose grammar fails to load is logged once and every
// rule targeting it becomes a no-op for the remainder of the scan.
type ASTEngine struct {
	registry *grammar.Registry
	log      hclog.Logger

	mu     sync.Mutex
	failed map[string]bool
}

// NewASTEngine creates a syntax-tree engine using the given grammar registry.
func NewASTEngine(registry *grammar.Registry, log hclog.Logger) *ASTEngine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &ASTEngine{
		registry: registry,
		log:      log,
		failed:   make(map[string]bool),
	}
}

// Analyze parses the document and evaluates every rule with a query pattern
// against its syntax tree. Parse failures skip the document for AST rules
// only. Per-document resources (tree, queries, cursors) are released before
// returning.
func (e *ASTEngine) Analyze(ctx context.Context, doc *types.Document, rules []*types.Rule) []types.Finding {
	if doc.Language == "" {
		return nil
	}

	lang, ok := e.language(doc.Language)
	if !ok {
		return nil
	}

	content := []byte(doc.Content)
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil || tree == nil {
		e.log.Warn("syntax tree parse failed; skipping document for AST rules",
			"file", doc.Path, "language", doc.Language, "error", err)
		return nil
	}
	defer tree.Close()
	root := tree.RootNode()

	var findings []types.Finding
	for _, rule := range rules {
		if !rule.HasQueryPattern() {
			continue
		}
		if !gateAllows(e.log, rule, doc) || excluded(rule, doc) {
			continue
		}

		for _, pat := range rule.Patterns {
			qp, ok := pat.(types.QueryPattern)
			if !ok {
				continue
			}
			if qp.Language != "" && qp.Language != doc.Language {
				continue
			}

			matches := e.runQuery(rule, qp, doc, lang, root, content)
			findings = append(findings, matches...)
			if rule.PerFileLimit && len(matches) > 0 {
				break
			}
		}
	}

	return findings
}

// runQuery compiles and executes one query pattern against the tree root.
// Compilation failures are diagnostics, never fatal.
func (e *ASTEngine) runQuery(rule *types.Rule, qp types.QueryPattern, doc *types.Document, lang *sitter.Language, root *sitter.Node, content []byte) []types.Finding {
	query, err := sitter.NewQuery([]byte(qp.Query), lang)
	if err != nil {
		e.log.Warn("invalid tree-sitter query; skipping pattern",
			"rule", rule.ID, "language", doc.Language, "error", err)
		return nil
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var findings []types.Finding
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, content)
		if len(match.Captures) == 0 {
			continue
		}

		// The first capture drives both the location and the snippet.
		node := match.Captures[0].Node
		sp := span{
			startLine:   int(node.StartPoint().Row) + 1,
			startColumn: int(node.StartPoint().Column) + 1,
			endLine:     int(node.EndPoint().Row) + 1,
			endColumn:   int(node.EndPoint().Column) + 1,
		}
		findings = append(findings, newFinding(rule, doc, node.Content(content), sp))

		if rule.PerFileLimit {
			break
		}
	}
	return findings
}

// language resolves a grammar, remembering failures so each unloadable
// language is logged exactly once per engine lifetime.
func (e *ASTEngine) language(name string) (*sitter.Language, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failed[name] {
		return nil, false
	}

	lang, err := e.registry.Get(name)
	if err != nil {
		e.failed[name] = true
		e.log.Warn("grammar unavailable; AST rules disabled for language",
			"language", name, "error", err)
		return nil, false
	}
	return lang, true
}
