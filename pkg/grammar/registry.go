// Package grammar provides the language-keyed registry of tree-sitter
// grammars used by the syntax-tree engine. The registry is the single
// synchronization point for load-once semantics: concurrent lookups of the
// same language resolve to a single load, and a language that fails to load
// stays failed for the lifetime of the registry.
package grammar

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// loaders maps language names to grammar constructors. Construction is cheap
// for statically linked grammars but still funneled through the registry so
// callers never race on first use.
var loaders = map[string]func() *sitter.Language{
	"bash":       bash.GetLanguage,
	"go":         golang.GetLanguage,
	"javascript": javascript.GetLanguage,
	"python":     python.GetLanguage,
	"typescript": typescript.GetLanguage,
}

// Supported reports whether a grammar exists for the language.
func Supported(language string) bool {
	_, ok := loaders[language]
	return ok
}

// Languages returns the names of all registered grammars.
func Languages() []string {
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	return names
}

type entry struct {
	once sync.Once
	lang *sitter.Language
	err  error
}

// Registry caches loaded grammars per scan. It is safe for concurrent use.
// Passing an explicit registry through the scan keeps grammar state owned and
// test-isolated instead of living in package globals.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates an empty grammar registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Get returns the grammar for a language, loading it on first use.
// Unsupported languages return an error; the error is stable across calls.
func (r *Registry) Get(language string) (*sitter.Language, error) {
	r.mu.Lock()
	e, ok := r.entries[language]
	if !ok {
		e = &entry{}
		r.entries[language] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		loader, ok := loaders[language]
		if !ok {
			e.err = fmt.Errorf("no grammar registered for language %q", language)
			return
		}
		e.lang = loader()
		if e.lang == nil {
			e.err = fmt.Errorf("grammar for language %q failed to load", language)
		}
	})
	return e.lang, e.err
}
