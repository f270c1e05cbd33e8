package types

// Scope names a region of a document a rule wants searched.
type Scope string

const (
	// ScopeDocument searches the whole file.
	ScopeDocument Scope = "document"

	// ScopeFrontmatter searches the raw front-matter block.
	ScopeFrontmatter Scope = "frontmatter"

	// ScopeBody searches the content after front matter, or the whole file
	// when there is no front matter.
	ScopeBody Scope = "body"

	// ScopeScripts searches embedded fenced code blocks of markup
	// documents, or the whole file when the document itself is source code.
	ScopeScripts Scope = "scripts"
)

// ValidScope reports whether s is a known scope name.
func ValidScope(s Scope) bool {
	switch s {
	case ScopeDocument, ScopeFrontmatter, ScopeBody, ScopeScripts:
		return true
	}
	return false
}

// Rule is a detection rule. Rules are loaded once per scan and are immutable
// for its duration.
type Rule struct {
	ID           string    // stable identifier, e.g. "pf.exec.1"
	Name         string    // human-readable name
	Severity     Severity  // critical > high > medium > low > info
	Category     string    // classification tag, e.g. "execution"
	Patterns     []Pattern // one or more; each matches independently
	Scopes       []Scope   // regions to search; empty means whole document
	ContextGate  string    // whole-document regex gating rule evaluation
	PerFileLimit bool      // cap the rule at one finding per document
	Message      string    // finding message template with {match} placeholder
	Remediation  string    // optional remediation guidance
	References   []string  // external standard references (CWE, OWASP LLM, ...)
	Keywords     []string  // literal keywords for Aho-Corasick prefiltering
	ExcludePaths []string  // doublestar globs of paths the rule skips
	Enabled      bool
}

// HasTextPattern reports whether the rule carries at least one TextPattern.
func (r *Rule) HasTextPattern() bool {
	for _, p := range r.Patterns {
		if _, ok := p.(TextPattern); ok {
			return true
		}
	}
	return false
}

// HasFieldPattern reports whether the rule carries at least one FieldPattern.
func (r *Rule) HasFieldPattern() bool {
	for _, p := range r.Patterns {
		if _, ok := p.(FieldPattern); ok {
			return true
		}
	}
	return false
}

// HasQueryPattern reports whether the rule carries at least one QueryPattern.
func (r *Rule) HasQueryPattern() bool {
	for _, p := range r.Patterns {
		if _, ok := p.(QueryPattern); ok {
			return true
		}
	}
	return false
}

// EffectiveScopes returns the rule's scopes, defaulting to whole-document.
func (r *Rule) EffectiveScopes() []Scope {
	if len(r.Scopes) == 0 {
		return []Scope{ScopeDocument}
	}
	return r.Scopes
}
