package types

// Pattern is one matching condition within a rule. It is a sealed sum type:
// the three variants are TextPattern, FieldPattern and QueryPattern, and
// every consumer switches exhaustively over them. A rule's patterns are
// evaluated independently; any single variant matching yields a finding.
type Pattern interface {
	isPattern()
}

// TextPattern matches content with a regular expression.
type TextPattern struct {
	// Regex is the pattern source. Compiled with case-insensitive and
	// multiline semantics unless Flags overrides them; all-occurrence
	// search is always applied.
	Regex string

	// Flags is an optional flag string ("i", "m", "s", "x" in any
	// combination). Empty means the default "im".
	Flags string

	// Suppress holds regexes evaluated against the full text of the line
	// containing a match; if any suppressor matches, the match is dropped.
	Suppress []string
}

func (TextPattern) isPattern() {}

// FieldCondition is the single test a FieldPattern applies to the value at
// its path. Exactly one member is set; rule validation enforces this.
type FieldCondition struct {
	// Exists asserts the field is (true) or is not (false) defined.
	Exists *bool

	// Equals asserts strict equality against a literal.
	Equals any

	// EqualsSet reports whether Equals carries a value. Needed because a
	// literal may legitimately be nil or false.
	EqualsSet bool

	// Contains asserts substring membership for string values, or
	// stringified element membership for arrays.
	Contains string

	// Matches asserts a case-insensitive regex match against a string value.
	Matches string
}

// FieldPattern matches a condition against a dot-delimited path into the
// document's parsed front matter.
type FieldPattern struct {
	Path      string
	Condition FieldCondition
}

func (FieldPattern) isPattern() {}

// QueryPattern matches a tree-sitter query against the document's syntax tree.
type QueryPattern struct {
	// Query is the tree-sitter query source.
	Query string

	// Language restricts the pattern to documents of that language.
	// Empty means any document with a detected language.
	Language string
}

func (QueryPattern) isPattern() {}
