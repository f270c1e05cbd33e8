package types

// FrontMatter is a document's structured metadata block.
type FrontMatter struct {
	// Raw is the exact front-matter text as it appears in the document,
	// excluding the delimiter lines.
	Raw string

	// Offset is the byte position of Raw's first character within the
	// document content. Content[Offset : Offset+len(Raw)] == Raw.
	Offset int

	// Data is the parsed key/value tree.
	Data map[string]any
}

// Document is one scanned artifact, fully materialized in memory.
// Documents are read-only to the analysis pipeline.
type Document struct {
	// Path is the relative (display) path used in findings.
	Path string

	// AbsPath is the absolute path, when known. Rule exclusion globs are
	// checked against both Path and AbsPath.
	AbsPath string

	// Content is the full file text.
	Content string

	// FrontMatter is set when the document starts with a parseable
	// front-matter block.
	FrontMatter *FrontMatter

	// Body is the content after front matter, or Content when there is
	// none. BodyOffset locates Body within Content.
	Body       string
	BodyOffset int

	// Language is the detected source language ("bash", "python", ...),
	// empty when unknown. Used to select a syntax grammar.
	Language string

	// Markup marks prose documents (markdown) whose embedded fenced code
	// blocks are the "scripts" scope. Non-markup documents with a detected
	// language are treated as whole-file scripts.
	Markup bool
}

// HasFrontMatter reports whether structured front matter was parsed.
func (d *Document) HasFrontMatter() bool {
	return d.FrontMatter != nil && d.FrontMatter.Data != nil
}
