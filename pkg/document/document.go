// Package document builds analyzable documents from raw file content:
// front-matter extraction with byte-accurate offsets, language detection,
// and markup classification.
package document

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iankiku/preflight/pkg/types"
)

const delimiter = "---"

// Build constructs a Document from raw content. Front matter and body
// offsets always locate exact substrings of content, so downstream location
// arithmetic stays self-consistent. A front-matter block that fails to parse
// as YAML is treated as absent and the whole content becomes the body.
func Build(path, absPath, content string) *types.Document {
	doc := &types.Document{
		Path:    path,
		AbsPath: absPath,
		Content: content,
	}
	doc.Language, doc.Markup = DetectLanguage(path)

	raw, rawOffset, bodyOffset, ok := splitFrontMatter(content)
	if !ok {
		doc.Body = content
		doc.BodyOffset = 0
		return doc
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil || data == nil {
		doc.Body = content
		doc.BodyOffset = 0
		return doc
	}

	doc.FrontMatter = &types.FrontMatter{
		Raw:    raw,
		Offset: rawOffset,
		Data:   data,
	}
	doc.Body = content[bodyOffset:]
	doc.BodyOffset = bodyOffset
	return doc
}

// splitFrontMatter locates a leading "---" delimited block. It returns the
// raw block text, its offset, and the offset where the body starts. All
// offsets index into the original content.
func splitFrontMatter(content string) (raw string, rawOffset, bodyOffset int, ok bool) {
	if !strings.HasPrefix(content, delimiter+"\n") && !strings.HasPrefix(content, delimiter+"\r\n") {
		return "", 0, 0, false
	}

	start := len(delimiter)
	if content[start] == '\r' {
		start++
	}
	start++ // the newline itself

	// Find the closing delimiter at the start of a line.
	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		return "", 0, 0, false
	}
	rawEnd := start + closeIdx + 1 // include the newline ending the block

	// Body begins on the line after the closing delimiter.
	bodyStart := rawEnd + len(delimiter)
	if bodyStart < len(content) && content[bodyStart] == '\r' {
		bodyStart++
	}
	if bodyStart < len(content) && content[bodyStart] == '\n' {
		bodyStart++
	}
	if bodyStart > len(content) {
		bodyStart = len(content)
	}

	return content[start:rawEnd], start, bodyStart, true
}
