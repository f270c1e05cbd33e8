// Package region translates a rule's location scopes into addressable text
// regions with byte offsets into the original document. All downstream
// location arithmetic (absolute offset = region offset + in-region index)
// depends on these offsets being exact.
package region

import (
	"strings"

	"github.com/iankiku/preflight/pkg/types"
)

// Region is a searchable substring of a document. Offset is the byte
// position of Text's first character within the full document content.
type Region struct {
	Text   string
	Offset int
}

// Resolve maps the requested scopes onto zero or more regions of doc.
// Regions from each scope are unioned in scope-list order. Scopes that do
// not apply to the document (front matter when none exists, scripts when the
// document is neither markup nor source) contribute nothing.
func Resolve(doc *types.Document, scopes []types.Scope) []Region {
	if len(scopes) == 0 {
		scopes = []types.Scope{types.ScopeDocument}
	}

	var regions []Region
	for _, scope := range scopes {
		switch scope {
		case types.ScopeDocument:
			regions = append(regions, Region{Text: doc.Content, Offset: 0})

		case types.ScopeFrontmatter:
			if doc.FrontMatter != nil {
				regions = append(regions, Region{Text: doc.FrontMatter.Raw, Offset: doc.FrontMatter.Offset})
			}

		case types.ScopeBody:
			if doc.FrontMatter != nil {
				regions = append(regions, Region{Text: doc.Body, Offset: doc.BodyOffset})
			} else {
				regions = append(regions, Region{Text: doc.Content, Offset: 0})
			}

		case types.ScopeScripts:
			regions = append(regions, scriptRegions(doc)...)
		}
	}
	return regions
}

// scriptRegions resolves the scripts scope: fenced code blocks for markup
// documents, the whole file for source documents.
func scriptRegions(doc *types.Document) []Region {
	if doc.Markup {
		source := doc.Body
		sourceOffset := doc.BodyOffset
		if doc.FrontMatter == nil {
			source = doc.Content
			sourceOffset = 0
		}

		var regions []Region
		for _, block := range ExtractFencedBlocks(source) {
			if block.Text == "" {
				continue
			}
			// Locate the block verbatim in the full document, searching
			// from the parsed source's offset. When the text cannot be
			// found (e.g. line-ending normalization upstream), fall back
			// to offset 0 rather than dropping the region; the finding is
			// then mislocated but still reported.
			offset := 0
			if idx := strings.Index(doc.Content[sourceOffset:], block.Text); idx >= 0 {
				offset = sourceOffset + idx
			}
			regions = append(regions, Region{Text: block.Text, Offset: offset})
		}
		return regions
	}

	if doc.Language != "" {
		return []Region{{Text: doc.Content, Offset: 0}}
	}
	return nil
}
