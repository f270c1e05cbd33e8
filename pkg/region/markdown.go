package region

import "strings"

// FencedBlock is one fenced code block extracted from markup text.
type FencedBlock struct {
	// Text is the block's inner content, fence lines excluded.
	Text string

	// Info is the fence info string (usually a language tag), if any.
	Info string

	// OffsetHint is the byte position of Text within the scanned text.
	// The extractor preserves the source verbatim, so the hint is exact,
	// but callers still re-locate the text in the parent document.
	OffsetHint int
}

// ExtractFencedBlocks scans markup text for ``` / ~~~ fenced code blocks.
// It is the narrow boundary behind which markdown handling lives; the rest
// of the resolver only sees (text, offset) pairs.
func ExtractFencedBlocks(text string) []FencedBlock {
	var blocks []FencedBlock

	pos := 0
	var open string  // the fence that opened the current block
	var info string
	var bodyStart int

	for pos <= len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		var line string
		next := len(text) + 1
		if lineEnd >= 0 {
			line = text[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		} else {
			line = text[pos:]
		}

		trimmed := strings.TrimLeft(line, " \t")
		if open == "" {
			if fence := fenceOf(trimmed); fence != "" {
				open = fence
				info = strings.TrimSpace(strings.TrimPrefix(trimmed, fence))
				bodyStart = next
			}
		} else if fence := fenceOf(trimmed); fence != "" && fence[0] == open[0] && len(fence) >= len(open) && strings.TrimSpace(strings.TrimPrefix(trimmed, fence)) == "" {
			blocks = append(blocks, FencedBlock{
				Text:       text[bodyStart:pos],
				Info:       info,
				OffsetHint: bodyStart,
			})
			open = ""
		}

		if lineEnd < 0 {
			break
		}
		pos = next
	}

	// An unterminated fence runs to the end of the text.
	if open != "" && bodyStart <= len(text) {
		blocks = append(blocks, FencedBlock{
			Text:       text[bodyStart:],
			Info:       info,
			OffsetHint: bodyStart,
		})
	}

	return blocks
}

// fenceOf returns the leading fence marker of a line ("```" or "~~~", or
// longer runs of the same character), or "" when the line opens no fence.
func fenceOf(line string) string {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == ch {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}
