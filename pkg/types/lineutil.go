package types

import "strings"

// ComputeLineColumn computes line and column numbers from a byte offset in
// content. Lines and columns are 1-indexed.
func ComputeLineColumn(content string, byteOffset int) (line, column int) {
	line = 1
	column = 1
	for i := 0; i < byteOffset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// LineAt returns the full text of the line containing byteOffset, without
// the trailing newline. Out-of-range offsets yield an empty string.
func LineAt(content string, byteOffset int) string {
	if byteOffset < 0 || byteOffset > len(content) {
		return ""
	}
	start := strings.LastIndexByte(content[:byteOffset], '\n') + 1
	end := strings.IndexByte(content[byteOffset:], '\n')
	if end < 0 {
		return content[start:]
	}
	return content[start : byteOffset+end]
}
