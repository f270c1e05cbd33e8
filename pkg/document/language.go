package document

import (
	"path/filepath"
	"strings"
)

// languagesByExt maps file extensions to grammar language names. Extensions
// not listed here yield no language, which disables syntax-tree analysis for
// that document.
var languagesByExt = map[string]string{
	".sh":   "bash",
	".bash": "bash",
	".py":   "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".go":   "go",
}

// markupExts are prose formats whose fenced code blocks form the scripts
// scope.
var markupExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
}

// DetectLanguage infers a language tag and markup classification from a
// file path.
func DetectLanguage(path string) (language string, markup bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if markupExts[ext] {
		return "", true
	}
	return languagesByExt[ext], false
}
