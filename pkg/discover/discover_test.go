package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDocumentsWalksTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SKILL.md", "---\nname: demo\n---\n\nbody\n")
	writeFile(t, dir, "scripts/setup.sh", "#!/bin/bash\necho hi\n")
	writeFile(t, dir, "tool.py", "print('ok')\n")

	docs, err := Documents(context.Background(), Config{Root: dir})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"SKILL.md", "scripts/setup.sh", "tool.py"}, paths)

	assert.True(t, docs[0].Markup)
	assert.True(t, docs[0].HasFrontMatter())
	assert.Equal(t, "bash", docs[1].Language)
	assert.Equal(t, "python", docs[2].Language)
}

func TestDocumentsSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "SKILL.md", "# skill\n")

	docs, err := Documents(context.Background(), Config{Root: path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "SKILL.md", docs[0].Path)
}

func TestDocumentsSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "visible.md", "hello\n")
	writeFile(t, dir, ".hidden.md", "secret\n")
	writeFile(t, dir, ".git/config", "[core]\n")

	docs, err := Documents(context.Background(), Config{Root: dir})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "visible.md", docs[0].Path)

	docs, err = Documents(context.Background(), Config{Root: dir, IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestDocumentsHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "vendor/\n*.log\n")
	writeFile(t, dir, "keep.md", "keep\n")
	writeFile(t, dir, "vendor/dep.md", "dep\n")
	writeFile(t, dir, "debug.log", "noise\n")

	docs, err := Documents(context.Background(), Config{Root: dir})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "keep.md", docs[0].Path)
}

func TestDocumentsSkipsBinaryAndOversized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "note.md", "text\n")
	writeFile(t, dir, "blob.bin", "abc\x00def")
	writeFile(t, dir, "big.md", "0123456789012345")

	docs, err := Documents(context.Background(), Config{Root: dir, MaxFileSize: 10})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "note.md", docs[0].Path)
}

func TestDocumentsMissingRoot(t *testing.T) {
	_, err := Documents(context.Background(), Config{Root: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
