// Package discover walks a directory tree and materializes scannable
// documents. It honors .gitignore, skips hidden entries and binaries, and
// reads files in parallel.
package discover

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/iankiku/preflight/pkg/document"
	"github.com/iankiku/preflight/pkg/types"
)

// Config controls discovery behavior.
type Config struct {
	// Root is the directory to walk. A single-file root is scanned as-is.
	Root string

	// MaxFileSize skips larger files. Zero means 10 MiB.
	MaxFileSize int64

	// IncludeHidden also scans dotfiles and dot-directories.
	IncludeHidden bool
}

const defaultMaxFileSize = 10 << 20

// Documents walks the root and returns documents in deterministic (sorted
// path) order. Unreadable files are skipped, not fatal.
func Documents(ctx context.Context, cfg Config) ([]*types.Document, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", cfg.Root, err)
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}

	if !info.IsDir() {
		doc, err := load(cfg.Root, filepath.Base(cfg.Root))
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, nil
		}
		return []*types.Document{doc}, nil
	}

	paths, err := collect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	docs := make([]*types.Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rel, err := filepath.Rel(cfg.Root, p)
			if err != nil {
				rel = p
			}
			doc, err := load(p, filepath.ToSlash(rel))
			if err != nil {
				return nil // unreadable file: skip
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

// collect gathers eligible file paths sequentially, sorted for determinism.
func collect(ctx context.Context, cfg Config) ([]string, error) {
	var ignore *gitignore.GitIgnore
	if path := filepath.Join(cfg.Root, ".gitignore"); fileExists(path) {
		ignore, _ = gitignore.CompileIgnoreFile(path)
	}

	var paths []string
	err := filepath.Walk(cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if path != cfg.Root && !cfg.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !cfg.IncludeHidden && isHidden(info.Name()) {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if info.Size() > cfg.MaxFileSize {
			return nil
		}
		if ignore != nil {
			if rel, err := filepath.Rel(cfg.Root, path); err == nil && ignore.MatchesPath(rel) {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// load reads one file and builds its document. Binary files yield nil.
func load(absPath, relPath string) (*types.Document, error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	if isBinary(content) {
		return nil, nil
	}
	abs, err := filepath.Abs(absPath)
	if err != nil {
		abs = absPath
	}
	return document.Build(relPath, abs, string(content)), nil
}

// fileExists reports whether a regular file exists at path.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// isBinary applies the git heuristic: a NUL byte in the first 8000 bytes.
func isBinary(content []byte) bool {
	n := len(content)
	if n > 8000 {
		n = 8000
	}
	return bytes.IndexByte(content[:n], 0) >= 0
}
