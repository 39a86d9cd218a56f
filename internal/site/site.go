// Package site walks a documentation tree, expands directives in every
// markdown page, and writes the results to an output tree with the same
// layout.
package site

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/docsplice/docsplice/internal/directive"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"venv":         {},
	".venv":        {},
}

// Builder processes every markdown page under a docs directory.
type Builder struct {
	Fs        afero.Fs
	Processor *directive.Processor
	Logger    *zap.Logger
}

// Build expands directives in all pages under docsDir and writes them to
// outDir, preserving relative paths. It returns the number of pages
// written.
func (b *Builder) Build(docsDir, outDir string) (int, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pages, err := b.pages(docsDir)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, rel := range pages {
		src := filepath.Join(docsDir, rel)
		data, err := afero.ReadFile(b.Fs, src)
		if err != nil {
			return written, errors.Wrapf(err, "reading page %s", src)
		}

		out, err := b.Processor.Process(string(data), rel)
		if err != nil {
			return written, err
		}

		dst := filepath.Join(outDir, rel)
		if err := b.Fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, errors.Wrapf(err, "creating %s", filepath.Dir(dst))
		}
		if err := afero.WriteFile(b.Fs, dst, []byte(out), 0o644); err != nil {
			return written, errors.Wrapf(err, "writing page %s", dst)
		}

		logger.Debug("wrote page", zap.String("page", rel))
		written++
	}
	return written, nil
}

// pages returns the repo-relative markdown pages under root, sorted by
// the walk order (lexical), honoring .gitignore and skipping hidden and
// vendor directories.
func (b *Builder) pages(root string) ([]string, error) {
	gi := b.loadGitignore(root)

	var pages []string
	err := afero.Walk(b.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		name := info.Name()

		if info.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		pages = append(pages, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return pages, nil
}

func (b *Builder) loadGitignore(root string) *ignore.GitIgnore {
	data, err := afero.ReadFile(b.Fs, filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}
