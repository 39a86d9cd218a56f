// Package directive recognizes ::: directives inside markdown documents,
// runs the resolver and the selected generator, and splices the produced
// fragments back into the document in place of the directive block.
package directive

import (
	"path"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/docsplice/docsplice/internal/resolver"
)

// directiveRe matches the first line of a directive block. The captured
// target is "filename" or "filename:symbol.path".
var directiveRe = regexp.MustCompile(`^:::\s+(.+)$`)

// Processor rewrites markdown documents by expanding directives.
type Processor struct {
	Resolver *resolver.Resolver
	Fs       afero.Fs

	// SourceRoot is prepended to directive file paths when reading source
	// files. Rule matching uses the path as written in the directive.
	SourceRoot string

	// Strict aborts the whole document on the first failing directive.
	// Otherwise the failing block is dropped with a logged warning.
	Strict bool

	Logger *zap.Logger
}

// Process expands every directive in doc and returns the rewritten
// document. docPath is used for error and log context only.
func (p *Processor) Process(doc, docPath string) (string, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	blocks := splitBlocks(doc)
	out := make([]string, 0, len(blocks))

	for _, block := range blocks {
		target, rest, ok := matchDirective(block)
		if !ok {
			out = append(out, block)
			continue
		}

		frags, err := p.expand(target, rest)
		if err != nil {
			err = errors.Wrapf(err, "%s: directive %q", docPath, target)
			if p.Strict {
				return "", err
			}
			logger.Warn("skipping failed directive",
				zap.String("doc", docPath),
				zap.String("target", target),
				zap.Error(err))
			continue
		}
		for _, frag := range frags {
			if strings.TrimSpace(frag) != "" {
				out = append(out, frag)
			}
		}
	}

	return strings.Join(out, "\n\n") + "\n", nil
}

// expand runs one directive: parse options, resolve, generate.
func (p *Processor) expand(target, payload string) ([]string, error) {
	file, symbol := splitTarget(target)

	raw := map[string]any{}
	if strings.TrimSpace(payload) != "" {
		if err := yaml.Unmarshal([]byte(payload), &raw); err != nil {
			return nil, errors.Wrap(err, "parsing options")
		}
	}

	gen, opts, err := p.Resolver.Resolve(file, raw)
	if err != nil {
		return nil, err
	}

	srcPath := file
	if p.SourceRoot != "" && !path.IsAbs(file) {
		srcPath = path.Join(p.SourceRoot, file)
	}
	return gen.Generate(p.Fs, srcPath, symbol, opts)
}

// matchDirective checks whether a block starts with a directive line and
// returns the target plus the remaining payload lines.
func matchDirective(block string) (target, payload string, ok bool) {
	first, rest, _ := strings.Cut(block, "\n")
	m := directiveRe.FindStringSubmatch(strings.TrimRight(first, " \t"))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), rest, true
}

// splitTarget splits "filename[:symbol[:...]]"; anything past the second
// colon is ignored.
func splitTarget(target string) (file, symbol string) {
	parts := strings.SplitN(target, ":", 3)
	file = parts[0]
	if len(parts) >= 2 {
		symbol = parts[1]
	}
	return file, symbol
}

// splitBlocks splits a document into blank-line-separated blocks, the way
// block-level markdown processors do.
func splitBlocks(doc string) []string {
	var blocks []string
	var cur []string

	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}

	for _, line := range strings.Split(doc, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}
