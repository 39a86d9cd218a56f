// Package resolver selects the documentation generator responsible for a
// file. Rules are tried in configured order; the first rule whose glob
// matches wins, so later rules can act as catch-all fallbacks. Generator
// instances are created lazily and cached for the resolver's lifetime.
package resolver

import (
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"

	"github.com/docsplice/docsplice/internal/generator"
)

var (
	// ErrNoRule means no configured rule matched the file and no explicit
	// generator override was given.
	ErrNoRule = errors.New("no resolver rule matches")

	// ErrUnknownGenerator means a generator identifier could not be
	// resolved against the registry.
	ErrUnknownGenerator = errors.New("unknown generator")
)

// Rule maps a glob pattern to a generator identifier plus default options.
// Defaults merge under invocation-level options on key collision.
type Rule struct {
	Glob      string
	Generator string
	Options   map[string]any

	pattern glob.Glob
}

// Resolver owns an ordered rule sequence and a cache of instantiated
// generators. One resolver instance serves a whole documentation build.
type Resolver struct {
	rules []Rule

	mu    sync.Mutex
	cache map[string]generator.Generator
}

// New compiles the rule globs and returns a resolver.
// Rule order is preserved; it determines match precedence.
func New(rules []Rule) (*Resolver, error) {
	compiled := make([]Rule, len(rules))
	for i, rule := range rules {
		p, err := glob.Compile(rule.Glob)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d: compiling glob %q", i, rule.Glob)
		}
		rule.pattern = p
		compiled[i] = rule
	}
	return &Resolver{
		rules: compiled,
		cache: make(map[string]generator.Generator),
	}, nil
}

// Resolve selects the generator for path and validates the merged options.
//
// An explicit "generator" key in raw overrides rule matching entirely.
// Otherwise the first matching rule supplies the identifier and its default
// options, with keys already present in raw taking precedence.
func (r *Resolver) Resolve(path string, raw map[string]any) (generator.Generator, generator.Options, error) {
	opts := make(map[string]any, len(raw))
	for k, v := range raw {
		opts[k] = v
	}

	name, _ := opts["generator"].(string)
	delete(opts, "generator")

	if name == "" {
		rule := r.match(path)
		if rule == nil {
			return nil, nil, errors.Wrapf(ErrNoRule, "%s", path)
		}
		name = rule.Generator
		for k, v := range rule.Options {
			if _, ok := opts[k]; !ok {
				opts[k] = v
			}
		}
	}

	gen, err := r.generator(name)
	if err != nil {
		return nil, nil, err
	}

	validated, err := gen.ValidateOptions(opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "generator %q", name)
	}
	return gen, validated, nil
}

// match returns the first rule whose glob matches path, or nil.
func (r *Resolver) match(path string) *Rule {
	slashed := filepath.ToSlash(path)
	for i := range r.rules {
		if r.rules[i].pattern.Match(slashed) {
			return &r.rules[i]
		}
	}
	return nil
}

// generator is an atomic get-or-create on the instance cache. Entries are
// write-once: the first resolution of an identifier freezes its instance.
func (r *Resolver) generator(name string) (generator.Generator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.cache[name]; ok {
		return gen, nil
	}
	gen, ok := generator.New(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownGenerator, "%q", name)
	}
	r.cache[name] = gen
	return gen, nil
}
