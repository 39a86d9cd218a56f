// Package config loads the project configuration file: the source root,
// the directive failure policy, and the ordered resolver rules.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/docsplice/docsplice/internal/resolver"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "docsplice.yml"

// Rule is one configured resolver rule.
type Rule struct {
	Glob      string         `yaml:"glob"`
	Generator string         `yaml:"generator"`
	Options   map[string]any `yaml:"options"`
}

// Config is the project configuration.
type Config struct {
	// SourceRoot is prepended to directive file paths.
	SourceRoot string `yaml:"source_root"`

	// Strict aborts a page build on the first failing directive instead of
	// dropping the directive with a warning.
	Strict bool `yaml:"strict"`

	// Rules are tried in order, before the built-in fallbacks.
	Rules []Rule `yaml:"rules"`
}

// builtinRules are appended after configured rules, so user rules always
// take precedence.
var builtinRules = []resolver.Rule{
	{Glob: "*.py", Generator: "python"},
	{Glob: "*.{js,jsx,ts,tsx}", Generator: "jsdoc"},
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SourceRoot: ".",
		Strict:     true,
	}
}

// Load reads the configuration at path. When path is empty, DefaultPath is
// tried and a missing file falls back to defaults; an explicitly named file
// must exist.
func Load(fsys afero.Fs, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	for i, rule := range cfg.Rules {
		if rule.Glob == "" || rule.Generator == "" {
			return nil, errors.Newf("config %s: rule %d: glob and generator are required", path, i)
		}
	}
	return cfg, nil
}

// ResolverRules returns the configured rules followed by the built-in
// fallbacks, in match order.
func (c *Config) ResolverRules() []resolver.Rule {
	rules := make([]resolver.Rule, 0, len(c.Rules)+len(builtinRules))
	for _, r := range c.Rules {
		rules = append(rules, resolver.Rule{
			Glob:      r.Glob,
			Generator: r.Generator,
			Options:   r.Options,
		})
	}
	return append(rules, builtinRules...)
}
