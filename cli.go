package main

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/docsplice/docsplice/internal/config"
	"github.com/docsplice/docsplice/internal/directive"
	_ "github.com/docsplice/docsplice/internal/generator/jsdoc"
	_ "github.com/docsplice/docsplice/internal/generator/python"
	"github.com/docsplice/docsplice/internal/resolver"
	"github.com/docsplice/docsplice/internal/site"
)

const rootLongDesc = `
docsplice scans markdown pages for directive blocks of the form

  ::: path/to/source.py:Class.method
  depth: 3

and replaces each one with documentation generated from the referenced
source symbol: headings, description paragraphs, and argument/return
tables extracted from docstrings and signatures.

Generators are selected per file by glob rules (docsplice.yml), with
built-in fallbacks for Python and JavaScript/TypeScript sources.
`

func newRootCmd(stdout io.Writer) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "docsplice",
		Short:         "Splice generated source documentation into markdown pages",
		Long:          strings.TrimSpace(rootLongDesc),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = version
	cmd.SetOut(stdout)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newBuildCmd(&verbose))
	cmd.AddCommand(newRenderCmd(&verbose))
	return cmd
}

func newBuildCmd(verbose *bool) *cobra.Command {
	var (
		configPath string
		outDir     string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "build [docs-dir]",
		Short: "Expand directives in every page of a docs tree",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default docsplice.yml if present)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "site", "output directory")
	cmd.Flags().BoolVar(&strict, "strict", true, "abort on the first failing directive")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		docsDir := "docs"
		if len(args) > 0 {
			docsDir = args[0]
		}

		logger, err := newLogger(*verbose)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		fsys := afero.NewOsFs()
		cfg, err := config.Load(fsys, configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict = strict
		}

		r, err := resolver.New(cfg.ResolverRules())
		if err != nil {
			return err
		}

		builder := &site.Builder{
			Fs: fsys,
			Processor: &directive.Processor{
				Resolver:   r,
				Fs:         fsys,
				SourceRoot: cfg.SourceRoot,
				Strict:     cfg.Strict,
				Logger:     logger,
			},
			Logger: logger,
		}

		n, err := builder.Build(docsDir, outDir)
		if err != nil {
			return err
		}
		logger.Info("build complete",
			zap.Int("pages", n),
			zap.String("out", outDir))
		return nil
	}
	return cmd
}

func newRenderCmd(verbose *bool) *cobra.Command {
	var (
		configPath    string
		generatorName string
		optionPairs   []string
	)

	cmd := &cobra.Command{
		Use:   "render <file[:symbol.path]>",
		Short: "Render one directive target to stdout",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default docsplice.yml if present)")
	cmd.Flags().StringVarP(&generatorName, "generator", "g", "", "generator identifier, overriding rule matching")
	cmd.Flags().StringArrayVarP(&optionPairs, "opt", "O", nil, "generator option as key=value (repeatable)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(*verbose)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		fsys := afero.NewOsFs()
		cfg, err := config.Load(fsys, configPath)
		if err != nil {
			return err
		}

		raw, err := parseOptionPairs(optionPairs)
		if err != nil {
			return err
		}
		if generatorName != "" {
			raw["generator"] = generatorName
		}

		r, err := resolver.New(cfg.ResolverRules())
		if err != nil {
			return err
		}

		target := args[0]
		file, symbol := splitTarget(target)

		gen, opts, err := r.Resolve(file, raw)
		if err != nil {
			return err
		}

		frags, err := gen.Generate(fsys, file, symbol, opts)
		if err != nil {
			return err
		}
		if len(frags) == 0 {
			logger.Warn("nothing rendered", zap.String("target", target))
			return nil
		}

		_, err = io.WriteString(cmd.OutOrStdout(), strings.Join(frags, "\n\n")+"\n")
		return err
	}
	return cmd
}

func splitTarget(target string) (file, symbol string) {
	parts := strings.SplitN(target, ":", 3)
	file = parts[0]
	if len(parts) >= 2 {
		symbol = parts[1]
	}
	return file, symbol
}

// parseOptionPairs turns repeated key=value flags into a raw options map,
// with values parsed as YAML scalars so booleans and integers keep their
// types.
func parseOptionPairs(pairs []string) (map[string]any, error) {
	raw := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Newf("invalid option %q: expected key=value", pair)
		}
		var parsed any
		if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, errors.Wrapf(err, "invalid option %q", pair)
		}
		raw[key] = parsed
	}
	return raw, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
