// Package python generates markdown documentation from Python sources.
// It locates a symbol inside the tree-sitter parse tree and recursively
// renders headings, description paragraphs, and parameter tables for
// modules, classes, and functions.
package python

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"
	"github.com/spf13/afero"

	"github.com/docsplice/docsplice/internal/generator"
)

// Name is the registry identifier of this generator.
const Name = "python"

// ErrTooDeep is returned when source nesting exceeds the render cap.
// The cap exists so pathological inputs fail cleanly instead of
// overflowing the stack.
var ErrTooDeep = errors.New("recursion depth exceeded")

// maxNesting bounds recursive descent through the symbol tree.
const maxNesting = 64

func init() {
	generator.Register(Name, func() generator.Generator { return New() })
}

// Generator renders Python symbol documentation.
type Generator struct {
	schema *generator.Schema
}

// New returns a Python generator with the default option schema.
func New() *Generator {
	return &Generator{
		schema: generator.NewSchema(
			generator.Field{Name: "version", Kind: generator.StringField, Default: ""},
			generator.Field{Name: "encoding", Kind: generator.StringField, Default: "utf-8"},
			generator.Field{Name: "depth", Kind: generator.IntField, Default: 2},
			generator.Field{Name: "deep", Kind: generator.BoolField, Default: true},
			generator.Field{Name: "hide_undocumented", Kind: generator.BoolField, Default: true},
			generator.Field{Name: "private", Kind: generator.BoolField, Default: false},
		),
	}
}

// ValidateOptions implements generator.Generator.
func (g *Generator) ValidateOptions(raw map[string]any) (generator.Options, error) {
	opts, err := g.schema.Validate(raw)
	if err != nil {
		return nil, err
	}
	if opts.Int("depth") < 1 {
		return nil, errors.Wrapf(generator.ErrInvalidOptions, "option %q: must be >= 1, got %d", "depth", opts.Int("depth"))
	}
	return opts, nil
}

// Generate implements generator.Generator. A symbol path that cannot be
// located yields an empty result, not an error.
func (g *Generator) Generate(fsys afero.Fs, path, symbol string, opts generator.Options) ([]string, error) {
	source, err := generator.ReadSource(fsys, path, opts.String("encoding"))
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(tspython.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	defer tree.Close()

	node := tree.RootNode()
	var parent *sitter.Node
	if symbol != "" {
		node = findSymbol(node, symbol, source)
		if node == nil {
			return nil, nil
		}
		// A directly-targeted method still renders as a class member.
		parent = enclosingClass(node)
	}

	ctx := renderContext{
		source:           source,
		path:             path,
		parent:           parent,
		depth:            opts.Int("depth"),
		deep:             opts.Bool("deep"),
		hideUndocumented: opts.Bool("hide_undocumented"),
		showPrivate:      opts.Bool("private"),
	}
	return render(node, ctx)
}

// renderContext is threaded immutably through the recursive descent; each
// step passes a copy with parent replaced and depth incremented.
type renderContext struct {
	source           []byte
	path             string
	parent           *sitter.Node
	depth            int
	deep             bool
	hideUndocumented bool
	showPrivate      bool
	nesting          int
}

// child derives the context for rendering a member of node.
func (c renderContext) child(node *sitter.Node) renderContext {
	c.parent = node
	c.depth++
	c.nesting++
	return c
}

func render(node *sitter.Node, ctx renderContext) ([]string, error) {
	if ctx.nesting > maxNesting {
		return nil, errors.Wrapf(ErrTooDeep, "%s", ctx.path)
	}
	switch node.Type() {
	case "module":
		return renderModule(node, ctx)
	case "class_definition":
		return renderClass(node, ctx)
	case "function_definition":
		return renderFunction(node, ctx)
	}
	return nil, nil
}

func renderModule(node *sitter.Node, ctx renderContext) ([]string, error) {
	frags := []string{generator.Heading(ctx.path, ctx.depth)}

	if doc, ok := docOf(node, ctx.source); ok {
		frags = appendParagraphs(frags, doc.Short, doc.Long)
	}

	if ctx.deep {
		more, err := renderMembers(node, ctx)
		if err != nil {
			return nil, err
		}
		frags = append(frags, more...)
	}
	return frags, nil
}

func renderClass(node *sitter.Node, ctx renderContext) ([]string, error) {
	var frags []string

	doc, documented := docOf(node, ctx.source)
	if documented || !ctx.hideUndocumented {
		frags = append(frags, generator.Heading(nodeName(node, ctx.source), ctx.depth))
		frags = appendParagraphs(frags, doc.Short, doc.Long)
	}

	// An undocumented class may still contain documented members, so the
	// recursion is not gated on the heading.
	if ctx.deep {
		more, err := renderMembers(node, ctx)
		if err != nil {
			return nil, err
		}
		frags = append(frags, more...)
	}
	return frags, nil
}

func renderMembers(node *sitter.Node, ctx renderContext) ([]string, error) {
	var frags []string
	for _, child := range members(node) {
		more, err := render(child, ctx.child(node))
		if err != nil {
			return nil, err
		}
		frags = append(frags, more...)
	}
	return frags, nil
}

func renderFunction(node *sitter.Node, ctx renderContext) ([]string, error) {
	doc, documented := docOf(node, ctx.source)
	if ctx.hideUndocumented && !documented {
		return nil, nil
	}

	name := nodeName(node, ctx.source)
	if privateNameRe.MatchString(name) && !ctx.showPrivate {
		return nil, nil
	}

	params := parameters(node, ctx.source)
	frags := []string{generator.Heading(functionTitle(node, ctx, name, params), ctx.depth)}

	if doc.Short != "" {
		frags = append(frags, generator.Paragraph(doc.Short))
	}

	if len(params) > 0 {
		rows := make([][]string, len(params))
		for i, p := range params {
			pd, _ := doc.Param(p.name)
			rows[i] = []string{
				p.name,
				firstOf(pd.Type, p.annotation),
				pd.Description,
				firstOf(pd.Default, p.deflt),
			}
		}
		frags = append(frags,
			generator.Heading("Arguments", ctx.depth+1),
			generator.Table([]string{"Name", "Type", "Description", "Default"}, rows),
		)
	}

	frags = append(frags,
		generator.Heading("Returns", ctx.depth+1),
		generator.Table([]string{"Type", "Description"}, [][]string{{
			firstOf(doc.Returns.Type, returnAnnotation(node, ctx.source)),
			doc.Returns.Description,
		}}),
	)

	if doc.Long != "" {
		frags = append(frags,
			generator.Heading("Details", ctx.depth+1),
			generator.Paragraph(doc.Long),
		)
	}
	return frags, nil
}

// functionTitle renders the heading text: member functions join the class
// name with "." (static-like) or "#" (instance-like), free functions have
// no prefix. The parameter list uses trimmed source text.
func functionTitle(node *sitter.Node, ctx renderContext, name string, params []param) string {
	title := name
	if ctx.parent != nil && ctx.parent.Type() == "class_definition" {
		sep := "#"
		if isStaticLike(node, ctx.source) {
			sep = "."
		}
		title = nodeName(ctx.parent, ctx.source) + sep + name
	}

	texts := make([]string, len(params))
	for i, p := range params {
		texts[i] = p.text
	}
	return title + "(" + strings.Join(texts, ", ") + ")"
}

func appendParagraphs(frags []string, texts ...string) []string {
	for _, text := range texts {
		if p := generator.Paragraph(text); p != "" {
			frags = append(frags, p)
		}
	}
	return frags
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
