package python

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docsplice/docsplice/internal/docstring"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// privateNameRe matches single-leading-underscore names. Dunder names
// (__init__) must not match.
var privateNameRe = regexp.MustCompile(`^_[^_]+$`)

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// nodeName returns the declared name of a class or function definition.
func nodeName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return nodeText(child, source)
		}
	}
	return ""
}

// scopeOf returns the node whose children are a definition's members:
// the body block for classes and functions, the node itself for modules.
func scopeOf(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "block" {
			return child
		}
	}
	return node
}

// members returns the flattened children of a definition's scope. Wrapper
// nodes (expression statements, decorated definitions) are transparent:
// their children are promoted. Class and function definitions stay opaque.
func members(node *sitter.Node) []*sitter.Node {
	return flatChildren(scopeOf(node))
}

func flatChildren(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "expression_statement", "decorated_definition":
			out = append(out, flatChildren(child)...)
		case "comment":
			// not a member
		default:
			out = append(out, child)
		}
	}
	return out
}

// findSymbol resolves a dot-separated symbol path against the tree, doing
// a breadth search among flattened members at each step. Returns nil when
// any part has no match.
func findSymbol(root *sitter.Node, path string, source []byte) *sitter.Node {
	current := root
	for _, part := range strings.Split(path, ".") {
		var next *sitter.Node
		for _, child := range members(current) {
			if nodeName(child, source) == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// enclosingClass returns the class definition whose body contains node,
// or nil for top-level definitions.
func enclosingClass(node *sitter.Node) *sitter.Node {
	parent := node.Parent()
	if parent != nil && parent.Type() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent != nil && parent.Type() == "block" &&
		parent.Parent() != nil && parent.Parent().Type() == "class_definition" {
		return parent.Parent()
	}
	return nil
}

// docOf returns the parsed documentation string of a module, class, or
// function. The doc node is a leading string member, as in CPython.
func docOf(node *sitter.Node, source []byte) (docstring.Docstring, bool) {
	kids := members(node)
	if len(kids) == 0 || kids[0].Type() != "string" {
		return docstring.Docstring{}, false
	}
	text := docstring.Dedent(docstring.Unquote(nodeText(kids[0], source)))
	return docstring.Parse(text), true
}

// decorators returns the decorator source texts attached to a definition.
func decorators(node *sitter.Node, source []byte) []string {
	parent := node.Parent()
	if parent == nil || parent.Type() != "decorated_definition" {
		return nil
	}
	var out []string
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		child := parent.NamedChild(i)
		if child.Type() == "decorator" {
			out = append(out, nodeText(child, source))
		}
	}
	return out
}

// isStaticLike reports whether a member function is decorated as a
// staticmethod or classmethod, which renders with a "." separator instead
// of the instance "#".
func isStaticLike(node *sitter.Node, source []byte) bool {
	for _, dec := range decorators(node, source) {
		if strings.Contains(dec, "staticmethod") || strings.Contains(dec, "classmethod") {
			return true
		}
	}
	return false
}

// param is one declared parameter with whatever the source provides.
type param struct {
	name       string
	annotation string
	deflt      string
	text       string
}

// parameters collects a function's declared parameters in declaration
// order, dropping a leading self/cls receiver.
func parameters(node *sitter.Node, source []byte) []param {
	var list *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "parameters" {
			list = child
			break
		}
	}
	if list == nil {
		return nil
	}

	var out []param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		out = append(out, parseParam(list.NamedChild(i), source))
	}

	if len(out) > 0 && (out[0].name == "self" || out[0].name == "cls") {
		out = out[1:]
	}
	return out
}

func parseParam(node *sitter.Node, source []byte) param {
	p := param{text: collapseWhitespace(nodeText(node, source))}

	switch node.Type() {
	case "identifier":
		p.name = p.text
	case "typed_parameter":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "type" {
				p.annotation = collapseWhitespace(nodeText(child, source))
			} else if p.name == "" {
				p.name = strings.TrimLeft(nodeText(child, source), "*")
			}
		}
	case "default_parameter", "typed_default_parameter":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch {
			case i == 0:
				p.name = nodeText(child, source)
			case child.Type() == "type":
				p.annotation = collapseWhitespace(nodeText(child, source))
			default:
				p.deflt = collapseWhitespace(nodeText(child, source))
			}
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if node.NamedChildCount() > 0 {
			p.name = nodeText(node.NamedChild(0), source)
		}
	}
	return p
}

// returnAnnotation returns the source text of a function's return type
// annotation, or "".
func returnAnnotation(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "type" {
			return collapseWhitespace(nodeText(child, source))
		}
	}
	return ""
}
