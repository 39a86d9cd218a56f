package jsdoc

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docsplice/docsplice/internal/docstring"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// nodeName returns the declared name of a class, function, or method.
func nodeName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier", "property_identifier":
			return nodeText(child, source)
		}
	}
	return ""
}

// members returns the searchable children of a node. Export statements are
// transparent wrappers; class bodies are entered; function bodies are not.
func members(node *sitter.Node) []*sitter.Node {
	switch node.Type() {
	case "program":
		return flatChildren(node)
	case "class_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "class_body" {
				return flatChildren(child)
			}
		}
	}
	return nil
}

func flatChildren(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "export_statement":
			out = append(out, flatChildren(child)...)
		case "comment":
			// not a member
		default:
			out = append(out, child)
		}
	}
	return out
}

// findSymbol resolves a dot-separated symbol path against the tree.
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

// enclosingClass returns the class declaration whose body contains node,
// or nil for top-level declarations.
func enclosingClass(node *sitter.Node) *sitter.Node {
	parent := node.Parent()
	if parent != nil && parent.Type() == "class_body" &&
		parent.Parent() != nil && parent.Parent().Type() == "class_declaration" {
		return parent.Parent()
	}
	return nil
}

// docOf returns the parsed JSDoc comment attached to a node. For programs
// that is a leading /** comment; for declarations it is the immediately
// preceding sibling comment.
func docOf(node *sitter.Node, source []byte) (docstring.Docstring, bool) {
	if node.Type() == "program" {
		if node.NamedChildCount() > 0 {
			first := node.NamedChild(0)
			if first.Type() == "comment" && isJSDoc(nodeText(first, source)) {
				return docstring.ParseJSDoc(nodeText(first, source)), true
			}
		}
		return docstring.Docstring{}, false
	}

	// export default / export wraps the declaration; the comment precedes
	// the export statement.
	anchor := node
	if parent := node.Parent(); parent != nil && parent.Type() == "export_statement" {
		anchor = parent
	}
	prev := anchor.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return docstring.Docstring{}, false
	}
	text := nodeText(prev, source)
	if !isJSDoc(text) {
		return docstring.Docstring{}, false
	}
	return docstring.ParseJSDoc(text), true
}

func isJSDoc(text string) bool {
	return strings.HasPrefix(text, "/**")
}

// isStatic reports whether a method definition carries the static keyword.
func isStatic(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "static" {
			return true
		}
	}
	return false
}

type param struct {
	name  string
	deflt string
	text  string
}

// parameters collects declared parameters in declaration order.
func parameters(node *sitter.Node, source []byte) []param {
	var list *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "formal_parameters" {
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
	return out
}

func parseParam(node *sitter.Node, source []byte) param {
	p := param{text: collapseWhitespace(nodeText(node, source))}

	switch node.Type() {
	case "identifier":
		p.name = p.text
	case "assignment_pattern":
		if node.NamedChildCount() >= 2 {
			p.name = nodeText(node.NamedChild(0), source)
			p.deflt = collapseWhitespace(nodeText(node.NamedChild(1), source))
		}
	case "rest_pattern":
		if node.NamedChildCount() > 0 {
			p.name = nodeText(node.NamedChild(0), source)
		}
	}
	return p
}
