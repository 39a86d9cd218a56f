// Package docstring parses structured documentation comments into a short
// description, a long description, and per-parameter and return entries.
//
// Parse handles Google-style docstrings (Args:/Returns: sections) as found
// in Python sources. ParseJSDoc handles /** ... */ comments with @param and
// @returns tags.
package docstring

import (
	"regexp"
	"strings"
)

// Param documents a single declared parameter.
type Param struct {
	Name        string
	Type        string
	Description string
	Default     string
}

// Return documents a return value.
type Return struct {
	Type        string
	Description string
}

// Docstring is the structured form of a documentation comment.
type Docstring struct {
	Short   string
	Long    string
	Params  []Param
	Returns Return
}

// Param returns the documented parameter with the given name, if any.
func (d Docstring) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

var (
	paramEntryRe = regexp.MustCompile(`^(\*{0,2}\w+)(?:\s*\(([^)]*)\))?:\s*(.*)$`)
	defaultRe    = regexp.MustCompile(`(?i)\bdefaults?\s+to\s+(.+?)\.?\s*$`)
)

// Section headers recognized in Google-style docstrings. Sections other
// than Args/Returns are consumed but not represented in the result.
var sectionNames = map[string]string{
	"args":              "args",
	"arguments":         "args",
	"parameters":        "args",
	"keyword arguments": "args",
	"returns":           "returns",
	"return":            "returns",
	"yields":            "other",
	"raises":            "other",
	"examples":          "other",
	"example":           "other",
	"notes":             "other",
	"note":              "other",
	"attributes":        "other",
}

// Parse parses a Google-style docstring body. The text should already be
// stripped of its quote delimiters (see Unquote).
func Parse(text string) Docstring {
	lines := strings.Split(Dedent(text), "\n")

	var d Docstring
	var desc []string
	section := ""

	var params []Param
	var returns []string

	flushParam := func(name, typ string, body []string) {
		descText := strings.TrimSpace(strings.Join(body, " "))
		p := Param{Name: name, Type: strings.TrimSpace(typ), Description: descText}
		if m := defaultRe.FindStringSubmatch(descText); m != nil {
			p.Default = strings.TrimSpace(m[1])
		}
		params = append(params, p)
	}

	var curName, curType string
	var curBody []string
	inParam := false
	entryIndent := -1
	endParam := func() {
		if inParam {
			flushParam(curName, curType, curBody)
			inParam = false
		}
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if name, ok := sectionNames[strings.ToLower(strings.TrimSuffix(trimmed, ":"))]; ok && strings.HasSuffix(trimmed, ":") && trimmed == line {
			endParam()
			section = name
			continue
		}

		switch section {
		case "args":
			if trimmed == "" {
				endParam()
				continue
			}
			m := paramEntryRe.FindStringSubmatch(trimmed)
			newEntry := m != nil && (entryIndent == -1 || indentOf(line) <= entryIndent)
			if newEntry {
				endParam()
				if entryIndent == -1 {
					entryIndent = indentOf(line)
				}
				curName, curType, curBody = strings.TrimLeft(m[1], "*"), m[2], []string{m[3]}
				inParam = true
			} else if inParam {
				curBody = append(curBody, trimmed)
			}
		case "returns":
			if trimmed != "" {
				returns = append(returns, trimmed)
			}
		case "other":
			// consumed, not represented
		default:
			desc = append(desc, line)
		}
	}
	endParam()

	d.Params = params
	d.Short, d.Long = splitDescription(desc)
	d.Returns = parseReturn(returns)
	return d
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func parseReturn(lines []string) Return {
	if len(lines) == 0 {
		return Return{}
	}
	joined := strings.TrimSpace(strings.Join(lines, " "))
	if i := strings.Index(joined, ":"); i > 0 && !strings.ContainsAny(joined[:i], " \t") {
		return Return{
			Type:        strings.TrimSpace(joined[:i]),
			Description: strings.TrimSpace(joined[i+1:]),
		}
	}
	return Return{Description: joined}
}

func splitDescription(lines []string) (short, long string) {
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return "", ""
	}
	if i := strings.Index(text, "\n\n"); i >= 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+2:])
	}
	return text, ""
}

// Dedent strips the common leading whitespace of all non-blank lines after
// the first. Docstring bodies are indented to match the surrounding code.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return strings.TrimSpace(text)
	}
	min := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := indentOf(line); min == -1 || n < min {
			min = n
		}
	}
	if min <= 0 {
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	for i, line := range lines[1:] {
		if len(line) >= min {
			lines[i+1] = line[min:]
		} else {
			lines[i+1] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Unquote strips string-literal prefixes and quote delimiters from a
// source-level string literal, returning the raw body.
func Unquote(literal string) string {
	s := strings.TrimSpace(literal)
	for len(s) > 0 {
		switch s[0] {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
			s = s[1:]
			continue
		}
		break
	}
	for _, q := range []string{`"""`, "'''", `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}
