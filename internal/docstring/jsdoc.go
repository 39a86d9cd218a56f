package docstring

import (
	"regexp"
	"strings"
)

var (
	jsdocTagRe   = regexp.MustCompile(`^@(\w+)\s*(.*)$`)
	jsdocBraceRe = regexp.MustCompile(`^\{([^}]*)\}\s*(.*)$`)
	jsdocNameRe  = regexp.MustCompile(`^(\[?[\w.$]+(?:=[^\]]*)?\]?)\s*-?\s*(.*)$`)
)

// ParseJSDoc parses a /** ... */ comment into the same structured form as
// Parse. Recognized tags: @param, @arg, @argument, @returns, @return.
func ParseJSDoc(comment string) Docstring {
	var d Docstring
	var desc []string

	for _, line := range jsdocLines(comment) {
		m := jsdocTagRe.FindStringSubmatch(line)
		if m == nil {
			if len(d.Params) == 0 && d.Returns == (Return{}) {
				desc = append(desc, line)
			}
			continue
		}
		rest := m[2]
		switch m[1] {
		case "param", "arg", "argument":
			var p Param
			if b := jsdocBraceRe.FindStringSubmatch(rest); b != nil {
				p.Type = strings.TrimSpace(b[1])
				rest = b[2]
			}
			if n := jsdocNameRe.FindStringSubmatch(rest); n != nil {
				p.Name, p.Default = jsdocName(n[1])
				p.Description = strings.TrimSpace(n[2])
			}
			if p.Name != "" {
				d.Params = append(d.Params, p)
			}
		case "returns", "return":
			var r Return
			if b := jsdocBraceRe.FindStringSubmatch(rest); b != nil {
				r.Type = strings.TrimSpace(b[1])
				rest = b[2]
			}
			r.Description = strings.TrimSpace(rest)
			d.Returns = r
		}
	}

	d.Short, d.Long = splitDescription(desc)
	return d
}

// jsdocName unwraps the optional-parameter bracket form "[name=default]".
func jsdocName(s string) (name, deflt string) {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
		if i := strings.Index(s, "="); i >= 0 {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// jsdocLines strips the comment delimiters and the leading asterisk gutter.
func jsdocLines(comment string) []string {
	s := strings.TrimSpace(comment)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")

	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		if len(line) > 0 && line[0] == ' ' {
			line = line[1:]
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return out
}
