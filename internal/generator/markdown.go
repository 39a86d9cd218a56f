package generator

import (
	"fmt"
	"strings"
)

// Heading renders a markdown heading fragment at the given level.
// Empty text renders nothing.
func Heading(text string, level int) string {
	if text == "" {
		return ""
	}
	if level < 1 {
		level = 1
	}
	return strings.TrimSpace(strings.Repeat("#", level) + " " + text)
}

// Paragraph renders a paragraph fragment. Empty text renders nothing.
func Paragraph(text string) string {
	return strings.TrimSpace(text)
}

// Table renders a markdown table fragment with the given header and rows.
// Empty cells are rendered as "-".
func Table(header []string, rows [][]string) string {
	var b Block
	b.Writeln("| " + strings.Join(header, " | ") + " |")

	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.Writeln("| " + strings.Join(seps, " | ") + " |")

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = tableCell(cell)
		}
		b.Writeln("| " + strings.Join(cells, " | ") + " |")
	}
	return b.String()
}

func tableCell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// Block accumulates lines of a single markdown fragment.
type Block struct {
	lines []string
}

// Writeln appends one line to the block.
func (b *Block) Writeln(line string) {
	b.lines = append(b.lines, line)
}

// Writef appends one formatted line to the block.
func (b *Block) Writef(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// String builds the final fragment, trimmed of surrounding whitespace.
func (b *Block) String() string {
	return strings.TrimSpace(strings.Join(b.lines, "\n"))
}
