// Package source provides a line-indexed, mutable view over a file's text
// that preserves original line numbers across edits, the way the rewriter
// needs to reason about "line 12 of the original file" even after some
// lines have been marked for removal.
package source

import "strings"

// View is a 1-indexed line table. Lines[0] is an unused sentinel so that
// AST line numbers (which start at 1) index directly into Lines.
type View struct {
	Lines []string
	text  string
}

// New splits text into a 1-indexed line table.
func New(text string) *View {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw)+1)
	lines[0] = ""
	copy(lines[1:], raw)
	return &View{Lines: lines, text: text}
}

// Text returns the original, unmodified source text.
func (v *View) Text() string { return v.text }

// LineCount returns the number of real (1-indexed) lines.
func (v *View) LineCount() int {
	if len(v.Lines) == 0 {
		return 0
	}
	return len(v.Lines) - 1
}

// Line returns the text of line n (1-indexed), or "" if out of range.
func (v *View) Line(n int) string {
	if n < 1 || n >= len(v.Lines) {
		return ""
	}
	return v.Lines[n]
}

// IsBlank reports whether line n contains only whitespace.
func (v *View) IsBlank(n int) bool {
	return strings.TrimSpace(v.Line(n)) == ""
}

// Render joins a list of kept lines (in order) back into text,
// normalizing to exactly one trailing newline.
func Render(lines []string) string {
	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n"
}
