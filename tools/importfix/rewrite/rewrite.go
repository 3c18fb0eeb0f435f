// Package rewrite splices a composed import block back into a file's
// source text: it removes the lines spanned by existing import/require
// statements, decides where the new block belongs, and re-emits the file
// preserving original line content outside the edited region.
package rewrite

import (
	"strings"

	"tools/importfix/imports"
	"tools/importfix/jsast"
	"tools/importfix/source"
)

// Rewrite produces the new file text for view, removing existing's source
// lines and inserting composedBlock (already fully formatted, "" meaning
// no new imports) at the position dictated by §4.5.
func Rewrite(view *source.View, prog *jsast.Program, existing []imports.Existing, composedBlock string) string {
	n := view.LineCount()
	removed := make(map[int]bool, n)
	for _, ex := range existing {
		for ln := ex.StartLine; ln <= ex.EndLine; ln++ {
			removed[ln] = true
		}
	}

	coalesceBlankGaps(view, removed, n)

	if composedBlock == "" && len(existing) > 0 {
		removeTrailingBlank(view, removed, n)
	}

	if composedBlock == "" && len(existing) == 0 {
		return source.Render(view.Lines[1:])
	}

	if len(existing) > 0 {
		target := firstStart(existing)
		return render(view, removed, n, target, composedBlock, false, false)
	}

	if text, _, end, ok := prog.LeadingDirective(); ok {
		if directiveOwnsLine(view, text, end) {
			return render(view, removed, n, end, composedBlock, true, true)
		}
		return renderInlineSplice(view, n, end, composedBlock)
	}

	return renderPrepend(view, removed, n, composedBlock)
}

func firstStart(existing []imports.Existing) int {
	min := existing[0].StartLine
	for _, ex := range existing[1:] {
		if ex.StartLine < min {
			min = ex.StartLine
		}
	}
	return min
}

// coalesceBlankGaps extends removed to cover any whitespace-only lines
// lying strictly between two already-removed lines.
func coalesceBlankGaps(view *source.View, removed map[int]bool, n int) {
	var ordered []int
	for ln := 1; ln <= n; ln++ {
		if removed[ln] {
			ordered = append(ordered, ln)
		}
	}
	for i := 0; i+1 < len(ordered); i++ {
		cur, next := ordered[i], ordered[i+1]
		if next <= cur+1 {
			continue
		}
		allBlank := true
		for ln := cur + 1; ln < next; ln++ {
			if !view.IsBlank(ln) {
				allBlank = false
				break
			}
		}
		if allBlank {
			for ln := cur + 1; ln < next; ln++ {
				removed[ln] = true
			}
		}
	}
}

func removeTrailingBlank(view *source.View, removed map[int]bool, n int) {
	maxRemoved := 0
	for ln := 1; ln <= n; ln++ {
		if removed[ln] && ln > maxRemoved {
			maxRemoved = ln
		}
	}
	if maxRemoved == 0 {
		return
	}
	next := maxRemoved + 1
	if next <= n && !removed[next] && view.IsBlank(next) {
		removed[next] = true
	}
}

func directiveOwnsLine(view *source.View, directiveText string, end int) bool {
	line := view.Line(end)
	remainder := strings.Replace(line, directiveText, "", 1)
	remainder = strings.TrimLeft(strings.TrimSpace(remainder), `"';`)
	return strings.TrimSpace(remainder) == ""
}

// render walks lines 1..n, keeping non-removed lines, and inserts
// composedBlock's lines immediately after line number target, optionally
// bracketed by a blank line above and/or below.
func render(view *source.View, removed map[int]bool, n, target int, composedBlock string, blankBefore, blankAfter bool) string {
	var out []string
	emitBlock := func() {
		if composedBlock == "" {
			return
		}
		if blankBefore {
			out = append(out, "")
		}
		out = append(out, strings.Split(composedBlock, "\n")...)
		if blankAfter {
			out = append(out, "")
		}
	}
	if target == 0 {
		emitBlock()
	}
	for ln := 1; ln <= n; ln++ {
		if !removed[ln] {
			out = append(out, view.Line(ln))
		}
		if ln == target {
			emitBlock()
		}
	}
	return source.Render(out)
}

func renderPrepend(view *source.View, removed map[int]bool, n int, composedBlock string) string {
	var out []string
	out = append(out, strings.Split(composedBlock, "\n")...)
	out = append(out, "")
	for ln := 1; ln <= n; ln++ {
		if !removed[ln] {
			out = append(out, view.Line(ln))
		}
	}
	return source.Render(out)
}

// renderInlineSplice handles the directive-followed-by-code-on-the-same-line
// case: the composed block is spliced directly into that line's text,
// bracketed by blank lines, rather than inserted between two whole lines.
func renderInlineSplice(view *source.View, n, directiveLine int, composedBlock string) string {
	line := view.Line(directiveLine)
	splitAt := len(line)
	if i := strings.Index(line, ";"); i >= 0 {
		splitAt = i + 1
	}
	prefix, suffix := line[:splitAt], strings.TrimLeft(line[splitAt:], " \t")

	var out []string
	out = append(out, prefix, "")
	out = append(out, strings.Split(composedBlock, "\n")...)
	out = append(out, "")
	if suffix != "" {
		out = append(out, suffix)
	}
	for ln := directiveLine + 1; ln <= n; ln++ {
		out = append(out, view.Line(ln))
	}
	return source.Render(out)
}
