// Package jsast adapts goja's parser to the small surface the rest of
// importfix needs: syntax validation, top-level statement line spans, and
// leading-directive detection. Finer-grained shape classification (what an
// import/require statement actually binds, which identifiers a file
// exports) is done by regex over the sliced source text in the imports and
// exports packages, not by walking goja's AST node types — the AST here is
// only trusted for statement boundaries and positions.
package jsast

import (
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"

	"tools/importfix/source"
)

// Program wraps a parsed file: the AST program (whose File translates AST
// positions (file.Idx) into 1-indexed line numbers) plus the file name.
type Program struct {
	AST      *ast.Program
	Filename string
}

// Parse parses src and returns real syntax errors as a wrapped error, per
// the "abort the whole invocation" parse-error policy.
func Parse(filename, src string) (*Program, error) {
	prog, err := parser.ParseFile(nil, filename, src, 0)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &Program{AST: prog, Filename: filename}, nil
}

// Stmt describes one top-level statement's source span: a 1-indexed line
// range plus the 0-indexed byte column within the start/end lines, so that
// statements sharing a line with others can still be sliced precisely.
type Stmt struct {
	Node      ast.Statement
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// TopLevelStatements returns the program's top-level statements with their
// source span.
func (p *Program) TopLevelStatements() []Stmt {
	out := make([]Stmt, 0, len(p.AST.Body))
	for _, stmt := range p.AST.Body {
		sl, sc := p.posOf(stmt.Idx0())
		el, ec := p.posOf(stmt.Idx1() - 1)
		ec++ // Idx1()-1 points at the last char; make EndCol exclusive.
		if el < sl {
			el, ec = sl, sc
		}
		out = append(out, Stmt{Node: stmt, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec})
	}
	return out
}

func (p *Program) posOf(idx file.Idx) (line, col int) {
	if p.AST.File == nil {
		return 1, 0
	}
	pos := p.AST.File.Position(int(idx))
	if pos.Line <= 0 {
		return 1, 0
	}
	col = pos.Column - 1
	if col < 0 {
		col = 0
	}
	return pos.Line, col
}

func (p *Program) lineOf(idx file.Idx) int {
	line, _ := p.posOf(idx)
	return line
}

// LeadingDirective reports whether the file's first top-level statement is
// a bare string-literal expression statement (a directive prologue entry
// such as "use strict"), and if so returns its text and line span.
func (p *Program) LeadingDirective() (text string, start, end int, ok bool) {
	if len(p.AST.Body) == 0 {
		return "", 0, 0, false
	}
	exprStmt, isExpr := p.AST.Body[0].(*ast.ExpressionStatement)
	if !isExpr {
		return "", 0, 0, false
	}
	lit, isLit := exprStmt.Expression.(*ast.StringLiteral)
	if !isLit {
		return "", 0, 0, false
	}
	start = p.lineOf(exprStmt.Idx0())
	end = p.lineOf(exprStmt.Idx1() - 1)
	if end < start {
		end = start
	}
	return string(lit.Value), start, end, true
}

// StatementText slices a statement's exact source text out of view, using
// column offsets on the first/last line so that statements sharing a line
// with siblings (e.g. "const x = {}; x.a = 3;") are sliced independently
// rather than returning the whole shared line for each.
func StatementText(view *source.View, stmt Stmt) string {
	if stmt.StartLine == stmt.EndLine {
		return sliceCols(view.Line(stmt.StartLine), stmt.StartCol, stmt.EndCol)
	}
	lines := make([]string, 0, stmt.EndLine-stmt.StartLine+1)
	first := view.Line(stmt.StartLine)
	lines = append(lines, sliceCols(first, stmt.StartCol, len(first)))
	for n := stmt.StartLine + 1; n < stmt.EndLine; n++ {
		lines = append(lines, view.Line(n))
	}
	last := view.Line(stmt.EndLine)
	lines = append(lines, sliceCols(last, 0, stmt.EndCol))
	return strings.Join(lines, "\n")
}

func sliceCols(line string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(line) {
		end = len(line)
	}
	if start > len(line) {
		start = len(line)
	}
	if end < start {
		end = start
	}
	return line[start:end]
}
