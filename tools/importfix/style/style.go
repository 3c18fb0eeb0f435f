// Package style detects the import-block formatting conventions already in
// use in a source file, so the rewriter can emit statements that blend in
// rather than impose a single house style.
package style

import (
	"regexp"
	"strings"
)

// Descriptor bundles the formatting choices read off an existing file.
type Descriptor struct {
	RequireKeyword string // "require" or "import"
	Kind           string // "const", "let", "var" — declaration keyword for require() forms
	Quote          string // "'" or `"`
	Semi           string // ";" or ""
	Tab            string // indentation unit, e.g. "  " or "\t"
	TrailingComma  string // "," or ""
}

// Default mirrors the most common convention seen across the corpus:
// double-quoted ES imports, semicolons, two-space indent, trailing commas.
func Default() Descriptor {
	return Descriptor{
		RequireKeyword: "import",
		Kind:           "const",
		Quote:          `"`,
		Semi:           ";",
		Tab:            "  ",
		TrailingComma:  ",",
	}
}

var (
	requireRe      = regexp.MustCompile(`\brequire\s*\(`)
	importRe       = regexp.MustCompile(`^\s*import\b`)
	declKindRe     = regexp.MustCompile(`\b(const|let|var)\s+[\w${]`)
	singleQuoteRe  = regexp.MustCompile(`require\(\s*'`)
	doubleQuoteRe  = regexp.MustCompile(`require\(\s*"`)
	importSingleRe = regexp.MustCompile(`from\s*'`)
	importDoubleRe = regexp.MustCompile(`from\s*"`)
	tabIndentRe    = regexp.MustCompile(`(?m)^\t`)
	spaceIndentRe  = regexp.MustCompile(`(?m)^( +)\S`)
	trailingCommaRe = regexp.MustCompile(`,\s*\n\s*[)\]}]`)
)

// Detect scans the whole file text and votes on each convention, falling
// back to Default()'s value whenever a convention isn't observed anywhere
// (e.g. a brand-new file with no imports at all).
func Detect(text string) Descriptor {
	d := Default()

	reqCount := len(requireRe.FindAllString(text, -1))
	impCount := 0
	for _, line := range strings.Split(text, "\n") {
		if importRe.MatchString(line) {
			impCount++
		}
	}
	if reqCount > 0 || impCount > 0 {
		if reqCount >= impCount {
			d.RequireKeyword = "require"
		} else {
			d.RequireKeyword = "import"
		}
	}

	if m := declKindRe.FindStringSubmatch(text); m != nil {
		d.Kind = m[1]
	}

	switch {
	case d.RequireKeyword == "require":
		single := len(singleQuoteRe.FindAllString(text, -1))
		double := len(doubleQuoteRe.FindAllString(text, -1))
		if single > double {
			d.Quote = "'"
		} else if double > 0 {
			d.Quote = `"`
		}
	default:
		single := len(importSingleRe.FindAllString(text, -1))
		double := len(importDoubleRe.FindAllString(text, -1))
		if single > double {
			d.Quote = "'"
		} else if double > 0 {
			d.Quote = `"`
		}
	}

	if hasUnsemicolonedStatements(text) {
		d.Semi = ""
	}

	if tabIndentRe.MatchString(text) {
		d.Tab = "\t"
	} else if m := spaceIndentRe.FindStringSubmatch(text); m != nil {
		d.Tab = m[1]
	}

	if trailingCommaRe.MatchString(text) {
		d.TrailingComma = ","
	} else if strings.Contains(text, "require(") || strings.Contains(text, "import ") {
		d.TrailingComma = ""
	}

	return d
}

// hasUnsemicolonedStatements is a light heuristic: it reports a
// no-semicolon style when no line ends with a semicolon and at least one
// line ending in ")" (a require(...) call, or a line starting with ")")
// does not. Lines that are clearly continuations or blocks are ignored.
func hasUnsemicolonedStatements(text string) bool {
	lines := strings.Split(text, "\n")
	var withSemi, withoutSemi int
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			continue
		}
		last := trimmed[len(trimmed)-1]
		switch last {
		case ';':
			withSemi++
		case '{', '(', '[', ',', '&', '|', '.':
			// continuation, ignore
		case ')':
			if strings.Contains(trimmed, "require(") || strings.HasPrefix(strings.TrimSpace(trimmed), ")") {
				withoutSemi++
			}
		}
	}
	return withoutSemi > 0 && withSemi == 0
}
