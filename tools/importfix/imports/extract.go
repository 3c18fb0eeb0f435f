// Package imports extracts the existing import/require statements from a
// parsed file so the rewriter knows which source lines to remove and which
// identifiers are already satisfied. Classification is done by regex over
// each top-level statement's sliced source text rather than by an AST
// type-switch, mirroring the teacher's own approach to CommonJS/ESM shape
// detection (see esmdev/imports.go, esmdev/cjs_fixup.go in the reference
// tree this project grew out of).
package imports

import (
	"regexp"
	"strings"

	"tools/importfix/jsast"
	"tools/importfix/source"
)

// Existing is one already-present import or require statement.
type Existing struct {
	StartLine int
	EndLine   int
	DepID     string
	Idents    []string
	Defaults  []string
	Props     []string
}

var (
	esmDefaultOnly   = regexp.MustCompile(`^import\s+([A-Za-z_$][\w$]*)\s+from\s*["']([^"']+)["']\s*;?\s*$`)
	esmNamespace     = regexp.MustCompile(`^import\s*\*\s*as\s+([A-Za-z_$][\w$]*)\s+from\s*["']([^"']+)["']\s*;?\s*$`)
	esmDefaultNS     = regexp.MustCompile(`^import\s+([A-Za-z_$][\w$]*)\s*,\s*\*\s*as\s+([A-Za-z_$][\w$]*)\s+from\s*["']([^"']+)["']\s*;?\s*$`)
	esmNamedOnly     = regexp.MustCompile(`(?s)^import\s*\{([^}]*)\}\s*from\s*["']([^"']+)["']\s*;?\s*$`)
	esmDefaultNamed  = regexp.MustCompile(`(?s)^import\s+([A-Za-z_$][\w$]*)\s*,\s*\{([^}]*)\}\s*from\s*["']([^"']+)["']\s*;?\s*$`)
	esmSideEffect    = regexp.MustCompile(`^import\s*["']([^"']+)["']\s*;?\s*$`)
	cjsIdent         = regexp.MustCompile(`^(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\(\s*["']([^"']+)["']\s*\)\s*;?\s*$`)
	cjsDefault       = regexp.MustCompile(`^(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\(\s*["']([^"']+)["']\s*\)\.default\s*;?\s*$`)
	cjsProps         = regexp.MustCompile(`(?s)^(?:const|let|var)\s*\{([^}]*)\}\s*=\s*require\(\s*["']([^"']+)["']\s*\)\s*;?\s*$`)
)

// Extract walks the program's top-level statements and returns those that
// are import/require forms, in source order.
func Extract(prog *jsast.Program, view *source.View) []Existing {
	var out []Existing
	for _, stmt := range prog.TopLevelStatements() {
		text := jsast.StatementText(view, stmt)
		if ex, ok := classify(text, stmt.StartLine, stmt.EndLine); ok {
			out = append(out, ex)
		}
	}
	return out
}

func classify(text string, start, end int) (Existing, bool) {
	text = strings.TrimSpace(text)

	if m := esmDefaultNamed.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[3], Defaults: []string{m[1]}, Props: splitProps(m[2])}, true
	}
	if m := esmNamedOnly.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[2], Props: splitProps(m[1])}, true
	}
	if m := esmDefaultNS.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[3], Defaults: []string{m[1]}, Idents: []string{m[2]}}, true
	}
	if m := esmNamespace.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[2], Idents: []string{m[1]}}, true
	}
	if m := esmDefaultOnly.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[2], Defaults: []string{m[1]}}, true
	}
	if m := esmSideEffect.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[1]}, true
	}
	if m := cjsDefault.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[2], Defaults: []string{m[1]}}, true
	}
	if m := cjsProps.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[2], Props: splitDestructureProps(m[1])}, true
	}
	if m := cjsIdent.FindStringSubmatch(text); m != nil {
		return Existing{StartLine: start, EndLine: end, DepID: m[2], Idents: []string{m[1]}}, true
	}
	return Existing{}, false
}

// splitProps parses an ES named-import clause body "a, b as c" into the
// locally-bound names (the post-`as` alias, or the name itself).
func splitProps(body string) []string {
	parts := strings.Split(body, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i := strings.Index(p, " as "); i >= 0 {
			out = append(out, strings.TrimSpace(p[i+4:]))
		} else {
			out = append(out, p)
		}
	}
	return out
}

// splitDestructureProps parses a CJS object-destructure body
// "a, b: c" into locally-bound names.
func splitDestructureProps(body string) []string {
	parts := strings.Split(body, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i := strings.Index(p, ":"); i >= 0 {
			out = append(out, strings.TrimSpace(p[i+1:]))
		} else {
			out = append(out, p)
		}
	}
	return out
}
