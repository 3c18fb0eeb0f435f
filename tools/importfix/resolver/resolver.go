// Package resolver computes the set of free identifiers a file references
// but never declares, diffed against identifiers already satisfied by
// existing imports. Like the rest of this project's structural analysis,
// it works over the raw source text with regexes rather than a full
// scope-graph walk (see jsast and imports for the same tradeoff), which is
// adequate for the declaration shapes a real project actually uses.
package resolver

import (
	"regexp"
	"strings"

	"tools/importfix/imports"
)

// reservedWords are never free identifiers: language keywords, literals,
// and a handful of always-available ambient globals.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"let": true, "static": true, "await": true, "async": true, "enum": true,
	"implements": true, "interface": true, "package": true, "private": true,
	"protected": true, "public": true, "true": true, "false": true,
	"null": true, "undefined": true, "get": true, "set": true, "of": true,
	"from": true, "as": true,
	"console": true, "process": true, "global": true, "globalThis": true,
	"module": true, "exports": true, "require": true, "arguments": true,
	"Object": true, "Array": true, "String": true, "Number": true,
	"Boolean": true, "Symbol": true, "Promise": true, "Map": true, "Set": true,
	"Error": true, "TypeError": true, "RangeError": true, "JSON": true,
	"Math": true, "Date": true, "RegExp": true, "Proxy": true, "Reflect": true,
	"WeakMap": true, "WeakSet": true, "Infinity": true, "NaN": true,
}

var identTokenRe = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

var (
	declKeyword    = regexp.MustCompile(`\b(?:var|let|const)\s+([A-Za-z_$][\w$]*)`)
	destructureObj = regexp.MustCompile(`\b(?:var|let|const)\s*\{([^}]*)\}\s*=`)
	destructureArr = regexp.MustCompile(`\b(?:var|let|const)\s*\[([^\]]*)\]\s*=`)
	functionDecl   = regexp.MustCompile(`\bfunction\s*\*?\s+([A-Za-z_$][\w$]*)`)
	functionParams = regexp.MustCompile(`\bfunction\s*\*?\s*[A-Za-z_$]*\s*\(([^)]*)\)`)
	arrowParamsMul = regexp.MustCompile(`\(([^)]*)\)\s*=>`)
	arrowParamsOne = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*=>`)
	classDecl      = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)
	catchParam     = regexp.MustCompile(`\bcatch\s*\(\s*([A-Za-z_$][\w$]*)\s*\)`)
)

// Resolve returns the deduplicated free identifiers, in order of first
// occurrence, referenced in text but satisfied neither by an in-file
// declaration nor by existing.
func Resolve(text string, existing []imports.Existing) []string {
	declared := collectDeclared(text)
	for _, ex := range existing {
		for _, n := range ex.Idents {
			declared[n] = true
		}
		for _, n := range ex.Defaults {
			declared[n] = true
		}
		for _, n := range ex.Props {
			declared[n] = true
		}
	}

	assignedUndeclared := collectUndeclaredAssignmentTargets(text, declared)

	var out []string
	seen := map[string]bool{}
	for _, ref := range collectReferences(text) {
		name := ref.name
		if reservedWords[name] || declared[name] || ref.isProperty || ref.isTypeofOperand || ref.isObjectKey {
			continue
		}
		if assignedUndeclared[name] {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func collectDeclared(text string) map[string]bool {
	declared := map[string]bool{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			declared[s] = true
		}
	}

	for _, m := range declKeyword.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range classDecl.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range functionDecl.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range catchParam.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range destructureObj.FindAllStringSubmatch(text, -1) {
		for _, entry := range strings.Split(m[1], ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if i := strings.Index(entry, ":"); i >= 0 {
				entry = entry[i+1:]
			}
			if i := strings.Index(entry, "="); i >= 0 {
				entry = entry[:i]
			}
			add(strings.TrimSpace(entry))
		}
	}
	for _, m := range destructureArr.FindAllStringSubmatch(text, -1) {
		for _, entry := range strings.Split(m[1], ",") {
			entry = strings.TrimSpace(entry)
			if i := strings.Index(entry, "="); i >= 0 {
				entry = entry[:i]
			}
			add(strings.TrimSpace(entry))
		}
	}
	for _, m := range functionParams.FindAllStringSubmatch(text, -1) {
		addParamNames(declared, m[1])
	}
	for _, m := range arrowParamsMul.FindAllStringSubmatch(text, -1) {
		addParamNames(declared, m[1])
	}
	for _, m := range arrowParamsOne.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	return declared
}

func addParamNames(declared map[string]bool, paramList string) {
	for _, p := range strings.Split(paramList, ",") {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "...")
		if i := strings.Index(p, "="); i >= 0 {
			p = p[:i]
		}
		if i := strings.Index(p, ":"); i >= 0 {
			// destructured param with rename, e.g. "{ b: renamed }": the
			// bound name is what follows the colon, not the source key.
			p = p[i+1:]
		}
		p = strings.TrimSpace(p)
		if m := identTokenRe.FindString(p); m != "" {
			declared[m] = true
		}
	}
}

var simpleAssignRe = regexp.MustCompile(`(?:^|[;{}\n]|\n)\s*([A-Za-z_$][\w$]*)\s*=(?:[^=>]|$)`)

// collectUndeclaredAssignmentTargets finds bare identifiers written to
// without a declaration keyword and not already declared elsewhere — a
// write to an undeclared variable, which is legal without the identifier
// being "referenced" in the resolver's sense.
func collectUndeclaredAssignmentTargets(text string, declared map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, m := range simpleAssignRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if !declared[name] {
			out[name] = true
		}
	}
	return out
}

type reference struct {
	name            string
	isProperty      bool
	isTypeofOperand bool
	isObjectKey     bool
}

// collectReferences scans text for identifier tokens, tagging each with
// enough context to apply the property-access, typeof-operand, and
// object-literal-key exclusions.
func collectReferences(text string) []reference {
	var out []reference
	locs := identTokenRe.FindAllStringIndex(text, -1)
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		name := text[start:end]

		isProperty := start > 0 && text[start-1] == '.'

		isTypeof := false
		if start >= 7 {
			prefix := text[:start]
			trimmed := strings.TrimRight(prefix, " \t")
			if strings.HasSuffix(trimmed, "typeof") {
				isTypeof = true
			}
		}

		isObjectKey := false
		rest := strings.TrimLeft(text[end:], " \t")
		if strings.HasPrefix(rest, ":") && !strings.HasPrefix(rest, "::") {
			before := strings.TrimRight(text[:start], " \t\n")
			if strings.HasSuffix(before, "{") || strings.HasSuffix(before, ",") {
				isObjectKey = true
			}
		}

		out = append(out, reference{name: name, isProperty: isProperty, isTypeofOperand: isTypeof, isObjectKey: isObjectKey})
	}
	return out
}
