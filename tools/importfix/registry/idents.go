package registry

import (
	"path"
	"regexp"
	"strings"
)

var (
	validIdentRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	wordSplitRe  = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// isFileID reports whether id names a project-local file rather than a
// package (file ids are absolute paths or start with a relative prefix).
func isFileID(id string) bool {
	return strings.HasPrefix(id, "/") || strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../")
}

// baseNameFor computes the "base" string an id's identifiers derive from:
// the whole id if it has no slash, else basename(id) (extension stripped
// for file ids).
func baseNameFor(id string) string {
	if !strings.Contains(id, "/") {
		return id
	}
	base := path.Base(id)
	if isFileID(id) {
		if ext := path.Ext(base); ext != "" {
			base = strings.TrimSuffix(base, ext)
		}
	}
	return base
}

// deriveIdents returns the set of identifier spellings an id contributes:
// the base itself (if already a valid identifier), its camelCase form, and
// its PascalCase form, deduplicated.
func deriveIdents(id string) []string {
	base := baseNameFor(id)

	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	if validIdentRe.MatchString(base) {
		add(base)
	}

	words := wordSplitRe.Split(base, -1)
	var nonEmpty []string
	for _, w := range words {
		if w != "" {
			nonEmpty = append(nonEmpty, w)
		}
	}
	if len(nonEmpty) == 0 {
		return out
	}

	camel := strings.ToLower(nonEmpty[0])
	pascalFirst := titleCase(nonEmpty[0])
	for _, w := range nonEmpty[1:] {
		camel += titleCase(w)
		pascalFirst += titleCase(w)
	}
	add(camel)
	add(pascalFirst)

	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
