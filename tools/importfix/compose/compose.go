// Package compose builds the sorted, style-consistent import block text
// from the merged set of libraries to add, the way the rewriter's final
// formatting stage works.
package compose

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"tools/importfix/style"
)

// Libs is the per-module target set the composer consumes: what
// identifiers, defaults, and named props must be bound from id.
type Libs struct {
	Idents   []string
	Defaults []string
	Props    []string
}

const maxLineLength = 80

// Compose builds the import block for libsToAdd (keyed by module id),
// relative to dir for file ids, in d's detected style. Returns "" if
// libsToAdd is empty.
func Compose(d style.Descriptor, dir string, libsToAdd map[string]Libs) (string, error) {
	if len(libsToAdd) == 0 {
		return "", nil
	}

	normalized := make(map[string]Libs, len(libsToAdd))
	for id, libs := range libsToAdd {
		normalized[normalizeID(dir, id)] = libs
	}

	var external, local []string
	for id := range normalized {
		if isLocalID(id) {
			local = append(local, id)
		} else {
			external = append(external, id)
		}
	}
	sortIDs(external)
	sortIDs(local)

	var lines []string
	emitGroup := func(ids []string) error {
		for _, id := range ids {
			libs := normalized[id]
			sort.Strings(libs.Idents)
			sort.Strings(libs.Defaults)
			sort.Strings(libs.Props)
			stmts, err := emit(d, id, libs)
			if err != nil {
				return err
			}
			lines = append(lines, stmts...)
		}
		return nil
	}
	if err := emitGroup(external); err != nil {
		return "", err
	}
	if len(external) > 0 && len(local) > 0 {
		lines = append(lines, "")
	}
	if err := emitGroup(local); err != nil {
		return "", err
	}

	return strings.Join(lines, "\n"), nil
}

func isLocalID(id string) bool {
	return strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../")
}

func normalizeID(dir, id string) string {
	if !filepath.IsAbs(id) {
		return id
	}
	rel, err := filepath.Rel(dir, id)
	if err != nil {
		rel = id
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		bi, bj := filepath.Base(ids[i]), filepath.Base(ids[j])
		if bi != bj {
			return bi < bj
		}
		return ids[i] < ids[j]
	})
}

func quoted(d style.Descriptor, id string) string {
	return d.Quote + id + d.Quote
}

func emit(d style.Descriptor, id string, libs Libs) ([]string, error) {
	if d.RequireKeyword == "require" {
		return emitRequireForm(d, id, libs), nil
	}
	return emitImportForm(d, id, libs), nil
}

func emitRequireForm(d style.Descriptor, id string, libs Libs) []string {
	var out []string
	q := quoted(d, id)
	for _, ident := range libs.Idents {
		out = append(out, fmt.Sprintf("%s %s = require(%s)%s", d.Kind, ident, q, d.Semi))
	}
	for _, def := range libs.Defaults {
		out = append(out, fmt.Sprintf("%s %s = require(%s).default%s", d.Kind, def, q, d.Semi))
	}
	if len(libs.Props) > 0 {
		out = append(out, requirePropsStatement(d, id, libs.Props))
	}
	return out
}

func requirePropsStatement(d style.Descriptor, id string, props []string) string {
	q := quoted(d, id)
	oneLine := fmt.Sprintf("%s { %s } = require(%s)%s", d.Kind, strings.Join(props, ", "), q, d.Semi)
	if len(oneLine) <= maxLineLength {
		return oneLine
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", d.Kind)
	for i, p := range props {
		sep := ","
		if i == len(props)-1 {
			sep = d.TrailingComma
		}
		fmt.Fprintf(&b, "%s%s%s\n", d.Tab, p, sep)
	}
	fmt.Fprintf(&b, "} = require(%s)%s", q, d.Semi)
	return b.String()
}

func emitImportForm(d style.Descriptor, id string, libs Libs) []string {
	var out []string
	q := quoted(d, id)
	defaults := append([]string(nil), libs.Defaults...)
	idents := append([]string(nil), libs.Idents...)

	if len(libs.Props) > 0 {
		var def string
		if len(defaults) > 0 {
			def, defaults = defaults[0], defaults[1:]
		}
		out = append(out, importWithPropsStatement(d, id, def, libs.Props))
	}

	for len(defaults) > 0 || len(idents) > 0 {
		var def, ident string
		have := false
		if len(defaults) > 0 {
			def, defaults = defaults[0], defaults[1:]
			have = true
		}
		if len(idents) > 0 {
			ident, idents = idents[0], idents[1:]
			have = true
		}
		if !have {
			break
		}
		out = append(out, importPairStatement(d, q, def, ident))
	}

	return out
}

func importWithPropsStatement(d style.Descriptor, id, def string, props []string) string {
	q := quoted(d, id)
	prefix := ""
	if def != "" {
		prefix = def + ", "
	}
	oneLine := fmt.Sprintf("import %s{ %s } from %s%s", prefix, strings.Join(props, ", "), q, d.Semi)
	if len(oneLine) <= maxLineLength {
		return oneLine
	}
	var b strings.Builder
	fmt.Fprintf(&b, "import %s{\n", prefix)
	for i, p := range props {
		sep := ","
		if i == len(props)-1 {
			sep = d.TrailingComma
		}
		fmt.Fprintf(&b, "%s%s%s\n", d.Tab, p, sep)
	}
	fmt.Fprintf(&b, "} from %s%s", q, d.Semi)
	return b.String()
}

func importPairStatement(d style.Descriptor, q, def, ident string) string {
	switch {
	case def != "" && ident != "":
		return fmt.Sprintf("import %s, * as %s from %s%s", def, ident, q, d.Semi)
	case def != "":
		return fmt.Sprintf("import %s from %s%s", def, q, d.Semi)
	default:
		return fmt.Sprintf("import * as %s from %s%s", ident, q, d.Semi)
	}
}
