// Package exports implements static export analysis for project source
// files: given parsed top-level statements, determine which identifiers a
// file exports (as a whole-module ident, a promoted default, or a named
// prop), the way CommonJS's module.exports/exports.* assignments and ES
// export declarations are conventionally read by bundlers and the
// require()-graph tooling this project grew out of.
package exports

import (
	"regexp"
	"strings"

	"tools/importfix/jsast"
	"tools/importfix/source"
)

// Result is the static export surface of one source file.
type Result struct {
	Idents     []string
	Defaults   []string
	Props      []string
	HasDefault bool
}

type varState struct {
	props []string
}

// Analyze scans prog's top-level statements in source order and derives
// the file's export surface, tracking object-literal variables across
// statements so that "declare, then mutate, then export" sequences (and
// reassignment that resets accumulated props) are resolved correctly.
func Analyze(prog *jsast.Program, view *source.View) Result {
	a := &analyzer{vars: map[string]*varState{}}
	for _, stmt := range prog.TopLevelStatements() {
		text := strings.TrimSpace(jsast.StatementText(view, stmt))
		if text == "" {
			continue
		}
		a.step(text)
	}
	return a.result()
}

type analyzer struct {
	vars       map[string]*varState
	idents     []string
	defaults   []string
	props      []string
	hasDefault bool
}

func (a *analyzer) addIdent(name string)   { a.idents = appendUnique(a.idents, name) }
func (a *analyzer) addProp(name string)    { a.props = appendUnique(a.props, name) }
func (a *analyzer) addProps(names []string) {
	for _, n := range names {
		a.addProp(n)
	}
}

func appendUnique(list []string, name string) []string {
	for _, v := range list {
		if v == name {
			return list
		}
	}
	return append(list, name)
}

var (
	declEmptyOrLiteral = regexp.MustCompile(`(?s)^(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*\{(.*)\}\s*;?\s*$`)
	declAlias          = regexp.MustCompile(`^(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)
	reassignLiteral    = regexp.MustCompile(`(?s)^([A-Za-z_$][\w$]*)\s*=\s*\{(.*)\}\s*;?\s*$`)
	propMutate         = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$]*)\s*=`)

	meLiteral       = regexp.MustCompile(`(?s)^module\.exports\s*=\s*\{(.*)\}\s*;?\s*$`)
	meFunctionNamed = regexp.MustCompile(`^module\.exports\s*=\s*function\s+([A-Za-z_$][\w$]*)\s*\(`)
	meClassNamed    = regexp.MustCompile(`^module\.exports\s*=\s*class\s+([A-Za-z_$][\w$]*)\b`)
	meNew           = regexp.MustCompile(`^module\.exports\s*=\s*new\s+([A-Za-z_$][\w$]*)\s*\(`)
	meMember        = regexp.MustCompile(`^module\.exports\s*=\s*[A-Za-z_$][\w$]*\.([A-Za-z_$][\w$]*)\s*;?\s*$`)
	meIdent         = regexp.MustCompile(`^module\.exports\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)

	exportsPropAssign = regexp.MustCompile(`^(?:module\.)?exports\.([A-Za-z_$][\w$]*)\s*=\s*(.+?);?\s*$`)
	rhsIdentName      = regexp.MustCompile(`^(?:function\s+|class\s+)?([A-Za-z_$][\w$]*)\b`)

	exportDefaultFnOrClass = regexp.MustCompile(`^export\s+default\s+(?:function|class)\s+([A-Za-z_$][\w$]*)`)
	exportDefaultIdent     = regexp.MustCompile(`^export\s+default\s+([A-Za-z_$][\w$]*)\s*;?\s*$`)
	exportDefaultAny       = regexp.MustCompile(`^export\s+default\b`)
	exportNamedVar         = regexp.MustCompile(`^export\s+(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	exportNamedFunc        = regexp.MustCompile(`^export\s+function\s+([A-Za-z_$][\w$]*)`)
	exportNamedClass       = regexp.MustCompile(`^export\s+class\s+([A-Za-z_$][\w$]*)`)
	exportBraces           = regexp.MustCompile(`(?s)^export\s*\{(.*)\}\s*(?:from\s*["'][^"']+["'])?\s*;?\s*$`)
	exportType             = regexp.MustCompile(`^export\s+type\b`)
)

func (a *analyzer) step(text string) {
	switch {
	case exportType.MatchString(text):
		return

	case meLiteral.MatchString(text):
		m := meLiteral.FindStringSubmatch(text)
		a.addProps(objectLiteralKeys(m[1]))
		return

	case meFunctionNamed.MatchString(text):
		m := meFunctionNamed.FindStringSubmatch(text)
		a.addIdent(m[1])
		a.hasDefault = true
		return

	case meClassNamed.MatchString(text):
		m := meClassNamed.FindStringSubmatch(text)
		a.addIdent(m[1])
		a.hasDefault = true
		return

	case meNew.MatchString(text):
		m := meNew.FindStringSubmatch(text)
		a.addIdent(m[1])
		a.hasDefault = true
		return

	case meMember.MatchString(text):
		m := meMember.FindStringSubmatch(text)
		a.addIdent(m[1])
		a.hasDefault = true
		return

	case meIdent.MatchString(text):
		m := meIdent.FindStringSubmatch(text)
		name := m[1]
		a.addIdent(name)
		if vs, ok := a.vars[name]; ok {
			a.addProps(vs.props)
		}
		return

	case exportsPropAssign.MatchString(text):
		m := exportsPropAssign.FindStringSubmatch(text)
		prop, rhs := m[1], strings.TrimSpace(m[2])
		if prop == "default" {
			a.hasDefault = true
			if rm := rhsIdentName.FindStringSubmatch(rhs); rm != nil && !strings.HasPrefix(rhs, "{") {
				a.addIdent(rm[1])
			}
			return
		}
		a.addProp(prop)
		return

	case exportDefaultFnOrClass.MatchString(text):
		m := exportDefaultFnOrClass.FindStringSubmatch(text)
		a.hasDefault = true
		a.addIdent(m[1])
		return

	case exportDefaultIdent.MatchString(text):
		m := exportDefaultIdent.FindStringSubmatch(text)
		a.hasDefault = true
		a.addIdent(m[1])
		return

	case exportDefaultAny.MatchString(text):
		a.hasDefault = true
		return

	case exportNamedVar.MatchString(text):
		m := exportNamedVar.FindStringSubmatch(text)
		a.addProp(m[1])
		return

	case exportNamedFunc.MatchString(text):
		m := exportNamedFunc.FindStringSubmatch(text)
		a.addProp(m[1])
		return

	case exportNamedClass.MatchString(text):
		m := exportNamedClass.FindStringSubmatch(text)
		a.addProp(m[1])
		return

	case exportBraces.MatchString(text):
		m := exportBraces.FindStringSubmatch(text)
		for _, entry := range strings.Split(m[1], ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			local, exported := entry, entry
			if i := strings.Index(entry, " as "); i >= 0 {
				local = strings.TrimSpace(entry[:i])
				exported = strings.TrimSpace(entry[i+4:])
			}
			if exported == "default" {
				a.hasDefault = true
				a.addIdent(local)
				continue
			}
			a.addProp(exported)
		}
		return

	case declEmptyOrLiteral.MatchString(text):
		m := declEmptyOrLiteral.FindStringSubmatch(text)
		a.vars[m[1]] = &varState{props: objectLiteralKeys(m[2])}
		return

	case declAlias.MatchString(text):
		m := declAlias.FindStringSubmatch(text)
		dst, src := m[1], m[2]
		if vs, ok := a.vars[src]; ok {
			cp := append([]string(nil), vs.props...)
			a.vars[dst] = &varState{props: cp}
		} else {
			a.vars[dst] = &varState{}
		}
		return

	case reassignLiteral.MatchString(text):
		m := reassignLiteral.FindStringSubmatch(text)
		a.vars[m[1]] = &varState{props: objectLiteralKeys(m[2])}
		return

	case propMutate.MatchString(text):
		m := propMutate.FindStringSubmatch(text)
		obj, prop := m[1], m[2]
		if obj == "module" || obj == "exports" {
			return
		}
		if vs, ok := a.vars[obj]; ok {
			vs.props = appendUnique(vs.props, prop)
		}
		return
	}
}

var literalKeyRe = regexp.MustCompile(`(?:^|[,{])\s*(?:\.\.\.)?([A-Za-z_$][\w$]*)\s*(?::|\()`)

// objectLiteralKeys extracts the key names out of an object literal's body
// text (the substring between its outer braces). Keys of nested literals
// are not told apart from top-level ones and are returned too; this is a
// structural-detection heuristic, not a full parser.
func objectLiteralKeys(body string) []string {
	matches := literalKeyRe.FindAllStringSubmatch(body, -1)
	var out []string
	for _, m := range matches {
		out = appendUnique(out, m[1])
	}
	return out
}

func (a *analyzer) result() Result {
	return Result{
		Idents:     a.idents,
		Defaults:   a.defaults,
		Props:      a.props,
		HasDefault: a.hasDefault,
	}
}
