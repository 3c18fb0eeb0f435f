package exports

import (
	"reflect"
	"sort"
	"testing"

	"tools/importfix/jsast"
	"tools/importfix/source"
)

func analyzeText(t *testing.T, code string) Result {
	t.Helper()
	prog, err := jsast.Parse("fixture.js", code)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	view := source.New(code)
	return Analyze(prog, view)
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestAnalyze_PromoteToDefault(t *testing.T) {
	got := analyzeText(t, `module.exports = function foo() {};`)
	if !got.HasDefault {
		t.Errorf("HasDefault = false, want true")
	}
	if !reflect.DeepEqual(sorted(got.Idents), []string{"foo"}) {
		t.Errorf("Idents = %v, want [foo]", got.Idents)
	}
}

func TestAnalyze_ObjectLiteral(t *testing.T) {
	got := analyzeText(t, `module.exports = { a: 3, b() {}, c: true };`)
	if !reflect.DeepEqual(sorted(got.Props), []string{"a", "b", "c"}) {
		t.Errorf("Props = %v, want [a b c]", got.Props)
	}
	if len(got.Idents) != 0 {
		t.Errorf("Idents = %v, want empty", got.Idents)
	}
}

func TestAnalyze_AssignThenMutate(t *testing.T) {
	got := analyzeText(t, `const x = {}; x.a = 3; x.b = () => {}; x.c = true; module.exports = x;`)
	if !reflect.DeepEqual(sorted(got.Idents), []string{"x"}) {
		t.Errorf("Idents = %v, want [x]", got.Idents)
	}
	if !reflect.DeepEqual(sorted(got.Props), []string{"a", "b", "c"}) {
		t.Errorf("Props = %v, want [a b c]", got.Props)
	}
}

func TestAnalyze_OverwriteResets(t *testing.T) {
	got := analyzeText(t, `const x = {}; x.a=3; x.b=()=>{}; x.c=true; x={d:"hi"}; const y=x; module.exports=y;`)
	if !reflect.DeepEqual(sorted(got.Idents), []string{"y"}) {
		t.Errorf("Idents = %v, want [y]", got.Idents)
	}
	if !reflect.DeepEqual(sorted(got.Props), []string{"d"}) {
		t.Errorf("Props = %v, want [d]", got.Props)
	}
}

func TestAnalyze_ESNamedAndDefault(t *testing.T) {
	got := analyzeText(t, "export const a = 1;\nexport function b() {}\nexport default class Widget {}\n")
	if !got.HasDefault {
		t.Errorf("HasDefault = false, want true")
	}
	if !reflect.DeepEqual(sorted(got.Props), []string{"a", "b"}) {
		t.Errorf("Props = %v, want [a b]", got.Props)
	}
	if !reflect.DeepEqual(sorted(got.Idents), []string{"Widget"}) {
		t.Errorf("Idents = %v, want [Widget]", got.Idents)
	}
}

func TestAnalyze_ExportBracesRename(t *testing.T) {
	got := analyzeText(t, `const inner = 1; export { inner as outer, inner as default };`)
	if !got.HasDefault {
		t.Errorf("HasDefault = false, want true")
	}
	if !reflect.DeepEqual(sorted(got.Props), []string{"outer"}) {
		t.Errorf("Props = %v, want [outer]", got.Props)
	}
	if !reflect.DeepEqual(sorted(got.Idents), []string{"inner"}) {
		t.Errorf("Idents = %v, want [inner]", got.Idents)
	}
}
