package resolver

import (
	"reflect"
	"sort"
	"testing"

	"tools/importfix/imports"
)

func resolveSorted(text string, existing []imports.Existing) []string {
	out := append([]string(nil), Resolve(text, existing)...)
	sort.Strings(out)
	return out
}

func TestResolve_SkipsDeclaredAndReserved(t *testing.T) {
	text := "function useThing() {\n  const x = 1;\n  return foo(x) + console.log(bar);\n}\n"
	got := resolveSorted(text, nil)
	want := []string{"bar", "foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_SatisfiedByExisting(t *testing.T) {
	text := "foo(bar);\n"
	existing := []imports.Existing{{DepID: "bar", Idents: []string{"bar"}}}
	got := resolveSorted(text, existing)
	want := []string{"foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_IgnoresPropertyAccessAndTypeof(t *testing.T) {
	text := "const a = foo.bar.baz;\nconst b = typeof qux;\n"
	got := resolveSorted(text, nil)
	want := []string{"foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_IgnoresObjectLiteralKeys(t *testing.T) {
	text := "const obj = { widget: widget, other: 1 };\n"
	got := resolveSorted(text, nil)
	want := []string{"widget"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_DestructuredParamsAreDeclared(t *testing.T) {
	text := "function render({ a, b: renamed }) {\n  return a + renamed;\n}\n"
	got := resolveSorted(text, nil)
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty", got)
	}
}

func TestResolve_UndeclaredAssignmentTargetNotAFreeReference(t *testing.T) {
	text := "counter = counter + 1;\n"
	got := resolveSorted(text, nil)
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty", got)
	}
}
