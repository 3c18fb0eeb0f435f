package probe

import (
	"reflect"
	"sort"
	"testing"
)

func TestExports_ObjectAssignment(t *testing.T) {
	got, err := Exports(`module.exports = { a: 1, b: function() {} };`)
	if err != nil {
		t.Fatalf("Exports: %v", err)
	}
	sort.Strings(got.Props)
	if !reflect.DeepEqual(got.Props, []string{"a", "b"}) {
		t.Errorf("Props = %v, want [a b]", got.Props)
	}
	if got.HasDefault {
		t.Errorf("HasDefault = true, want false")
	}
}

func TestExports_EsInteropDefault(t *testing.T) {
	got, err := Exports(`module.exports = { __esModule: true, default: function Widget() {}, named: 1 };`)
	if err != nil {
		t.Fatalf("Exports: %v", err)
	}
	if !got.HasDefault {
		t.Errorf("HasDefault = false, want true")
	}
	if !reflect.DeepEqual(got.Props, []string{"named"}) {
		t.Errorf("Props = %v, want [named]", got.Props)
	}
}

func TestExports_RequireThrowsIsSwallowedAsError(t *testing.T) {
	_, err := Exports(`const x = require("fs");`)
	if err == nil {
		t.Fatal("Exports() error = nil, want non-nil")
	}
}

func TestExports_NoAssignmentYieldsEmptyResult(t *testing.T) {
	got, err := Exports(`const x = 1;`)
	if err != nil {
		t.Fatalf("Exports: %v", err)
	}
	if len(got.Props) != 0 || got.HasDefault {
		t.Errorf("Result = %+v, want zero value", got)
	}
}

func TestExports_SyntaxErrorReturnsError(t *testing.T) {
	_, err := Exports(`module.exports = ;`)
	if err == nil {
		t.Fatal("Exports() error = nil, want non-nil")
	}
}
