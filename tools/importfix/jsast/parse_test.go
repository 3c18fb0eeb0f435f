package jsast

import (
	"testing"

	"tools/importfix/source"
)

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("fixture.js", "const x = ;\n")
	if err == nil {
		t.Fatal("Parse() error = nil, want non-nil")
	}
}

func TestTopLevelStatements_MultiplePerLine(t *testing.T) {
	src := "const x = {}; x.a = 3; x.b = () => {};\n"
	prog, err := Parse("fixture.js", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmts := prog.TopLevelStatements()
	if len(stmts) != 3 {
		t.Fatalf("TopLevelStatements() = %d statements, want 3", len(stmts))
	}
	view := source.New(src)
	want := []string{"const x = {};", "x.a = 3;", "x.b = () => {};"}
	for i, stmt := range stmts {
		got := StatementText(view, stmt)
		if got != want[i] {
			t.Errorf("StatementText(stmt[%d]) = %q, want %q", i, got, want[i])
		}
	}
}

func TestStatementText_MultiLine(t *testing.T) {
	src := "function foo() {\n  return 1;\n}\n"
	prog, err := Parse("fixture.js", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmts := prog.TopLevelStatements()
	if len(stmts) != 1 {
		t.Fatalf("TopLevelStatements() = %d statements, want 1", len(stmts))
	}
	view := source.New(src)
	got := StatementText(view, stmts[0])
	want := "function foo() {\n  return 1;\n}"
	if got != want {
		t.Errorf("StatementText() = %q, want %q", got, want)
	}
}

func TestLeadingDirective(t *testing.T) {
	src := "\"use strict\";\nfoo();\n"
	prog, err := Parse("fixture.js", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	text, start, end, ok := prog.LeadingDirective()
	if !ok {
		t.Fatal("LeadingDirective() ok = false, want true")
	}
	if text != "use strict" {
		t.Errorf("text = %q, want %q", text, "use strict")
	}
	if start != 1 || end != 1 {
		t.Errorf("start,end = %d,%d, want 1,1", start, end)
	}
}

func TestLeadingDirective_NoneWhenFirstStatementIsNotAString(t *testing.T) {
	src := "foo();\n"
	prog, err := Parse("fixture.js", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, _, ok := prog.LeadingDirective(); ok {
		t.Error("LeadingDirective() ok = true, want false")
	}
}
