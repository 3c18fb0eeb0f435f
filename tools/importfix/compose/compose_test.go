package compose

import (
	"testing"

	"tools/importfix/style"
)

func TestCompose_SortedMultilineFallback(t *testing.T) {
	d := style.Descriptor{
		RequireKeyword: "require",
		Kind:           "const",
		Quote:          `"`,
		Semi:           ";",
		Tab:            "  ",
		TrailingComma:  ",",
	}
	libs := map[string]Libs{
		"mod": {Props: []string{"ffffffffff", "aaa", "ccc", "eeeeeeeeee", "bbb", "dddddddddd"}},
	}

	got, err := Compose(d, "/project", libs)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := "const {\n" +
		"  aaa,\n" +
		"  bbb,\n" +
		"  ccc,\n" +
		"  dddddddddd,\n" +
		"  eeeeeeeeee,\n" +
		"  ffffffffff,\n" +
		"} = require(\"mod\");"
	if got != want {
		t.Errorf("Compose() =\n%q\nwant\n%q", got, want)
	}
}

func TestCompose_EmptyLibsToAdd(t *testing.T) {
	got, err := Compose(style.Default(), "/project", map[string]Libs{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got != "" {
		t.Errorf("Compose() = %q, want empty", got)
	}
}

func TestCompose_GroupsExternalThenLocal(t *testing.T) {
	d := style.Descriptor{RequireKeyword: "require", Kind: "const", Quote: `"`, Semi: ";", Tab: "  ", TrailingComma: ""}
	libs := map[string]Libs{
		"bar":                   {Idents: []string{"bar"}},
		"/project/src/local.js": {Idents: []string{"local"}},
	}
	got, err := Compose(d, "/project", libs)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := "const bar = require(\"bar\");\n\nconst local = require(\"./src/local.js\");"
	if got != want {
		t.Errorf("Compose() =\n%q\nwant\n%q", got, want)
	}
}
