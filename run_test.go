package importfix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tools/importfix/registry"
)

func TestRun_AddsMissingBuiltinImport(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { registry.ClearCache(dir) })
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write package.json: %v", err)
	}

	code := "fs.readFileSync();\n"
	mgr := registry.NewManager()

	got, err := Run(context.Background(), mgr, dir, filepath.Join(dir, "app.js"), code, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "import * as fs from \"fs\";\n\nfs.readFileSync();\n"
	if got != want {
		t.Errorf("Run() =\n%q\nwant\n%q", got, want)
	}
}

func TestRun_NoFreeIdentifiersLeavesSourceIntact(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { registry.ClearCache(dir) })
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write package.json: %v", err)
	}

	code := "function add(a, b) {\n  return a + b;\n}\n"
	mgr := registry.NewManager()

	got, err := Run(context.Background(), mgr, dir, filepath.Join(dir, "app.js"), code, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != code {
		t.Errorf("Run() = %q, want unchanged %q", got, code)
	}
}

func TestAnalyze_ReturnsFileExportSurface(t *testing.T) {
	got, err := Analyze("widget.js", `module.exports = { render: function() {} };`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got.Props) != 1 || got.Props[0] != "render" {
		t.Errorf("Props = %v, want [render]", got.Props)
	}
}
