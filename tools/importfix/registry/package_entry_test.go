package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writePackage(t *testing.T, dir string, packageJSON string, entryFiles ...string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(packageJSON), 0o644); err != nil {
		t.Fatalf("write package.json: %v", err)
	}
	for _, f := range entryFiles {
		full := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("module.exports = {};\n"), 0o644); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
}

func TestResolvePackageEntry_ConditionalExportsRoot(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, `{
		"name": "mod",
		"exports": {
			"require": "./index.cjs.js",
			"import": "./index.esm.js"
		}
	}`, "index.cjs.js", "index.esm.js")

	if got := resolvePackageEntry(dir, ".", "node"); got != filepath.Join(dir, "index.cjs.js") {
		t.Errorf("resolvePackageEntry(node) = %q, want index.cjs.js", got)
	}
}

func TestResolvePackageEntry_SubpathExports(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, `{
		"name": "mod",
		"exports": {
			".": "./index.js",
			"./util": "./lib/util.js"
		}
	}`, "index.js", "lib/util.js")

	if got := resolvePackageEntry(dir, "./util", "node"); got != filepath.Join(dir, "lib/util.js") {
		t.Errorf("resolvePackageEntry(./util) = %q, want lib/util.js", got)
	}
}

func TestResolvePackageEntry_WildcardSubpath(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, `{
		"name": "mod",
		"exports": {
			"./lib/*": "./dist/lib/*.js"
		}
	}`, "dist/lib/widget.js")

	if got := resolvePackageEntry(dir, "./lib/widget", "node"); got != filepath.Join(dir, "dist/lib/widget.js") {
		t.Errorf("resolvePackageEntry(./lib/widget) = %q, want dist/lib/widget.js", got)
	}
}

func TestResolvePackageEntry_ArrayFallback(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, `{
		"name": "mod",
		"exports": {
			".": ["./missing.js", "./index.js"]
		}
	}`, "index.js")

	if got := resolvePackageEntry(dir, ".", "node"); got != filepath.Join(dir, "index.js") {
		t.Errorf("resolvePackageEntry(array fallback) = %q, want index.js", got)
	}
}

func TestResolvePackageEntry_FallsBackToMainWhenNoExports(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, `{"name": "mod", "main": "./lib/main.js"}`, "lib/main.js")

	if got := resolvePackageEntry(dir, ".", "node"); got != filepath.Join(dir, "lib/main.js") {
		t.Errorf("resolvePackageEntry(main fallback) = %q, want lib/main.js", got)
	}
}

func TestResolvePackageEntry_NoPackageJSON(t *testing.T) {
	dir := t.TempDir()
	if got := resolvePackageEntry(dir, ".", "node"); got != "" {
		t.Errorf("resolvePackageEntry(no package.json) = %q, want empty", got)
	}
}
