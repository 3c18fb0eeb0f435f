package verify

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
)

func TestParse_ValidSourceHasNoError(t *testing.T) {
	if err := Parse("app.js", "const x = 1;\nconsole.log(x);\n"); err != nil {
		t.Errorf("Parse() = %v, want nil", err)
	}
}

func TestParse_SyntaxErrorIsReported(t *testing.T) {
	err := Parse("app.js", "const x = ;\n")
	if err == nil {
		t.Fatal("Parse() = nil, want an error")
	}
}

func TestParse_TypeScriptLoaderSelectedByExtension(t *testing.T) {
	if err := Parse("app.ts", "const x: number = 1;\n"); err != nil {
		t.Errorf("Parse() = %v, want nil for .ts input", err)
	}
}

func TestLoaderFor(t *testing.T) {
	tests := []struct {
		filename string
		want     api.Loader
	}{
		{"app.ts", api.LoaderTS},
		{"app.tsx", api.LoaderTSX},
		{"app.jsx", api.LoaderJSX},
		{"app.js", api.LoaderJS},
		{"app", api.LoaderJS},
	}
	for _, tt := range tests {
		if got := loaderFor(tt.filename); got != tt.want {
			t.Errorf("loaderFor(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
