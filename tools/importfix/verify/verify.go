// Package verify runs rewritten output back through esbuild's parser as a
// final correctness oracle, the way the teacher tool treats esbuild's
// parser as ground truth throughout its build. This never influences the
// rewrite itself — it is an opt-in post-hoc sanity check.
package verify

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
)

// Parse reports whether src parses as valid source in esbuild's JS/TS
// parser, returning the first parse error's text otherwise.
func Parse(filename, src string) error {
	result := api.Transform(src, api.TransformOptions{
		Sourcefile: filename,
		Loader:     loaderFor(filename),
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}
	msg := result.Errors[0]
	return fmt.Errorf("verify: %s (%s:%d:%d)", msg.Text, filename, msg.Location.Line, msg.Location.Column)
}

func loaderFor(filename string) api.Loader {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			switch filename[i:] {
			case ".ts":
				return api.LoaderTS
			case ".tsx":
				return api.LoaderTSX
			case ".jsx":
				return api.LoaderJSX
			}
			break
		}
	}
	return api.LoaderJS
}
