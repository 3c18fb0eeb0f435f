// Package importfix is the library entrypoint: given a project root, a
// file's source text, and an optional manifest override, it returns the
// file rewritten with a single sorted, style-consistent import block
// covering every identifier the file references but never declares.
package importfix

import (
	"context"
	"fmt"

	"tools/importfix/compose"
	"tools/importfix/exports"
	"tools/importfix/imports"
	"tools/importfix/jsast"
	"tools/importfix/registry"
	"tools/importfix/resolver"
	"tools/importfix/rewrite"
	"tools/importfix/source"
	"tools/importfix/style"
)

// Run rewrites code (a file that logically lives under dir) by adding
// imports for every unresolved free identifier the registry built for dir
// can explain, merging them with whatever import/require statements
// already exist. Non-import code is left untouched.
func Run(ctx context.Context, mgr *registry.Manager, dir, filename, code string, override []byte) (string, error) {
	prog, err := jsast.Parse(filename, code)
	if err != nil {
		return "", err
	}
	view := source.New(code)

	existing := imports.Extract(prog, view)
	unresolved := resolver.Resolve(code, existing)

	reg, err := mgr.Populate(ctx, dir, override)
	if err != nil {
		return "", fmt.Errorf("populate registry: %w", err)
	}

	libsToAdd := map[string]compose.Libs{}
	for _, name := range unresolved {
		dep := reg.Search(name)
		if dep == nil {
			continue
		}
		libs := libsToAdd[dep.ID]
		switch dep.Kind {
		case registry.Ident:
			libs.Idents = append(libs.Idents, name)
		case registry.Default:
			libs.Defaults = append(libs.Defaults, name)
		case registry.Prop:
			libs.Props = append(libs.Props, name)
		default:
			return "", fmt.Errorf("unknown export kind for identifier %q", name)
		}
		libsToAdd[dep.ID] = libs
	}

	desc := style.Detect(code)
	block, err := compose.Compose(desc, dir, libsToAdd)
	if err != nil {
		return "", fmt.Errorf("compose import block: %w", err)
	}

	return rewrite.Rewrite(view, prog, existing, block), nil
}

// Analyze exposes the static export analyzer for a single project file, for
// callers that just want a file's export surface. The registry does not go
// through this function; it calls exports.Analyze itself.
func Analyze(filename, code string) (exports.Result, error) {
	prog, err := jsast.Parse(filename, code)
	if err != nil {
		return exports.Result{}, err
	}
	view := source.New(code)
	return exports.Analyze(prog, view), nil
}
