// Package probe runtime-introspects an installed external package's CommonJS
// exports by actually executing its entry point inside an isolated goja VM,
// rather than shelling out to a system node binary and trusting the OS
// process boundary (the approach this project's tooling ancestor used). The
// sandbox exposes nothing but a stubbed require and module/exports objects;
// any throw, infinite loop, or timeout is swallowed, never propagated.
package probe

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Result is what the sandbox could determine about a module's exports.
type Result struct {
	Props      []string
	HasDefault bool
}

const defaultTimeout = 2 * time.Second

// Exports loads src (the text of a package's resolved entry file) inside a
// sandboxed VM and returns the property names of whatever it assigned to
// module.exports, plus whether it carries an ES-interop default. Any
// failure — syntax error, runtime throw, or timeout — yields a zero Result
// and a non-nil error for the caller to swallow per-package.
func Exports(src string) (Result, error) {
	vm := goja.New()

	moduleObj := vm.NewObject()
	exportsObj := vm.NewObject()
	_ = moduleObj.Set("exports", exportsObj)
	if err := vm.Set("module", moduleObj); err != nil {
		return Result{}, fmt.Errorf("sandbox setup: %w", err)
	}
	if err := vm.Set("exports", exportsObj); err != nil {
		return Result{}, fmt.Errorf("sandbox setup: %w", err)
	}
	if err := vm.Set("require", sandboxedRequire(vm)); err != nil {
		return Result{}, fmt.Errorf("sandbox setup: %w", err)
	}
	for _, stub := range []string{"window", "document", "navigator", "self"} {
		_ = vm.Set(stub, goja.Undefined())
	}

	timer := time.AfterFunc(defaultTimeout, func() {
		vm.Interrupt("introspection timeout")
	})
	defer timer.Stop()

	wrapped := "(function(module, exports, require) {\n" + src + "\n})(module, exports, require);"
	if _, err := vm.RunString(wrapped); err != nil {
		return Result{}, fmt.Errorf("sandbox run: %w", err)
	}

	exportedValue := moduleObj.Get("exports")
	if exportedValue == nil || goja.IsUndefined(exportedValue) || goja.IsNull(exportedValue) {
		return Result{}, nil
	}
	obj := exportedValue.ToObject(vm)
	if obj == nil {
		return Result{}, nil
	}

	var props []string
	hasDefault := false
	for _, key := range obj.Keys() {
		if key == "__esModule" {
			continue
		}
		if key == "default" {
			hasDefault = true
			continue
		}
		props = append(props, key)
	}

	return Result{Props: props, HasDefault: hasDefault}, nil
}

// sandboxedRequire refuses every module name: the probe only cares about
// the entry file's own exports, never its transitive dependency graph, so
// a function that always throws is sufficient and keeps the sandbox from
// touching the host filesystem.
func sandboxedRequire(vm *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		panic(vm.NewTypeError("require is not available in the export probe sandbox"))
	}
}
