package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/thought-machine/go-flags"

	importfix "tools/importfix"
	"tools/importfix/registry"
	"tools/importfix/verify"
)

var opts = struct {
	Usage string

	Fix struct {
		Dir      string `long:"dir" description:"Project root (defaults to the file's directory, or cwd for stdin)"`
		File     string `long:"file" description:"File to fix; reads stdin if omitted"`
		Write    bool   `long:"write" description:"Patch the file in place instead of printing to stdout"`
		Override string `long:"override" description:"Path to a manifest JSON fragment merged over the discovered one"`
		Verify   bool   `long:"verify" description:"Parse the rewritten output with esbuild as a final sanity check"`
	} `command:"fix" description:"Add missing imports/requires and re-sort the import block"`

	Registry struct {
		Dir         string `long:"dir" required:"true" description:"Project root"`
		ClearCache  bool   `long:"clear-cache" description:"Delete the on-disk registry cache for this project root"`
		Dump        bool   `long:"dump" description:"Print the computed identifier->module map as JSON"`
		Override    string `long:"override" description:"Path to a manifest JSON fragment merged over the discovered one"`
	} `command:"registry" description:"Inspect or reset the dependency registry for a project"`
}{
	Usage: `
importfix automatically rewrites a source file's import/require block,
adding entries for every identifier it references but never declares.

It provides these operations:
  - fix:      rewrite a single file's import block
  - registry: inspect or reset the cached dependency registry
`,
}

var mgr = registry.NewManager()

var subCommands = map[string]func() int{
	"fix": func() int {
		src, filename, err := readInput(opts.Fix.File)
		if err != nil {
			log.Fatal(err)
		}
		dir := opts.Fix.Dir
		if dir == "" {
			dir = dirFor(opts.Fix.File)
		}
		override, err := readOverride(opts.Fix.Override)
		if err != nil {
			log.Fatal(err)
		}

		out, err := importfix.Run(context.Background(), mgr, dir, filename, src, override)
		if err != nil {
			log.Fatal(err)
		}

		if opts.Fix.Verify {
			if err := verify.Parse(filename, out); err != nil {
				log.Fatal(err)
			}
		}

		if opts.Fix.Write && opts.Fix.File != "" {
			if err := os.WriteFile(opts.Fix.File, []byte(out), 0644); err != nil {
				log.Fatal(err)
			}
			return 0
		}
		fmt.Print(out)
		return 0
	},
	"registry": func() int {
		if opts.Registry.ClearCache {
			if err := registry.ClearCache(opts.Registry.Dir); err != nil {
				log.Fatal(err)
			}
		}
		if opts.Registry.Dump {
			override, err := readOverride(opts.Registry.Override)
			if err != nil {
				log.Fatal(err)
			}
			reg, err := mgr.Populate(context.Background(), opts.Registry.Dir, override)
			if err != nil {
				log.Fatal(err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(reg.Deps()); err != nil {
				log.Fatal(err)
			}
		}
		return 0
	},
}

func readInput(file string) (src, filename string, err error) {
	if file == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>.js", nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), file, nil
}

func dirFor(file string) string {
	if file == "" {
		cwd, _ := os.Getwd()
		return cwd
	}
	return filepath.Dir(file)
}

func readOverride(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override %s: %w", path, err)
	}
	return data, nil
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	_, err := p.Parse()
	if err != nil {
		os.Exit(1)
	}
	if p.Active == nil {
		p.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	os.Exit(subCommands[p.Active.Name]())
}
