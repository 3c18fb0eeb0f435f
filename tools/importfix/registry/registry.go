package registry

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tools/importfix/exports"
	"tools/importfix/jsast"
	"tools/importfix/probe"
	"tools/importfix/source"
)

// sourceExtensions are the file extensions scanned for project-local
// exports. bower_components/node_modules directories and dot-prefixed
// entries are skipped during the walk.
var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true,
}

// Registry is the built, queryable per-project dependency index.
type Registry struct {
	entries map[string]Entry
	deps    map[string]DepInfo
	root    string
}

// Search resolves name to a DepInfo, or nil if unknown.
func (r *Registry) Search(name string) *DepInfo {
	if d, ok := r.deps[name]; ok {
		return &d
	}
	return nil
}

// Deps exposes the computed reverse index, for the registry --dump
// debugging subcommand.
func (r *Registry) Deps() map[string]DepInfo {
	return r.deps
}

// Manager owns process-lifetime memoization of registries across project
// roots: an LRU of already-built Registry values, and a singleflight group
// so concurrent populate(dir) callers for the same root share one build.
type Manager struct {
	cache  *lru.Cache[string, *Registry]
	flight singleflight.Group
}

// NewManager creates a Manager with a generous but bounded cache size, so
// a long-lived editor-integration process doesn't accumulate unbounded
// Registries across many opened projects.
func NewManager() *Manager {
	cache, err := lru.New[string, *Registry](64)
	if err != nil {
		panic(fmt.Sprintf("registry: building LRU cache: %v", err))
	}
	return &Manager{cache: cache}
}

// Populate returns the memoized Registry for dir, building it on first
// call (or first call after a cache eviction). Concurrent callers for the
// same dir share one in-flight build. override, if non-nil, is merged over
// the discovered manifest before registration.
func (m *Manager) Populate(ctx context.Context, dir string, override []byte) (*Registry, error) {
	if reg, ok := m.cache.Get(dir); ok {
		return reg, nil
	}

	v, err, _ := m.flight.Do(dir, func() (interface{}, error) {
		reg, buildErr := build(ctx, dir, override)
		if buildErr != nil {
			return nil, buildErr
		}
		m.cache.Add(dir, reg)
		return reg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Registry), nil
}

// ClearCache removes dir's on-disk cache file.
func ClearCache(dir string) error {
	root, _, err := findProjectRoot(dir)
	if err != nil {
		return err
	}
	return clearDiskCache(root)
}

func build(ctx context.Context, dir string, override []byte) (*Registry, error) {
	root, manifest, err := findProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	manifest, err = mergeOverride(manifest, override)
	if err != nil {
		return nil, err
	}
	lf := loadLockfile(root)

	cache := loadDiskCache(root)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	// Source 1: platform builtins.
	g.Go(func() error {
		for _, name := range builtinModules {
			fillIfStale(&mu, cache, name, runtimeVersion, func() Entry {
				e := Entry{Version: runtimeVersion}
				e.Idents = deriveIdents(name)
				return e
			})
		}
		return nil
	})

	// Source 2: declared dependencies.
	if manifest != nil {
		declared := map[string]string{}
		for k, v := range manifest.Dependencies {
			declared[k] = v
		}
		for k, v := range manifest.DevDependencies {
			declared[k] = v
		}
		for name, version := range declared {
			name, version := name, version
			g.Go(func() error {
				resolved := lf.resolvedVersion(name, version)
				fillIfStale(&mu, cache, name, resolved, func() Entry {
					return buildPackageEntry(gctx, root, name, resolved)
				})
				return nil
			})
		}
	}

	// Source 3: project-local files.
	if root != "" {
		files, walkErr := walkProjectFiles(root)
		if walkErr != nil {
			return nil, walkErr
		}
		for _, f := range files {
			f := f
			g.Go(func() error {
				info, statErr := os.Stat(f)
				if statErr != nil {
					return nil
				}
				version := fmt.Sprintf("%d", info.ModTime().UnixMilli())
				fillIfStale(&mu, cache, f, version, func() Entry {
					return buildFileEntry(f, version)
				})
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	saveDiskCache(root, cache)

	return &Registry{
		entries: cache,
		deps:    computeDeps(cache, root, manifest),
		root:    root,
	}, nil
}

// fillIfStale reuses the cached entry for id when its version matches, or
// builds and stores a fresh one otherwise. Guarded by mu since multiple
// goroutines share the cache map.
func fillIfStale(mu *sync.Mutex, cache map[string]Entry, id, version string, build func() Entry) {
	mu.Lock()
	existing, ok := cache[id]
	mu.Unlock()
	if ok && existing.Version == version {
		return
	}

	fresh := build()
	fresh.Version = version

	mu.Lock()
	cache[id] = fresh
	mu.Unlock()
}

func buildPackageEntry(ctx context.Context, root, name, version string) Entry {
	e := Entry{Version: version}
	e.Idents = deriveIdents(name)

	pkgDir := filepath.Join(root, "node_modules", name)
	entryFile := resolvePackageEntry(pkgDir, ".", "node")
	if entryFile == "" {
		return e
	}
	src, err := os.ReadFile(entryFile)
	if err != nil {
		return e
	}

	result, probeErr := probe.Exports(string(src))
	if probeErr != nil {
		return e
	}
	e.Props = result.Props
	if result.HasDefault {
		e.promote()
	}
	return e
}

func buildFileEntry(path, version string) Entry {
	e := Entry{Version: version}
	e.Idents = deriveIdents(path)

	src, err := os.ReadFile(path)
	if err != nil {
		return e
	}
	prog, err := jsast.Parse(path, string(src))
	if err != nil {
		return e
	}
	view := source.New(string(src))
	result := exports.Analyze(prog, view)

	e.Idents = appendUniqueStrings(e.Idents, result.Idents...)
	e.Defaults = appendUniqueStrings(e.Defaults, result.Defaults...)
	e.Props = appendUniqueStrings(e.Props, result.Props...)
	if result.HasDefault {
		e.promote()
	}
	return e
}

func appendUniqueStrings(list []string, add ...string) []string {
	seen := map[string]bool{}
	for _, v := range list {
		seen[v] = true
	}
	for _, v := range add {
		if !seen[v] {
			seen[v] = true
			list = append(list, v)
		}
	}
	return list
}

// walkProjectFiles recursively collects source-extension files under root,
// skipping dot-prefixed entries and node_modules/bower_components.
func walkProjectFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if name != "." && (name[0] == '.' || name == "node_modules" || name == "bower_components") {
				return filepath.SkipDir
			}
			return nil
		}
		if name[0] == '.' {
			return nil
		}
		if sourceExtensions[filepath.Ext(name)] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// computeDeps builds the reverse index name -> DepInfo from the merged
// entries cache, applying the associate rule: lower priority wins; at
// equal priority, idents/defaults beat props; ties keep the first
// inserted. Traversal order (builtins -> declared deps -> project files)
// is fixed so equal-priority, equal-kind ties are deterministic.
func computeDeps(cache map[string]Entry, root string, manifest *Manifest) map[string]DepInfo {
	deps := map[string]DepInfo{}

	associate := func(name, id string, priority Priority, kind ExportKind) {
		existing, ok := deps[name]
		if !ok {
			deps[name] = DepInfo{ID: id, Priority: priority, Kind: kind}
			return
		}
		if priority < existing.Priority {
			deps[name] = DepInfo{ID: id, Priority: priority, Kind: kind}
			return
		}
		if priority == existing.Priority && existing.Kind == Prop && kind != Prop {
			deps[name] = DepInfo{ID: id, Priority: priority, Kind: kind}
		}
	}

	registerEntry := func(id string, entry Entry, priority Priority) {
		for _, n := range entry.Idents {
			associate(n, id, priority, Ident)
		}
		for _, n := range entry.Defaults {
			associate(n, id, priority, Default)
		}
		for _, n := range entry.Props {
			associate(n, id, priority, Prop)
		}
	}

	for _, name := range builtinModules {
		if entry, ok := cache[name]; ok {
			registerEntry(name, entry, PriorityBuiltin)
		}
	}

	if manifest != nil {
		declaredOrder := orderedDeclaredNames(manifest)
		for _, name := range declaredOrder {
			if entry, ok := cache[name]; ok {
				registerEntry(name, entry, PriorityPackage)
			}
		}
	}

	var fileIDs []string
	for id := range cache {
		if isFileID(id) {
			fileIDs = append(fileIDs, id)
		}
	}
	sort.Strings(fileIDs)
	for _, id := range fileIDs {
		registerEntry(id, cache[id], PriorityFile)
	}

	return deps
}

func orderedDeclaredNames(m *Manifest) []string {
	var deps, devDeps []string
	for name := range m.Dependencies {
		deps = append(deps, name)
	}
	for name := range m.DevDependencies {
		devDeps = append(devDeps, name)
	}
	sort.Strings(deps)
	sort.Strings(devDeps)

	var out []string
	seen := map[string]bool{}
	for _, name := range deps {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range devDeps {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
