package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the subset of a package.json-shaped project manifest the
// registry cares about.
type Manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// lockfile is the subset of an npm package-lock.json (v2/v3 "packages"
// shape) needed to refine a declared dependency's version key to the
// resolved version actually installed, rather than the manifest's
// (possibly ranged) version string.
type lockfile struct {
	Packages map[string]struct {
		Version string `json:"version"`
	} `json:"packages"`
}

// findProjectRoot walks upward from dir looking for the first directory
// containing a manifest file. Returns "" if none is found — not an error,
// per the "missing manifest" failure mode.
func findProjectRoot(dir string) (root string, manifest *Manifest, err error) {
	cur := dir
	for {
		manifestPath := filepath.Join(cur, "package.json")
		data, readErr := os.ReadFile(manifestPath)
		if readErr == nil {
			var m Manifest
			if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
				return "", nil, fmt.Errorf("parse %s: %w", manifestPath, jsonErr)
			}
			return cur, &m, nil
		}
		if !os.IsNotExist(readErr) {
			return "", nil, fmt.Errorf("read %s: %w", manifestPath, readErr)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil, nil
		}
		cur = parent
	}
}

// loadLockfile reads an npm v2/v3 package-lock.json next to root's
// manifest. A missing or malformed lockfile is not an error — declared
// dependencies simply keep their manifest version string.
func loadLockfile(root string) *lockfile {
	data, err := os.ReadFile(filepath.Join(root, "package-lock.json"))
	if err != nil {
		return nil
	}
	var lf lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil
	}
	return &lf
}

// resolvedVersion returns the lockfile-resolved version for pkgName if
// present, else the manifest's own version string unchanged.
func (lf *lockfile) resolvedVersion(pkgName, manifestVersion string) string {
	if lf == nil {
		return manifestVersion
	}
	if entry, ok := lf.Packages["node_modules/"+pkgName]; ok && entry.Version != "" {
		return entry.Version
	}
	return manifestVersion
}

// mergeOverride applies a JSON fragment (as passed via --override) on top
// of the discovered manifest's dependencies/devDependencies, for callers
// that want to bypass disk state.
func mergeOverride(m *Manifest, override []byte) (*Manifest, error) {
	if len(override) == 0 {
		return m, nil
	}
	var patch Manifest
	if err := json.Unmarshal(override, &patch); err != nil {
		return nil, fmt.Errorf("parse override: %w", err)
	}
	base := Manifest{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
	if m != nil {
		for k, v := range m.Dependencies {
			base.Dependencies[k] = v
		}
		for k, v := range m.DevDependencies {
			base.DevDependencies[k] = v
		}
	}
	for k, v := range patch.Dependencies {
		base.Dependencies[k] = v
	}
	for k, v := range patch.DevDependencies {
		base.DevDependencies[k] = v
	}
	return &base, nil
}
