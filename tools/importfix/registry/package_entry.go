package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// exportValue mirrors one node of a package.json "exports" tree: either a
// string leaf path, a map of condition/subpath keys to child nodes, or an
// array of fallback alternatives.
type exportValue struct {
	Path  string
	Map   map[string]*exportValue
	Array []*exportValue
}

func (v *exportValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Path = s
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		v.Array = make([]*exportValue, 0, len(arr))
		for _, raw := range arr {
			child := &exportValue{}
			if err := json.Unmarshal(raw, child); err != nil {
				return err
			}
			v.Array = append(v.Array, child)
		}
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	v.Map = make(map[string]*exportValue, len(m))
	for k, raw := range m {
		child := &exportValue{}
		if err := json.Unmarshal(raw, child); err != nil {
			return err
		}
		v.Map[k] = child
	}
	return nil
}

type packageManifestFile struct {
	Exports *exportValue `json:"exports"`
	Module  string       `json:"module"`
	Main    string       `json:"main"`
}

// resolvePackageEntry resolves the on-disk entry file for a package
// subpath (e.g. "." for the package root), consulting "exports" first and
// falling back to "module"/"main" for the root subpath, the same priority
// a real module loader applies.
func resolvePackageEntry(pkgDir, subpath, platform string) string {
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg packageManifestFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}

	if pkg.Exports != nil {
		if result := matchExports(pkgDir, pkg.Exports, subpath, platform); result != "" {
			resolved := filepath.Join(pkgDir, result)
			if _, err := os.Stat(resolved); err == nil {
				return resolved
			}
		}
	}

	if subpath == "." {
		for _, val := range []string{pkg.Module, pkg.Main} {
			if val == "" {
				continue
			}
			resolved := filepath.Join(pkgDir, val)
			if _, err := os.Stat(resolved); err == nil {
				return resolved
			}
			if _, err := os.Stat(resolved + ".js"); err == nil {
				return resolved + ".js"
			}
		}
	}

	return ""
}

func matchExports(pkgDir string, exports *exportValue, subpath, platform string) string {
	if exports.Path != "" {
		if subpath == "." {
			return exports.Path
		}
		return ""
	}
	if exports.Map == nil {
		return ""
	}

	isSubpathMap := false
	for key := range exports.Map {
		if strings.HasPrefix(key, ".") {
			isSubpathMap = true
			break
		}
	}

	if isSubpathMap {
		if entry, ok := exports.Map[subpath]; ok {
			return resolveCondition(pkgDir, entry, platform)
		}
		if result := matchWildcard(pkgDir, exports.Map, subpath, platform); result != "" {
			return result
		}
		return ""
	}

	if subpath == "." {
		return resolveCondition(pkgDir, exports, platform)
	}
	return ""
}

// matchWildcard handles "./lib/*": "./lib/*.js"-shaped subpath patterns.
func matchWildcard(pkgDir string, m map[string]*exportValue, subpath, platform string) string {
	for pattern, entry := range m {
		star := strings.Index(pattern, "*")
		if star < 0 {
			continue
		}
		prefix, suffix := pattern[:star], pattern[star+1:]
		if !strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}
		matched := strings.TrimSuffix(strings.TrimPrefix(subpath, prefix), suffix)
		target := resolveCondition(pkgDir, entry, platform)
		if target == "" {
			continue
		}
		return strings.Replace(target, "*", matched, 1)
	}
	return ""
}

// resolveCondition picks the on-disk path a conditional-exports node
// resolves to. For an array of fallback candidates it returns the first one
// that actually exists on disk, per Node's array-fallback semantics, rather
// than the first syntactically non-empty entry.
func resolveCondition(pkgDir string, value *exportValue, platform string) string {
	if value.Path != "" {
		return value.Path
	}
	if value.Array != nil {
		for _, alt := range value.Array {
			result := resolveCondition(pkgDir, alt, platform)
			if result == "" {
				continue
			}
			if _, err := os.Stat(filepath.Join(pkgDir, result)); err == nil {
				return result
			}
		}
		return ""
	}
	if value.Map == nil {
		return ""
	}

	var keys []string
	if platform == "node" {
		keys = []string{"node", "require", "module", "import", "default"}
	} else {
		keys = []string{"browser", "module", "import", "default"}
	}

	for _, key := range keys {
		if entry, ok := value.Map[key]; ok {
			if result := resolveCondition(pkgDir, entry, platform); result != "" {
				return result
			}
		}
	}
	return ""
}
