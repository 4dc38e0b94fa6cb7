package layer

import (
	"reflect"
	"sort"
	"strings"
)

// DeepMerge recursively merges src into dst and returns dst.
// Values in src override values in dst. Maps are merged recursively;
// other values are replaced by a deep copy.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}

	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// GetByPath retrieves a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetByPath sets a value in a nested map using a dot-separated path,
// creating intermediate maps as needed.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}

	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// FlattenMap flattens a nested map into dot-separated keys.
func FlattenMap(data map[string]any) map[string]any {
	result := make(map[string]any)
	flatten(data, "", result)
	return result
}

func flatten(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, key, result)
			continue
		}
		result[key] = val
	}
}

// Changed returns the sorted paths whose values differ between two maps,
// including paths present in only one of them.
func Changed(old, new map[string]any) []string {
	oldFlat := FlattenMap(old)
	newFlat := FlattenMap(new)

	var paths []string
	for path, newVal := range newFlat {
		if oldVal, ok := oldFlat[path]; !ok || !reflect.DeepEqual(oldVal, newVal) {
			paths = append(paths, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths
}
