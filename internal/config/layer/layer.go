// Package layer provides priority-ordered configuration layers.
//
// Each source of settings (defaults, user file, project files, environment,
// command line) is held in its own layer. Higher priority layers override
// values from lower priority layers when merged.
package layer

import (
	"time"
)

// Layer represents a single configuration layer.
type Layer struct {
	// Name identifies the layer (e.g., "user", "project", "defaults").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path (if loaded from file).
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	// ModTime is when the source was last loaded.
	ModTime time.Time
}

// NewLayer creates a new configuration layer with the standard priority
// and name of its source.
func NewLayer(source Source) *Layer {
	return &Layer{
		Name:     source.String(),
		Source:   source,
		Priority: DefaultPriority(source),
		Data:     make(map[string]any),
		ModTime:  time.Now(),
	}
}

// NewLayerWithData creates a new layer holding data.
func NewLayerWithData(source Source, path string, data map[string]any) *Layer {
	l := NewLayer(source)
	l.Path = path
	if data != nil {
		l.Data = data
	}
	return l
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Name:     l.Name,
		Priority: l.Priority,
		Source:   l.Source,
		Path:     l.Path,
		Data:     cloneMap(l.Data),
		ModTime:  l.ModTime,
	}
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents built-in default configuration.
	SourceBuiltin Source = iota
	// SourceUser represents the user TOML file (~/.config/rstedit/config.toml).
	SourceUser
	// SourceProject represents the project .rstedit.yaml file.
	SourceProject
	// SourceVSCode represents the project .vscode/settings.json file.
	SourceVSCode
	// SourceEnv represents RSTEDIT_* environment variables.
	SourceEnv
	// SourceArgs represents command-line flags.
	SourceArgs
)

// String returns the standard layer name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "defaults"
	case SourceUser:
		return "user"
	case SourceProject:
		return "project"
	case SourceVSCode:
		return "vscode"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

// cloneSlice creates a deep copy of a slice.
func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}
