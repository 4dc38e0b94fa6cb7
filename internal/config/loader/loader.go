// Package loader reads configuration sources into nested maps.
//
// Each loader handles one format: TOML for the user file, YAML for the
// project file, VS Code settings.json for editor-shared settings, and
// RSTEDIT_* environment variables. A missing file is not an error; the
// loader returns a nil map.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist.
	Load() (map[string]any, error)
}

// FileLoader is a Loader bound to a file.
type FileLoader interface {
	Loader
	// Path returns the file the loader reads.
	Path() string
}

// FileSystem is the file access loaders need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// readFile reads path, returning nil data and no error when it is missing.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	if fsys == nil {
		fsys = OSFS{}
	}
	data, err := fsys.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	current := data
	for {
		i := strings.IndexByte(path, '.')
		if i < 0 {
			current[path] = value
			return
		}
		next, ok := current[path[:i]].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[path[:i]] = next
		}
		current = next
		path = path[i+1:]
	}
}
