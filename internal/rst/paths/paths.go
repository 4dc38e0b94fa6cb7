// Package paths computes document-relative paths for insertion into
// reStructuredText links and directives.
package paths

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Relative returns target relative to the directory of docPath, using
// forward slashes. With withExt false the file extension is dropped, the
// form toctree entries use.
func Relative(docPath, target string, withExt bool) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(docPath), target)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	if !withExt {
		rel = strings.TrimSuffix(rel, path.Ext(rel))
	}
	return rel, nil
}
