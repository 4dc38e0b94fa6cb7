package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/sjson"
)

// KeyPrefix marks rstedit settings stored in a VS Code settings file
// under their own names, e.g. "rstedit.table.minCellWidth".
const KeyPrefix = "rstedit."

// LanguageSection is the VS Code language override block for
// reStructuredText files.
const LanguageSection = "[restructuredtext]"

// vscodeKeys maps VS Code setting names to rstedit setting paths.
var vscodeKeys = map[string]string{
	"restructuredtext.editor.listEditing.orderedList.marker":       "listEditing.marker",
	"restructuredtext.editor.listEditing.orderedList.autoRenumber": "listEditing.autoRenumber",
	"restructuredtext.editor.listEditing.list.indentationSize":     "listEditing.indentationSize",
	"editor.tabSize": "editor.tabSize",
}

// VSCodeKey returns the VS Code setting name for an rstedit path.
// Paths without a VS Code equivalent use the rstedit. prefix.
func VSCodeKey(path string) string {
	for key, p := range vscodeKeys {
		if p == path {
			return key
		}
	}
	return KeyPrefix + path
}

// VSCodeLoader reads the project .vscode/settings.json file.
type VSCodeLoader struct {
	fs   FileSystem
	path string
}

// NewVSCodeLoader creates a loader for a settings.json path.
func NewVSCodeLoader(path string) *VSCodeLoader {
	return &VSCodeLoader{fs: OSFS{}, path: path}
}

// NewVSCodeLoaderWithFS creates a VS Code loader with a custom file system.
func NewVSCodeLoaderWithFS(fs FileSystem, path string) *VSCodeLoader {
	return &VSCodeLoader{fs: fs, path: path}
}

// Path returns the file the loader reads.
func (l *VSCodeLoader) Path() string {
	return l.path
}

// Load reads the known settings. Values in the [restructuredtext]
// language block override top-level values.
func (l *VSCodeLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseVSCode(l.path, data)
}

// ParseVSCode extracts rstedit settings from VS Code settings JSON.
// Comments and trailing commas are allowed.
func ParseVSCode(source string, data []byte) (map[string]any, error) {
	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}

	config := make(map[string]any)
	root := gjson.ParseBytes(data)
	collect(root, config)
	if lang := root.Get(gjson.Escape(LanguageSection)); lang.IsObject() {
		collect(lang, config)
	}
	return config, nil
}

func collect(obj gjson.Result, config map[string]any) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		path, ok := vscodeKeys[name]
		if !ok && strings.HasPrefix(name, KeyPrefix) {
			path, ok = strings.TrimPrefix(name, KeyPrefix), true
		}
		if ok && path != "" {
			setByPath(config, path, value.Value())
		}
		return true
	})
}

// WriteVSCodeSetting sets an rstedit setting in a VS Code settings file,
// creating the file and its directory when missing. Other settings are
// preserved; comments are kept unless the file needs them stripped to
// parse.
func WriteVSCodeSetting(file, path string, value any) error {
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		data = []byte("{}\n")
	} else if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	if !gjson.ValidBytes(data) {
		data = jsonc.ToJSON(data)
		if !gjson.ValidBytes(data) {
			return &ParseError{Path: file, Message: "invalid JSON"}
		}
	}

	out, err := sjson.SetBytes(data, gjson.Escape(VSCodeKey(path)), value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, out, 0o644)
}
