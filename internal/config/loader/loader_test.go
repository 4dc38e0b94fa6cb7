package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

// MemFS is an in-memory file system for testing.
type MemFS map[string]string

func (m MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func get(data map[string]any, path ...string) any {
	var cur any = data
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func TestMissingFilesAreNotErrors(t *testing.T) {
	fsys := MemFS{}
	loaders := []Loader{
		NewTOMLLoaderWithFS(fsys, "config.toml"),
		NewYAMLLoaderWithFS(fsys, ".rstedit.yaml"),
		NewVSCodeLoaderWithFS(fsys, ".vscode/settings.json"),
	}

	for _, l := range loaders {
		data, err := l.Load()
		if err != nil || data != nil {
			t.Errorf("%T: Load() = %v, %v; want nil, nil", l, data, err)
		}
	}
}

func TestTOMLLoader(t *testing.T) {
	fsys := MemFS{"config.toml": `
[editor]
tabSize = 2

[listEditing]
marker = "one"
autoRenumber = false
`}

	data, err := NewTOMLLoaderWithFS(fsys, "config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v := get(data, "editor", "tabSize"); v != int64(2) {
		t.Errorf("editor.tabSize = %v (%T), want 2", v, v)
	}
	if v := get(data, "listEditing", "marker"); v != "one" {
		t.Errorf("listEditing.marker = %v, want one", v)
	}
	if v := get(data, "listEditing", "autoRenumber"); v != false {
		t.Errorf("listEditing.autoRenumber = %v, want false", v)
	}
}

func TestTOMLParseErrorPosition(t *testing.T) {
	_, err := ParseTOML("bad.toml", []byte("[editor]\ntabSize = = 2\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "bad.toml" || perr.Line != 2 {
		t.Errorf("ParseError = %+v, want bad.toml line 2", perr)
	}
}

func TestYAMLLoader(t *testing.T) {
	fsys := MemFS{".rstedit.yaml": `
listEditing:
  indentationSize: 3
table:
  minCellWidth: 5
`}

	data, err := NewYAMLLoaderWithFS(fsys, ".rstedit.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v := get(data, "listEditing", "indentationSize"); v != 3 {
		t.Errorf("indentationSize = %v (%T), want 3", v, v)
	}
	if v := get(data, "table", "minCellWidth"); v != 5 {
		t.Errorf("minCellWidth = %v, want 5", v)
	}
}

func TestYAMLParseError(t *testing.T) {
	_, err := ParseYAML("p.yaml", []byte("table: [unclosed\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestVSCodeLoader(t *testing.T) {
	fsys := MemFS{"settings.json": `{
	// list settings
	"restructuredtext.editor.listEditing.orderedList.marker": "one",
	"restructuredtext.editor.listEditing.list.indentationSize": "adaptive",
	"editor.tabSize": 8,
	"rstedit.table.minCellWidth": 4,
	"files.autoSave": "off",
	"[restructuredtext]": {
		"editor.tabSize": 3,
	},
}`}

	data, err := NewVSCodeLoaderWithFS(fsys, "settings.json").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]any{
		"listEditing": map[string]any{
			"marker":          "one",
			"indentationSize": "adaptive",
		},
		"editor": map[string]any{"tabSize": float64(3)},
		"table":  map[string]any{"minCellWidth": float64(4)},
	}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("Load() = %v, want %v", data, want)
	}
}

func TestVSCodeParseError(t *testing.T) {
	_, err := ParseVSCode("settings.json", []byte(`{"editor.tabSize": `))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestWriteVSCodeSetting(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".vscode", "settings.json")

	if err := WriteVSCodeSetting(file, "listEditing.marker", "one"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := WriteVSCodeSetting(file, "table.minCellWidth", 6); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := WriteVSCodeSetting(file, "listEditing.marker", "ordered"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, err := NewVSCodeLoader(file).Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if v := get(data, "listEditing", "marker"); v != "ordered" {
		t.Errorf("listEditing.marker = %v, want ordered", v)
	}
	if v := get(data, "table", "minCellWidth"); v != float64(6) {
		t.Errorf("table.minCellWidth = %v, want 6", v)
	}

	raw, _ := os.ReadFile(file)
	if !gjson.GetBytes(raw, gjson.Escape("restructuredtext.editor.listEditing.orderedList.marker")).Exists() {
		t.Errorf("VS Code key not written: %s", raw)
	}
}

func TestVSCodeKey(t *testing.T) {
	tests := map[string]string{
		"listEditing.autoRenumber": "restructuredtext.editor.listEditing.orderedList.autoRenumber",
		"editor.tabSize":           "editor.tabSize",
		"logging.level":            "rstedit.logging.level",
	}
	for path, want := range tests {
		if got := VSCodeKey(path); got != want {
			t.Errorf("VSCodeKey(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(EnvPrefix, "editor", "listEditing", "table")
	l.environ = func() []string {
		return []string{
			"RSTEDIT_TAB_SIZE=2",
			"RSTEDIT_LOG_LEVEL=debug",
			"RSTEDIT_LISTEDITING_AUTO_RENUMBER=false",
			"RSTEDIT_UNKNOWN_THING=x",
			"RSTEDIT_NOUNDERSCORE=y",
			"HOME=/root",
		}
	}

	data, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]any{
		"editor":      map[string]any{"tabSize": "2"},
		"logging":     map[string]any{"level": "debug"},
		"listEditing": map[string]any{"autoRenumber": "false"},
	}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("Load() = %v, want %v", data, want)
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix, "listEditing", "table")

	tests := []struct {
		env  string
		want string
	}{
		{"RSTEDIT_TABLE_MIN_CELL_WIDTH", "table.minCellWidth"},
		{"RSTEDIT_LISTEDITING_MARKER", "listEditing.marker"},
		{"RSTEDIT_OTHER_MARKER", ""},
		{"RSTEDIT_TABLE", ""},
	}
	for _, tc := range tests {
		if got := l.envToPath(tc.env); got != tc.want {
			t.Errorf("envToPath(%q) = %q, want %q", tc.env, got, tc.want)
		}
	}
}
