package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/rstedit/internal/config/layer"
	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/rst/listedit"
	"github.com/dshills/rstedit/internal/rst/table"
)

// Settings is a decoded, validated configuration snapshot.
type Settings struct {
	Editor      EditorSettings
	ListEditing ListSettings
	Table       TableSettings
	Logging     LoggingSettings
	Plugins     PluginSettings
}

// EditorSettings holds [editor].
type EditorSettings struct {
	TabSize   int
	UndoLimit int
}

// ListSettings holds [listEditing].
type ListSettings struct {
	Marker          listedit.MarkerStyle
	AutoRenumber    bool
	IndentationSize listedit.IndentationSize
}

// TableSettings holds [table].
type TableSettings struct {
	MinCellWidth int
}

// LoggingSettings holds [logging].
type LoggingSettings struct {
	Level string
}

// PluginSettings holds [plugins].
type PluginSettings struct {
	Enabled bool
	Dir     string
}

// Sections lists the top-level configuration sections.
var Sections = []string{"editor", "listEditing", "table", "logging", "plugins"}

// Defaults returns the built-in configuration as a nested map.
func Defaults() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"tabSize":   4,
			"undoLimit": 1000,
		},
		"listEditing": map[string]any{
			"marker":          string(listedit.MarkerOrdered),
			"autoRenumber":    true,
			"indentationSize": listedit.Adaptive.String(),
		},
		"table": map[string]any{
			"minCellWidth": table.DefaultMinWidth,
		},
		"logging": map[string]any{
			"level": "info",
		},
		"plugins": map[string]any{
			"enabled": true,
			"dir":     "~/.config/rstedit/lua",
		},
	}
}

// DefaultSettings returns the decoded built-in configuration.
func DefaultSettings() Settings {
	s, err := Decode(Defaults())
	if err != nil {
		panic(err)
	}
	return s
}

// Decode converts a merged configuration map into Settings. Numbers and
// booleans may be given as strings, as environment variables are.
// Unknown keys are ignored.
func Decode(m map[string]any) (Settings, error) {
	d := decoder{data: m}

	s := Settings{
		Editor: EditorSettings{
			TabSize:   d.positive("editor.tabSize"),
			UndoLimit: d.nonNegative("editor.undoLimit"),
		},
		ListEditing: ListSettings{
			AutoRenumber: d.boolAt("listEditing.autoRenumber"),
		},
		Table: TableSettings{
			MinCellWidth: d.positive("table.minCellWidth"),
		},
		Logging: LoggingSettings{
			Level: d.level("logging.level"),
		},
		Plugins: PluginSettings{
			Enabled: d.boolAt("plugins.enabled"),
			Dir:     d.stringAt("plugins.dir"),
		},
	}

	if v, ok := d.value("listEditing.marker"); ok {
		style, err := listedit.ParseMarkerStyle(fmt.Sprint(v))
		d.check("listEditing.marker", v, err)
		s.ListEditing.Marker = style
	}
	if v, ok := d.value("listEditing.indentationSize"); ok {
		size, err := listedit.ParseIndentationSize(fmt.Sprint(v))
		d.check("listEditing.indentationSize", v, err)
		s.ListEditing.IndentationSize = size
	}

	return s, d.err
}

// Exec returns the snapshot handlers read.
func (s Settings) Exec() execctx.Settings {
	return execctx.Settings{
		List: listedit.Settings{
			Marker:       s.ListEditing.Marker,
			AutoRenumber: s.ListEditing.AutoRenumber,
			Indentation:  s.ListEditing.IndentationSize,
			TabSize:      s.Editor.TabSize,
		},
		Table: table.Options{MinCellWidth: s.Table.MinCellWidth},
	}
}

// decoder reads typed values and keeps the first error.
type decoder struct {
	data map[string]any
	err  error
}

func (d *decoder) value(path string) (any, bool) {
	return layer.GetByPath(d.data, path)
}

func (d *decoder) fail(path string, v any, msg string) {
	if d.err == nil {
		d.err = &ValueError{Path: path, Value: v, Message: msg}
	}
}

func (d *decoder) check(path string, v any, err error) {
	if err != nil {
		d.fail(path, v, err.Error())
	}
}

func (d *decoder) intAt(path string) (int, bool) {
	v, ok := d.value(path)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	d.fail(path, v, "expected an integer")
	return 0, false
}

func (d *decoder) positive(path string) int {
	n, ok := d.intAt(path)
	if ok && n <= 0 {
		d.fail(path, n, "must be positive")
	}
	return n
}

func (d *decoder) nonNegative(path string) int {
	n, ok := d.intAt(path)
	if ok && n < 0 {
		d.fail(path, n, "must not be negative")
	}
	return n
}

func (d *decoder) boolAt(path string) bool {
	v, ok := d.value(path)
	if !ok {
		return false
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	d.fail(path, v, "expected true or false")
	return false
}

func (d *decoder) stringAt(path string) string {
	v, ok := d.value(path)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, v, "expected a string")
	}
	return s
}

func (d *decoder) level(path string) string {
	s := strings.ToLower(d.stringAt(path))
	switch s {
	case "", "debug", "info", "warn", "warning", "error":
		return s
	}
	d.fail(path, s, "expected debug, info, warn or error")
	return "info"
}
