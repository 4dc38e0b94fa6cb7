package loader

import (
	"os"
	"strings"
)

// EnvPrefix is the prefix of rstedit environment variables.
const EnvPrefix = "RSTEDIT_"

// EnvLoader loads configuration from environment variables.
//
// Mapped variables such as RSTEDIT_TAB_SIZE set their configured path.
// Other prefixed variables are read as RSTEDIT_<SECTION>_<NAME>, e.g.
// RSTEDIT_LISTEDITING_AUTO_RENUMBER sets listEditing.autoRenumber. Values
// are kept as strings; the settings decoder converts them.
type EnvLoader struct {
	prefix   string
	mapping  map[string]string // Env var -> config path
	sections map[string]string // lower-case section -> section
	environ  func() []string
}

// NewEnvLoader creates an environment loader for the given prefix,
// including its trailing underscore. Sections lists the known section
// names used to resolve unmapped variables.
func NewEnvLoader(prefix string, sections ...string) *EnvLoader {
	l := &EnvLoader{
		prefix:   prefix,
		mapping:  defaultEnvMapping(prefix),
		sections: make(map[string]string, len(sections)),
		environ:  os.Environ,
	}
	for _, s := range sections {
		l.sections[strings.ToLower(s)] = s
	}
	return l
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":        "logging.level",
		prefix + "TAB_SIZE":         "editor.tabSize",
		prefix + "UNDO_LIMIT":       "editor.undoLimit",
		prefix + "LIST_MARKER":      "listEditing.marker",
		prefix + "AUTO_RENUMBER":    "listEditing.autoRenumber",
		prefix + "INDENTATION_SIZE": "listEditing.indentationSize",
		prefix + "MIN_CELL_WIDTH":   "table.minCellWidth",
		prefix + "PLUGINS":          "plugins.enabled",
		prefix + "PLUGINS_DIR":      "plugins.dir",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads prefixed environment variables. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			if path = l.envToPath(name); path == "" {
				continue
			}
		}
		setByPath(config, path, value)
	}

	return config, nil
}

// envToPath converts RSTEDIT_LISTEDITING_AUTO_RENUMBER to
// listEditing.autoRenumber. It returns "" for unknown sections.
func (l *EnvLoader) envToPath(env string) string {
	section, rest, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	if !ok || rest == "" {
		return ""
	}

	name, known := l.sections[strings.ToLower(section)]
	if !known {
		return ""
	}

	var sb strings.Builder
	for i, part := range strings.Split(strings.ToLower(rest), "_") {
		if i > 0 && part != "" {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		sb.WriteString(part)
	}
	return name + "." + sb.String()
}
