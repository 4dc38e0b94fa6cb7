// Package config provides the configuration system for rstedit.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  6. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  5. Environment (RSTEDIT_*) │
//	├─────────────────────────────┤
//	│  4. .vscode/settings.json   │  ← restructuredtext.editor.listEditing.*
//	├─────────────────────────────┤
//	│  3. .rstedit.yaml           │  ← project
//	├─────────────────────────────┤
//	│  2. config.toml             │  ← ~/.config/rstedit/
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged map is decoded into Settings; a value that does not decode is
// reported as ErrInvalidValue and the previous settings stay in effect.
//
//	[editor]
//	tabSize = 4
//	undoLimit = 1000
//
//	[listEditing]
//	marker = "ordered"          # or "one"
//	autoRenumber = true
//	indentationSize = "adaptive" # or a number of spaces
//
//	[table]
//	minCellWidth = 3
//
// # Sub-packages
//
//   - layer: layer management and deep merging
//   - loader: TOML, YAML, VS Code JSON and environment loaders
//   - watcher: fsnotify-based live reload
package config
