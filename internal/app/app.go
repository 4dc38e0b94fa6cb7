// Package app wires the rstedit components together: configuration, the
// document engine, the action dispatcher with its handlers, the keymap,
// user scripts and the terminal editor.
package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rstedit/internal/config"
	"github.com/dshills/rstedit/internal/dispatcher"
	cursorhandler "github.com/dshills/rstedit/internal/dispatcher/handlers/cursor"
	"github.com/dshills/rstedit/internal/dispatcher/handlers/editor"
	rsthandlers "github.com/dshills/rstedit/internal/dispatcher/handlers/rst"
	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/input/keymap"
	scripting "github.com/dshills/rstedit/internal/plugin/lua"
	"github.com/dshills/rstedit/internal/terminal"
)

// KeymapFileName is the user keybindings file in the config directory.
const KeymapFileName = "keybindings.json"

// Options configures the application.
type Options struct {
	// File is the document to open. Empty opens a scratch buffer.
	File string

	// ProjectDir holds .rstedit.yaml and .vscode/settings.json. Defaults
	// to the directory of File.
	ProjectDir string

	// UserConfigDir overrides the directory of config.toml.
	UserConfigDir string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Overrides are settings given on the command line, by path.
	Overrides map[string]string

	// ReadOnly opens the document read-only.
	ReadOnly bool

	// Watch reloads settings when a configuration file changes.
	Watch bool

	// NoScripts skips loading user scripts.
	NoScripts bool
}

// App is a running rstedit instance on one document.
type App struct {
	opts       Options
	logger     *Logger
	config     *config.Config
	doc        *Document
	dispatcher *dispatcher.Dispatcher
	keymap     *keymap.Keymap
	scripts    *scripting.Host
}

// New loads the configuration, opens the document and wires the
// dispatcher, keymap and scripts.
func New(ctx context.Context, opts Options) (*App, error) {
	a := &App{opts: opts}
	a.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(opts.LogLevel),
		Output: opts.LogOutput,
		Prefix: "rstedit",
	})

	if err := a.loadConfig(ctx); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	if err := a.openDocument(); err != nil {
		a.config.Close()
		return nil, err
	}

	a.setupDispatcher()

	if err := a.loadKeymap(); err != nil {
		a.logger.WithComponent("keymap").Warn("%v", err)
	}

	if err := a.loadScripts(); err != nil {
		a.config.Close()
		return nil, &InitError{Component: "lua", Err: err}
	}
	return a, nil
}

func (a *App) loadConfig(ctx context.Context) error {
	projectDir := a.opts.ProjectDir
	if projectDir == "" && a.opts.File != "" {
		if abs, err := filepath.Abs(a.opts.File); err == nil {
			projectDir = filepath.Dir(abs)
		}
	}

	cfgOpts := []config.Option{
		config.WithProjectDir(projectDir),
		config.WithWatcher(a.opts.Watch),
		config.WithLogger(a.logger.WithComponent("config")),
	}
	if a.opts.UserConfigDir != "" {
		cfgOpts = append(cfgOpts, config.WithUserConfigDir(a.opts.UserConfigDir))
	}
	a.config = config.New(cfgOpts...)

	if err := a.config.Load(ctx); err != nil {
		a.config.Close()
		return err
	}
	for path, value := range a.opts.Overrides {
		if err := a.config.Set(path, config.ParseValue(value)); err != nil {
			a.config.Close()
			return err
		}
	}

	if a.opts.LogLevel == "" {
		a.logger.SetLevel(ParseLogLevel(a.config.Settings().Logging.Level))
	}
	a.config.OnChange(func(s config.Settings, paths []string) {
		if a.opts.LogLevel == "" {
			a.logger.SetLevel(ParseLogLevel(s.Logging.Level))
		}
		a.logger.WithComponent("config").Info("settings changed: %v", paths)
	})
	return nil
}

func (a *App) openDocument() error {
	s := a.config.Settings()
	engOpts := []engine.Option{
		engine.WithTabWidth(s.Editor.TabSize),
		engine.WithMaxUndoEntries(s.Editor.UndoLimit),
	}
	if a.opts.ReadOnly {
		engOpts = append(engOpts, engine.WithReadOnly())
	}

	doc, err := OpenDocument(a.opts.File, engOpts...)
	if err != nil {
		return err
	}
	a.doc = doc
	return nil
}

func (a *App) setupDispatcher() {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.SetEngine(a.doc.Engine)
	d.SetLogger(a.logger.WithComponent("dispatcher"))
	d.SetSettingsProvider(a.config.ExecSettings)
	if !a.doc.IsScratch() {
		path, err := filepath.Abs(a.doc.Path)
		if err != nil {
			path = a.doc.Path
		}
		d.SetFilePath(path)
	}

	d.RegisterNamespace("cursor", cursorhandler.NewHandler())
	d.RegisterNamespace("edit", editor.New())
	d.RegisterNamespace("rst", rsthandlers.New())
	for action, fallback := range rsthandlers.Passthroughs() {
		d.SetPassthrough(action, fallback)
	}
	a.dispatcher = d
}

// loadKeymap starts from the default bindings and adds the user's
// keybindings.json when present.
func (a *App) loadKeymap() error {
	a.keymap = keymap.Default()

	path := filepath.Join(a.configDir(), KeymapFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return a.keymap.LoadFile(path)
}

func (a *App) configDir() string {
	if a.opts.UserConfigDir != "" {
		return a.opts.UserConfigDir
	}
	return config.DefaultUserConfigDir()
}

func (a *App) loadScripts() error {
	plugins := a.config.Settings().Plugins
	if a.opts.NoScripts || !plugins.Enabled {
		return nil
	}

	log := a.logger.WithComponent("lua")
	host, err := scripting.NewHost(a.dispatcher, scripting.WithLogger(log))
	if err != nil {
		return err
	}
	a.scripts = host

	// a broken script does not stop the editor
	if err := host.LoadDir(plugins.Dir); err != nil {
		log.Warn("%v", err)
	}
	if cmds := host.Commands(); len(cmds) > 0 {
		log.Info("loaded %d script commands", len(cmds))
	}
	return nil
}

// Run dispatches an action and returns its status message.
func (a *App) Run(action input.Action) (string, error) {
	if !a.dispatcher.CanDispatch(action.Name) {
		return "", NewOperationError("run", action.Name, ErrUnknownAction)
	}
	r := a.dispatcher.Dispatch(action.FromSource(input.SourceCommand))
	if r.IsError() {
		return "", NewOperationError("run", action.Name, r.Error)
	}
	return r.Message, nil
}

// Interactive runs the terminal editor on screen until the user quits or
// ctx is cancelled.
func (a *App) Interactive(ctx context.Context, screen tcell.Screen) error {
	opts := []terminal.Option{
		terminal.WithPath(a.doc.Path),
		terminal.WithLogger(a.logger.WithComponent("terminal")),
	}
	if !a.doc.IsScratch() {
		opts = append(opts, terminal.WithSave(a.doc.Save))
	}

	ed := terminal.New(screen, a.doc.Engine, a.dispatcher, a.keymap, opts...)
	return ed.Run(ctx)
}

// Save writes the document to its file.
func (a *App) Save() error {
	if err := a.doc.Save(); err != nil {
		return err
	}
	a.logger.Info("saved %s", a.doc.Path)
	return nil
}

// Stats reports dispatch counts and timings of the n busiest actions.
func (a *App) Stats(n int) string {
	return a.dispatcher.Metrics().Summary(n)
}

// Document returns the open document.
func (a *App) Document() *Document { return a.doc }

// Config returns the configuration.
func (a *App) Config() *config.Config { return a.config }

// Dispatcher returns the action dispatcher.
func (a *App) Dispatcher() *dispatcher.Dispatcher { return a.dispatcher }

// Keymap returns the active keymap.
func (a *App) Keymap() *keymap.Keymap { return a.keymap }

// Scripts returns the script host, or nil when scripts are disabled.
func (a *App) Scripts() *scripting.Host { return a.scripts }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.logger }

// Close stops the scripts and the configuration watcher.
func (a *App) Close() error {
	var err error
	if a.scripts != nil {
		err = a.scripts.Close()
	}
	a.config.Close()
	return err
}
