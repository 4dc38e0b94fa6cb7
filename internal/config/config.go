package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/dshills/rstedit/internal/config/layer"
	"github.com/dshills/rstedit/internal/config/loader"
	"github.com/dshills/rstedit/internal/config/watcher"
	"github.com/dshills/rstedit/internal/dispatcher/execctx"
)

// File names the configuration sources are read from.
const (
	UserFileName    = "config.toml"
	ProjectFileName = ".rstedit.yaml"
	VSCodeFileName  = "settings.json"
	VSCodeDirName   = ".vscode"
)

// ChangeHandler is called after a reload changed the effective settings.
// Paths lists the setting paths whose values changed.
type ChangeHandler func(s Settings, paths []string)

// Config loads the configuration layers and holds the current settings.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	settings Settings
	files    map[string]layer.Source // watched file -> layer

	watcher       *watcher.Watcher
	enableWatcher bool
	handlers      []ChangeHandler
	logger        execctx.Logger
	env           loader.Loader

	userConfigDir string
	projectDir    string
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the directory holding config.toml.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithProjectDir sets the project directory holding .rstedit.yaml and
// .vscode/settings.json. Without it only user settings are read.
func WithProjectDir(dir string) Option {
	return func(c *Config) {
		c.projectDir = dir
	}
}

// WithWatcher enables reloading when a configuration file changes.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithLogger sets the logger for reload diagnostics.
func WithLogger(l execctx.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEnvLoader replaces the environment variable loader.
func WithEnvLoader(l loader.Loader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// New creates a Config holding only the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers:   layer.NewManager(),
		settings: DefaultSettings(),
		files:    make(map[string]layer.Source),
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = DefaultUserConfigDir()
	}
	if c.env == nil {
		c.env = loader.NewEnvLoader(loader.EnvPrefix, Sections...)
	}

	c.layers.Put(layer.NewLayerWithData(layer.SourceBuiltin, "", Defaults()))
	c.layers.Put(layer.NewLayer(layer.SourceArgs))
	return c
}

// DefaultUserConfigDir returns $XDG_CONFIG_HOME/rstedit or
// ~/.config/rstedit.
func DefaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rstedit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rstedit")
}

// UserFile returns the path of the user TOML file.
func (c *Config) UserFile() string {
	return filepath.Join(c.userConfigDir, UserFileName)
}

// ProjectFile returns the path of the project YAML file, or "".
func (c *Config) ProjectFile() string {
	if c.projectDir == "" {
		return ""
	}
	return filepath.Join(c.projectDir, ProjectFileName)
}

// VSCodeFile returns the path of the project VS Code settings, or "".
func (c *Config) VSCodeFile() string {
	if c.projectDir == "" {
		return ""
	}
	return filepath.Join(c.projectDir, VSCodeDirName, VSCodeFileName)
}

// fileLoaders returns the file layers in priority order.
func (c *Config) fileLoaders() map[layer.Source]loader.FileLoader {
	loaders := map[layer.Source]loader.FileLoader{
		layer.SourceUser: loader.NewTOMLLoader(c.UserFile()),
	}
	if c.projectDir != "" {
		loaders[layer.SourceProject] = loader.NewYAMLLoader(c.ProjectFile())
		loaders[layer.SourceVSCode] = loader.NewVSCodeLoader(c.VSCodeFile())
	}
	return loaders
}

// Load reads every configuration source and decodes the result. With the
// watcher enabled, later file changes reload the affected layer.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for source, l := range c.fileLoaders() {
		if err := c.loadLayer(source, l); err != nil {
			return err
		}
		c.files[filepath.Clean(l.Path())] = source
	}

	env, err := c.env.Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	c.layers.Put(layer.NewLayerWithData(layer.SourceEnv, "", env))

	s, err := Decode(c.layers.Merge())
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()

	if c.enableWatcher {
		return c.startWatcher()
	}
	return nil
}

func (c *Config) loadLayer(source layer.Source, l loader.FileLoader) error {
	data, err := l.Load()
	if err != nil {
		return err
	}
	if data == nil {
		c.layers.Remove(source.String())
		return nil
	}
	c.layers.Put(layer.NewLayerWithData(source, l.Path(), data))
	return nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		c.logger.Warn("config watcher: %v", err)
	}))
	if err != nil {
		return err
	}

	for path := range c.files {
		if err := w.Watch(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.Stop()
			return err
		}
	}

	w.OnChange(c.handleFileChange)
	w.Start()

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// handleFileChange reloads the layer of a changed file. Invalid files
// keep the previous settings.
func (c *Config) handleFileChange(event watcher.Event) {
	source, ok := c.files[filepath.Clean(event.Path)]
	if !ok {
		return
	}

	var l loader.FileLoader
	for s, fl := range c.fileLoaders() {
		if s == source {
			l = fl
		}
	}
	if l == nil {
		return
	}

	c.logger.Debug("config: %s %s", event.Op, event.Path)
	if err := c.reload(func() error { return c.loadLayer(source, l) }); err != nil {
		c.logger.Warn("config: keeping previous settings: %v", err)
	}
}

// Reload re-reads every source. On error the previous settings stay in
// effect.
func (c *Config) Reload() error {
	return c.reload(func() error {
		for source, l := range c.fileLoaders() {
			if err := c.loadLayer(source, l); err != nil {
				return err
			}
		}
		env, err := c.env.Load()
		if err != nil {
			return err
		}
		c.layers.Put(layer.NewLayerWithData(layer.SourceEnv, "", env))
		return nil
	})
}

// reload runs update against the layers and publishes the result.
func (c *Config) reload(update func() error) error {
	c.mu.Lock()

	saved := c.layers.Layers()
	for i, l := range saved {
		saved[i] = l.Clone()
	}
	before := c.layers.Merge()

	restore := func() {
		for _, l := range c.layers.Layers() {
			c.layers.Remove(l.Name)
		}
		for _, l := range saved {
			c.layers.Put(l)
		}
	}

	if err := update(); err != nil {
		restore()
		c.mu.Unlock()
		return err
	}

	after := c.layers.Merge()
	s, err := Decode(after)
	if err != nil {
		restore()
		c.mu.Unlock()
		return err
	}

	c.settings = s
	handlers := append([]ChangeHandler(nil), c.handlers...)
	c.mu.Unlock()

	if changed := layer.Changed(before, after); len(changed) > 0 {
		for _, h := range handlers {
			h(s, changed)
		}
	}
	return nil
}

// Set overrides a setting for this session, as a command-line flag does.
// The value is rejected with ErrInvalidValue if it does not decode.
func (c *Config) Set(path string, value any) error {
	if _, ok := c.Get(path); !ok {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return c.reload(func() error {
		return c.layers.Set(layer.SourceArgs.String(), path, value)
	})
}

// Persist writes a setting to the project VS Code settings file and
// reloads. The value is validated before anything is written.
func (c *Config) Persist(path string, value any) error {
	if _, ok := c.Get(path); !ok {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}

	file := c.VSCodeFile()
	if file == "" {
		return errors.New("persisting settings requires a project directory")
	}

	merged := c.layers.Merge()
	layer.SetByPath(merged, path, value)
	if _, err := Decode(merged); err != nil {
		return err
	}

	if err := loader.WriteVSCodeSetting(file, path, value); err != nil {
		return err
	}
	return c.Reload()
}

// ParseValue converts command-line text to a bool, an int or a string.
func ParseValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// Settings returns the current settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// ExecSettings returns the current handler settings.
func (c *Config) ExecSettings() execctx.Settings {
	return c.Settings().Exec()
}

// Get returns the effective raw value of a setting.
func (c *Config) Get(path string) (any, bool) {
	return layer.GetByPath(c.layers.Merge(), path)
}

// Source returns the name of the layer providing a setting.
func (c *Config) Source(path string) string {
	return c.layers.WhichLayer(path)
}

// Merged returns the merged configuration map.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// OnChange registers a handler called after settings change.
func (c *Config) OnChange(h ChangeHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Close stops the file watcher.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
