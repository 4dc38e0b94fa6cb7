// Package main is the entry point for rstedit, a reStructuredText editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/dshills/rstedit/internal/app"
	"github.com/dshills/rstedit/internal/config"
	"github.com/dshills/rstedit/internal/config/layer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "run":
			return runActions(ctx, args[1:], stdout, stderr)
		case "config":
			return runConfig(ctx, args[1:], stdout, stderr)
		case "actions":
			return listActions(ctx, args[1:], stdout, stderr)
		case "version":
			fmt.Fprintf(stdout, "rstedit %s (%s)\n", version, commit)
			return 0
		}
	}
	return runEditor(ctx, args, stderr)
}

// commonFlags are shared by the commands that open a document.
type commonFlags struct {
	project   string
	userDir   string
	logLevel  string
	readOnly  bool
	noScripts bool
	settings  kvFlag
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "project", "", "Project directory (default: directory of the file)")
	fs.StringVar(&c.userDir, "config-dir", "", "User configuration directory")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&c.readOnly, "readonly", false, "Open the file read-only")
	fs.BoolVar(&c.noScripts, "no-scripts", false, "Do not load Lua scripts")
	fs.Var(&c.settings, "set", "Override a setting, as path=value (repeatable)")
}

func (c *commonFlags) validate() error {
	switch c.logLevel {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.logLevel)
	}
}

func (c *commonFlags) options(file string, logOutput io.Writer) app.Options {
	return app.Options{
		File:          file,
		ProjectDir:    c.project,
		UserConfigDir: c.userDir,
		LogLevel:      c.logLevel,
		LogOutput:     logOutput,
		Overrides:     c.settings.m,
		ReadOnly:      c.readOnly,
		NoScripts:     c.noScripts,
	}
}

func runEditor(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("rstedit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	logFile := fs.String("log-file", "", "Write logs to this file while the editor runs")
	watch := fs.Bool("watch", true, "Reload settings when configuration files change")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "rstedit - reStructuredText editor\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  rstedit [options] [file]           Edit a file\n")
		fmt.Fprintf(stderr, "  rstedit run [options] file         Run actions on a file\n")
		fmt.Fprintf(stderr, "  rstedit config get|set|list ...    Read or change settings\n")
		fmt.Fprintf(stderr, "  rstedit actions                    List the available actions\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := common.validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	// the terminal owns the screen, so logs go to a file or nowhere
	var logOutput io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		logOutput = f
	}

	opts := common.options(fs.Arg(0), logOutput)
	opts.Watch = *watch
	application, err := app.New(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	screen, err := terminal.Open()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	err = application.Interactive(ctx, screen)
	screen.Fini()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runActions(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rstedit run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	var actions, selections listFlag
	fs.Var(&actions, "do", `Action to run, as "name key=value ..." (repeatable)`)
	fs.Var(&selections, "select", "Selection as line:col or line:col-line:col, one-based (repeatable)")
	write := fs.Bool("w", false, "Write the result back to the file instead of stdout")
	stats := fs.Bool("stats", false, "Print dispatch statistics to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rstedit run [options] file\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExample:\n")
		fmt.Fprintf(stderr, "  rstedit run -select 3:1 -do rst.key.enter -w index.rst\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := common.validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if fs.NArg() != 1 || len(actions) == 0 {
		fs.Usage()
		return 2
	}

	sels := make([]cursor.Selection, 0, len(selections))
	for _, s := range selections {
		sel, err := app.ParseSelection(s)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		sels = append(sels, sel)
	}

	application, err := app.New(ctx, common.options(fs.Arg(0), stderr))
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if len(sels) > 0 {
		application.Select(sels...)
	}
	for _, spec := range actions {
		action, err := app.ParseAction(spec)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		msg, err := application.Run(action)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if msg != "" {
			fmt.Fprintf(stderr, "%s: %s\n", action.Name, msg)
		}
	}

	if *stats {
		fmt.Fprint(stderr, application.Stats(10))
	}
	if *write {
		if err := application.Save(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, application.Document().Content())
	return 0
}

func listActions(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rstedit actions", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.New(ctx, common.options("", stderr))
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	for _, name := range application.Dispatcher().Actions() {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

func runConfig(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rstedit config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	project := fs.String("project", ".", "Project directory")
	userDir := fs.String("config-dir", "", "User configuration directory")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  rstedit config [options] get <path>\n")
		fmt.Fprintf(stderr, "  rstedit config [options] set <path> <value>\n")
		fmt.Fprintf(stderr, "  rstedit config [options] list\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := []config.Option{config.WithProjectDir(*project)}
	if *userDir != "" {
		opts = append(opts, config.WithUserConfigDir(*userDir))
	}
	cfg := config.New(opts...)
	defer cfg.Close()
	if err := cfg.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}
	switch {
	case rest[0] == "get" && len(rest) == 2:
		v, ok := cfg.Get(rest[1])
		if !ok {
			fmt.Fprintf(stderr, "Error: %v: %s\n", config.ErrSettingNotFound, rest[1])
			return 1
		}
		fmt.Fprintln(stdout, v)
	case rest[0] == "set" && len(rest) == 3:
		if err := cfg.Persist(rest[1], config.ParseValue(rest[2])); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s = %v (%s)\n", rest[1], config.ParseValue(rest[2]), cfg.VSCodeFile())
	case rest[0] == "list" && len(rest) == 1:
		flat := layer.FlattenMap(cfg.Merged())
		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(stdout, "%s = %v\t[%s]\n", k, flat[k], cfg.Source(k))
		}
	default:
		fs.Usage()
		return 2
	}
	return 0
}

// listFlag collects the values of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ", ") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// kvFlag collects repeatable path=value flags.
type kvFlag struct {
	m map[string]string
}

func (k *kvFlag) String() string {
	pairs := make([]string, 0, len(k.m))
	for p, v := range k.m {
		pairs = append(pairs, p+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (k *kvFlag) Set(v string) error {
	path, value, ok := strings.Cut(v, "=")
	if !ok || path == "" {
		return fmt.Errorf("expected path=value, got %q", v)
	}
	if k.m == nil {
		k.m = make(map[string]string)
	}
	k.m[path] = value
	return nil
}
