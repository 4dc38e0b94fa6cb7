// Package terminal is the interactive tcell editor view: it draws the
// document, maps key events through the keymap and dispatches actions.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/dispatcher/handlers/editor"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/input/keymap"
	"github.com/dshills/rstedit/internal/rst/table"
)

// Actions handled by the editor itself.
const (
	ActionSave = "app.save"
	ActionQuit = "app.quit"
)

// Engine is the document state the editor displays.
type Engine interface {
	Document() buffer.Reader
	Selections() []cursor.Selection
	PrimarySelection() cursor.Selection
	IsReadOnly() bool
	RevisionID() buffer.RevisionID
	TabWidth() int
}

// Dispatcher runs actions.
type Dispatcher interface {
	Dispatch(action input.Action) handler.Result
}

// SaveFunc writes the document.
type SaveFunc func() error

// Editor is the interactive editor view.
type Editor struct {
	screen   tcell.Screen
	engine   Engine
	disp     Dispatcher
	keymap   *keymap.Keymap
	logger   execctx.Logger
	save     SaveFunc
	path     string
	styles   Styles
	topLine  int
	leftCol  int
	status   string
	saved    buffer.RevisionID
	pasting  bool
	quitting bool
	done     bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithPath sets the file name shown in the status line.
func WithPath(path string) Option {
	return func(e *Editor) { e.path = path }
}

// WithSave sets the function run by app.save.
func WithSave(fn SaveFunc) Option {
	return func(e *Editor) { e.save = fn }
}

// WithLogger sets the logger.
func WithLogger(l execctx.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStyles sets the display styles.
func WithStyles(s Styles) Option {
	return func(e *Editor) { e.styles = s }
}

// New creates an editor on an initialized screen.
func New(screen tcell.Screen, eng Engine, disp Dispatcher, km *keymap.Keymap, opts ...Option) *Editor {
	e := &Editor{
		screen: screen,
		engine: eng,
		disp:   disp,
		keymap: km,
		logger: nopLogger{},
		styles: DefaultStyles(),
		saved:  eng.RevisionID(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run draws and handles events until the user quits, the screen is
// finalized or ctx is cancelled.
func (e *Editor) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	e.Draw()
	for !e.done {
		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		e.HandleEvent(ev)
		if !e.done {
			e.Draw()
		}
	}
	return nil
}

// Done reports whether the user quit.
func (e *Editor) Done() bool {
	return e.done
}

// Status returns the status line message.
func (e *Editor) Status() string {
	return e.status
}

// Modified reports whether the document changed since it was last saved.
func (e *Editor) Modified() bool {
	return e.engine.RevisionID() != e.saved
}

// HandleEvent processes one screen event.
func (e *Editor) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		e.screen.Sync()
	case *tcell.EventPaste:
		e.pasting = ev.Start()
	case *tcell.EventKey:
		e.handleKey(ev)
	}
}

func (e *Editor) handleKey(ev *tcell.EventKey) {
	if e.pasting {
		e.paste(ev)
		return
	}

	key, ok := KeyString(ev)
	if !ok {
		return
	}
	if key != keymap.MustNormalize("ctrl+q") {
		e.quitting = false
	}

	if action, ok := e.keymap.Lookup(key, e.context()); ok {
		e.run(action.FromSource(input.SourceKeyboard))
		return
	}
	if IsText(ev) {
		e.run(input.NewAction(editor.ActionType).WithText(string(ev.Rune())).FromSource(input.SourceKeyboard))
		return
	}
	e.logger.Debug("unbound key %s", key)
}

// paste types keys verbatim so pasted newlines and tabs skip the list
// and table behavior.
func (e *Editor) paste(ev *tcell.EventKey) {
	var text string
	switch ev.Key() {
	case tcell.KeyRune:
		text = string(ev.Rune())
	case tcell.KeyEnter:
		text = "\n"
	case tcell.KeyTab:
		text = "\t"
	default:
		return
	}
	e.run(input.NewAction(editor.ActionType).WithText(text).FromSource(input.SourceKeyboard))
}

// context returns the keymap flags for the primary selection.
func (e *Editor) context() keymap.Context {
	sel := e.engine.PrimarySelection()
	return keymap.Context{
		keymap.FlagReadOnly:      e.engine.IsReadOnly(),
		keymap.FlagHasSelection:  !sel.IsEmpty(),
		keymap.FlagTableSelected: table.IsSelected(e.engine.Document(), sel.Active.Line),
	}
}

// run executes an action and records its outcome in the status line.
func (e *Editor) run(action input.Action) {
	switch action.Name {
	case ActionSave:
		e.doSave()
		return
	case ActionQuit:
		e.doQuit()
		return
	}

	r := e.disp.Dispatch(action)
	switch {
	case r.IsError():
		e.status = r.Error.Error()
		e.logger.Warn("%s: %v", action.Name, r.Error)
	case r.Message != "":
		e.status = r.Message
	default:
		e.status = ""
	}
}

func (e *Editor) doSave() {
	if e.save == nil {
		e.status = "no file to save to"
		return
	}
	if err := e.save(); err != nil {
		e.status = fmt.Sprintf("save failed: %v", err)
		e.logger.Error("save %s: %v", e.path, err)
		return
	}
	e.saved = e.engine.RevisionID()
	e.status = "saved " + filepath.Base(e.path)
}

// doQuit quits, asking once more when there are unsaved changes.
func (e *Editor) doQuit() {
	if e.Modified() && !e.quitting {
		e.quitting = true
		e.status = "unsaved changes; press ctrl+q again to quit"
		return
	}
	e.done = true
}

// ErrNoScreen is returned by Open when no terminal is available.
var ErrNoScreen = errors.New("no terminal screen")

// Open creates and initializes the terminal screen.
func Open() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoScreen, err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoScreen, err)
	}
	s.EnablePaste()
	return s, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
