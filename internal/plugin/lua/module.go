package lua

import (
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/engine/buffer"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/input"
	"github.com/dshills/rstedit/internal/rst/decoration"
	"github.com/dshills/rstedit/internal/rst/listedit"
	"github.com/dshills/rstedit/internal/rst/paths"
	"github.com/dshills/rstedit/internal/rst/table"
	"github.com/dshills/rstedit/internal/rst/underline"
)

// moduleFuncs returns the functions of the rst module. Positions are
// zero-based, characters count runes.
func (h *Host) moduleFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"command":  h.command,
		"dispatch": h.dispatch,
		"log":      h.log,
		"settings": h.settings,

		"toggle":         h.toggle,
		"parse_marker":   h.parseMarker,
		"width":          h.width,
		"next_underline": h.nextUnderline,
		"create_table":   h.createTable,
		"data_to_table":  h.dataToTable,
		"relative_path":  h.relativePath,

		"line_count":   h.lineCount,
		"line":         h.line,
		"text":         h.text,
		"selections":   h.selections,
		"select":       h.selectRange,
		"replace":      h.replace,
		"insert":       h.insert,
		"set_line":     h.setLine,
		"file_path":    h.filePath,
		"is_read_only": h.isReadOnly,
	}
}

// invocation returns the running command or raises an error.
func (h *Host) invocation(L *lua.LState) *invocation {
	if h.current == nil || h.current.ctx.Engine == nil {
		L.RaiseError("%v", ErrNoDocument)
		return nil
	}
	return h.current
}

// execSettings returns the settings of the running command, or the
// defaults while scripts load.
func (h *Host) execSettings() execctx.Settings {
	if h.current != nil {
		return h.current.ctx.Settings
	}
	return execctx.DefaultSettings()
}

// command(name, fn) -> action name
func (h *Host) command(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if strings.TrimSpace(name) == "" {
		L.ArgError(1, "command name is empty")
		return 0
	}
	L.Push(lua.LString(h.register(name, fn)))
	return 1
}

// dispatch(name, args?) -> ok, message
// args.text becomes the action text; other fields become arguments.
func (h *Host) dispatch(L *lua.LState) int {
	name := L.CheckString(1)
	if strings.HasPrefix(name, CommandPrefix) && h.current != nil {
		L.RaiseError("%v", ErrNestedScript)
		return 0
	}

	action := input.NewAction(name).FromSource(input.SourceScript)
	if args := L.OptTable(2, nil); args != nil {
		if m, ok := h.bridge.ToGoValue(args).(map[string]any); ok {
			for k, v := range m {
				if k == "text" {
					if s, ok := v.(string); ok {
						action = action.WithText(s)
						continue
					}
				}
				action = action.WithArg(k, v)
			}
		}
	}

	res := h.dispatcher.Dispatch(action)
	if h.current != nil && len(res.Changes) > 0 {
		h.current.moved = true
	}
	msg := res.Message
	if res.Error != nil {
		msg = res.Error.Error()
	}
	L.Push(lua.LBool(!res.IsError()))
	L.Push(lua.LString(msg))
	return 2
}

// log(msg) or log(level, msg)
func (h *Host) log(L *lua.LState) int {
	level, msg := "info", L.CheckString(1)
	if L.GetTop() > 1 {
		level, msg = strings.ToLower(msg), L.CheckString(2)
	}
	switch level {
	case "debug":
		h.logger.Debug("lua: %s", msg)
	case "warn", "warning":
		h.logger.Warn("lua: %s", msg)
	case "error":
		h.logger.Error("lua: %s", msg)
	default:
		h.logger.Info("lua: %s", msg)
	}
	return 0
}

// settings() -> table
func (h *Host) settings(L *lua.LState) int {
	s := h.execSettings()
	t := L.CreateTable(0, 5)
	t.RawSetString("marker", lua.LString(string(s.List.Marker)))
	t.RawSetString("autoRenumber", lua.LBool(s.List.AutoRenumber))
	t.RawSetString("indentationSize", lua.LString(s.List.Indentation.String()))
	t.RawSetString("tabSize", lua.LNumber(s.List.TabSize))
	t.RawSetString("minCellWidth", lua.LNumber(s.Table.MinCellWidth))
	L.Push(t)
	return 1
}

// toggle(line, start, end, kind) -> line, removed, start, end
func (h *Host) toggle(L *lua.LState) int {
	line := L.CheckString(1)
	start, end := L.CheckInt(2), L.CheckInt(3)
	kind, ok := decoration.ParseKind(L.OptString(4, "bold"))
	if !ok {
		L.ArgError(4, "unknown decoration kind")
		return 0
	}

	r := decoration.Toggle(line, start, end, kind)
	L.Push(lua.LString(r.Line))
	L.Push(lua.LBool(r.Removed))
	L.Push(lua.LNumber(r.Start))
	L.Push(lua.LNumber(r.End))
	return 4
}

// parse_marker(line) -> {leading, number, delimiter, trailing} or nil
func (h *Host) parseMarker(L *lua.LState) int {
	m, ok := listedit.ParseMarker(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(h.bridge.ToLuaValue(map[string]any{
		"leading":   m.Leading,
		"number":    m.Number,
		"delimiter": string(m.Delimiter),
		"trailing":  m.Trailing,
	}))
	return 1
}

// width(s) -> display width
func (h *Host) width(L *lua.LState) int {
	L.Push(lua.LNumber(underline.Width(L.CheckString(1))))
	return 1
}

// next_underline(char, reverse?) -> char
func (h *Host) nextUnderline(L *lua.LState) int {
	r, _ := utf8.DecodeRuneInString(L.OptString(1, ""))
	L.Push(lua.LString(string(underline.Next(r, L.OptBool(2, false)))))
	return 1
}

// create_table(rows, cols) -> lines
func (h *Host) createTable(L *lua.LState) int {
	lines, err := table.CreateEmptyGrid(L.CheckInt(1), L.CheckInt(2), h.execSettings().Table)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(h.bridge.ToLuaValue(lines))
	return 1
}

// data_to_table(text, delimiter?) -> lines
// Without a delimiter one is guessed from the text.
func (h *Host) dataToTable(L *lua.LState) int {
	text := L.CheckString(1)
	delim, _ := utf8.DecodeRuneInString(L.OptString(2, ""))
	if delim == utf8.RuneError {
		delim = table.GuessDelimiter(text)
	}
	lines, err := table.DataToTable(text, delim, h.execSettings().Table)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(h.bridge.ToLuaValue(lines))
	return 1
}

// relative_path(target, with_ext?) -> path relative to the document
func (h *Host) relativePath(L *lua.LState) int {
	inv := h.invocation(L)
	rel, err := paths.Relative(inv.ctx.FilePath, L.CheckString(1), L.OptBool(2, true))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LString(rel))
	return 1
}

// line_count() -> n
func (h *Host) lineCount(L *lua.LState) int {
	inv := h.invocation(L)
	L.Push(lua.LNumber(inv.ctx.Engine.Document().LineCount()))
	return 1
}

// line(n) -> text, "" when out of range
func (h *Host) line(L *lua.LState) int {
	inv := h.invocation(L)
	L.Push(lua.LString(inv.ctx.Engine.Document().LineText(L.CheckInt(1))))
	return 1
}

// text() -> the document joined with "\n"
func (h *Host) text(L *lua.LState) int {
	doc := h.invocation(L).ctx.Engine.Document()
	lines := make([]string, doc.LineCount())
	for i := range lines {
		lines[i] = doc.LineText(i)
	}
	L.Push(lua.LString(strings.Join(lines, "\n")))
	return 1
}

// selections() -> {{anchor=..., active=...}, ...}, primary first
func (h *Host) selections(L *lua.LState) int {
	sels := h.invocation(L).ctx.Engine.Selections()
	t := L.CreateTable(len(sels), 0)
	for _, s := range sels {
		t.Append(h.bridge.SelectionTable(s))
	}
	L.Push(t)
	return 1
}

// select(line, char) or select(anchorLine, anchorChar, activeLine, activeChar)
func (h *Host) selectRange(L *lua.LState) int {
	inv := h.invocation(L)
	anchor := buffer.Pos(L.CheckInt(1), L.CheckInt(2))
	active := anchor
	if L.GetTop() >= 4 {
		active = buffer.Pos(L.CheckInt(3), L.CheckInt(4))
	}
	if !inv.ctx.DryRun {
		inv.ctx.Engine.SetSelections([]cursor.Selection{cursor.NewSelection(anchor, active)})
	}
	inv.moved = true
	return 0
}

// replace(startLine, startChar, endLine, endChar, text)
func (h *Host) replace(L *lua.LState) int {
	inv := h.invocation(L)
	r := buffer.NewRange(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
	h.applyEdits(L, inv, buffer.NewReplace(r, L.CheckString(5)))
	return 0
}

// insert(line, char, text)
func (h *Host) insert(L *lua.LState) int {
	inv := h.invocation(L)
	h.applyEdits(L, inv, buffer.NewInsert(buffer.Pos(L.CheckInt(1), L.CheckInt(2)), L.CheckString(3)))
	return 0
}

// set_line(n, text)
func (h *Host) setLine(L *lua.LState) int {
	inv := h.invocation(L)
	n := L.CheckInt(1)
	doc := inv.ctx.Engine.Document()
	if n < 0 || n >= doc.LineCount() {
		L.ArgError(1, "line out of range")
		return 0
	}
	h.applyEdits(L, inv, buffer.NewLineReplace(n, doc.LineText(n), L.CheckString(2)))
	return 0
}

func (h *Host) applyEdits(L *lua.LState, inv *invocation, edits ...buffer.Edit) {
	if err := inv.apply(edits); err != nil {
		L.RaiseError("%v", err)
	}
}

// file_path() -> path of the document, "" when unsaved
func (h *Host) filePath(L *lua.LState) int {
	L.Push(lua.LString(h.invocation(L).ctx.FilePath))
	return 1
}

// is_read_only() -> bool
func (h *Host) isReadOnly(L *lua.LState) int {
	L.Push(lua.LBool(h.invocation(L).ctx.IsReadOnly()))
	return 1
}
