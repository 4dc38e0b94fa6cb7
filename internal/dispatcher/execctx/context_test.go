package execctx

import (
	"errors"
	"testing"

	"github.com/dshills/rstedit/internal/engine"
	"github.com/dshills/rstedit/internal/engine/cursor"
	"github.com/dshills/rstedit/internal/rst/listedit"
)

func TestNew(t *testing.T) {
	ctx := New()

	if ctx.Count != 1 {
		t.Errorf("expected count 1, got %d", ctx.Count)
	}
	if ctx.Data == nil {
		t.Error("expected Data to be initialized")
	}
	if ctx.Settings.List.Marker != listedit.MarkerOrdered {
		t.Errorf("expected default marker style, got %v", ctx.Settings.List.Marker)
	}
	if ctx.Log() == nil {
		t.Error("expected a logger")
	}
}

func TestWithBuilders(t *testing.T) {
	e := engine.New(engine.WithContent("x"))
	s := DefaultSettings()
	s.List.AutoRenumber = false

	ctx := New().
		WithEngine(e).
		WithSettings(s).
		WithFilePath("/docs/index.rst").
		WithCount(3).
		WithDryRun(true).
		WithLogger(nil)

	if ctx.Engine != e {
		t.Error("engine not set")
	}
	if ctx.Settings.List.AutoRenumber {
		t.Error("settings not set")
	}
	if ctx.FilePath != "/docs/index.rst" {
		t.Errorf("unexpected file path %q", ctx.FilePath)
	}
	if ctx.GetCount() != 3 || !ctx.DryRun {
		t.Error("count or dry run not set")
	}
	if ctx.Logger == nil {
		t.Error("nil logger should be ignored")
	}
}

func TestGetCount(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 1},
		{-2, 1},
		{1, 1},
		{5, 5},
	}

	for _, tc := range tests {
		ctx := &ExecutionContext{Count: tc.count}
		if got := ctx.GetCount(); got != tc.want {
			t.Errorf("GetCount() with %d = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestHasSelection(t *testing.T) {
	e := engine.New(engine.WithContent("hello world"))
	ctx := New().WithEngine(e)

	if ctx.HasSelection() {
		t.Error("caret only should not count as selection")
	}

	e.SetSelections([]cursor.Selection{cursor.At(0, 0), cursor.NewSelection(engine.Position{Line: 0, Character: 2}, engine.Position{Line: 0, Character: 5})})
	if !ctx.HasSelection() {
		t.Error("expected selection")
	}

	if New().HasSelection() {
		t.Error("context without engine has no selection")
	}
}

func TestData(t *testing.T) {
	ctx := &ExecutionContext{}

	if _, ok := ctx.GetData("missing"); ok {
		t.Error("nil map should report missing")
	}

	ctx.SetData("key", "value")
	ctx.SetData("n", 2)

	if ctx.GetDataString("key") != "value" {
		t.Errorf("unexpected value %q", ctx.GetDataString("key"))
	}
	if ctx.GetDataString("n") != "" {
		t.Error("non-string value should give empty string")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ctx     *ExecutionContext
		edit    bool
		wantErr error
	}{
		{"missing engine", New(), false, ErrMissingEngine},
		{"missing engine edit", New(), true, ErrMissingEngine},
		{"valid", New().WithEngine(engine.New()), true, nil},
		{"read-only read", New().WithEngine(engine.New(engine.WithReadOnly())), false, nil},
		{"read-only edit", New().WithEngine(engine.New(engine.WithReadOnly())), true, ErrReadOnly},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			if tc.edit {
				err = tc.ctx.ValidateForEdit()
			} else {
				err = tc.ctx.Validate()
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
