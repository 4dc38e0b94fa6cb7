package dispatcher_test

import (
	"reflect"
	"testing"

	"github.com/dshills/rstedit/internal/dispatcher"
	"github.com/dshills/rstedit/internal/dispatcher/execctx"
	"github.com/dshills/rstedit/internal/dispatcher/handler"
	"github.com/dshills/rstedit/internal/input"
)

func rstNamespace() *handler.BaseNamespaceHandler {
	bnh := handler.NewBaseNamespaceHandler("rst")
	bnh.Register("rst.bold", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("bold")
	})
	return bnh
}
func TestRouterRegisterNamespace(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("rst", rstNamespace())

	if h := router.Namespace("rst"); h == nil || h.Namespace() != "rst" {
		t.Error("expected rst namespace handler")
	}

	router.UnregisterNamespace("rst")
	if router.Namespace("rst") != nil {
		t.Error("expected no rst handler after unregister")
	}
}

func TestRouterRoute(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("rst", rstNamespace())

	h := router.Route("rst.bold")
	if h == nil {
		t.Fatal("expected handler for 'rst.bold'")
	}
	if r := h.Handle(input.NewAction("rst.bold"), execctx.New()); r.Message != "bold" {
		t.Errorf("unexpected message %q", r.Message)
	}

	for _, name := range []string{"rst.unknown", "edit.undo", "plain"} {
		if router.Route(name) != nil {
			t.Errorf("expected no handler for %q", name)
		}
		if router.CanRoute(name) {
			t.Errorf("expected CanRoute(%q) to be false", name)
		}
	}
}

func TestRouterPassthrough(t *testing.T) {
	router := dispatcher.NewRouter()
	router.SetPassthrough("rst.key.enter", "edit.newline")

	if fb, ok := router.Passthrough("rst.key.enter"); !ok || fb != "edit.newline" {
		t.Errorf("Passthrough() = %q, %v", fb, ok)
	}
	if _, ok := router.Passthrough("rst.key.tab"); ok {
		t.Error("unexpected passthrough for rst.key.tab")
	}

	router.SetPassthrough("rst.key.enter", "")
	if _, ok := router.Passthrough("rst.key.enter"); ok {
		t.Error("empty fallback should remove the passthrough")
	}
}

func TestRouterNamespacesAndActions(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("script", handler.NewBaseNamespaceHandler("script"))
	router.RegisterNamespace("rst", rstNamespace())
	edit := handler.NewBaseNamespaceHandler("edit")
	edit.Register("edit.undo", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	})
	router.RegisterNamespace("edit", edit)

	if got, want := router.Namespaces(), []string{"edit", "rst", "script"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Namespaces() = %v, want %v", got, want)
	}
	if got, want := router.Actions(), []string{"edit.undo", "rst.bold"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Actions() = %v, want %v", got, want)
	}
}

func TestSplitAction(t *testing.T) {
	tests := []struct {
		full, ns, name string
	}{
		{"rst.key.enter", "rst", "key.enter"},
		{"edit.undo", "edit", "undo"},
		{"single", "", "single"},
	}

	for _, tc := range tests {
		ns, name := dispatcher.SplitAction(tc.full)
		if ns != tc.ns || name != tc.name {
			t.Errorf("SplitAction(%q) = %q, %q, want %q, %q", tc.full, ns, name, tc.ns, tc.name)
		}
	}
}
