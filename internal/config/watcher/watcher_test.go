package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestOperationString(t *testing.T) {
	tests := map[Operation]string{
		OpWrite:       "write",
		OpCreate:      "create",
		OpRemove:      "remove",
		OpRename:      "rename",
		Operation(42): "unknown",
	}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", op, got, want)
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := newWatcher(t)
	missing := filepath.Join(t.TempDir(), "nope", "settings.json")

	if err := w.Watch(missing); !os.IsNotExist(err) {
		t.Errorf("Watch(missing dir) = %v, want not-exist error", err)
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)

	a := filepath.Join(dir, "config.toml")
	b := filepath.Join(dir, ".rstedit.yaml")
	for _, p := range []string{a, b, a} {
		if err := w.Watch(p); err != nil {
			t.Fatalf("Watch(%s) failed: %v", p, err)
		}
	}
	if n := len(w.WatchedFiles()); n != 2 {
		t.Fatalf("watching %d files, want 2", n)
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch failed: %v", err)
	}
	if files := w.WatchedFiles(); len(files) != 1 || files[0] != b {
		t.Errorf("WatchedFiles() = %v, want [%s]", files, b)
	}
}

func TestWriteEventDebounced(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(file, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(50*time.Millisecond))
	if err := w.Watch(file); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	events := make(chan Event, 10)
	w.OnChange(func(ev Event) { events <- ev })
	w.Start()
	if !w.IsRunning() {
		t.Fatal("watcher not running after Start")
	}

	for i := range 3 {
		if err := os.WriteFile(file, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ev := waitEvent(t, events)
	if ev.Path != file || ev.Op != OpWrite {
		t.Errorf("event = %s %s, want %s write", ev.Path, ev.Op, file)
	}

	select {
	case extra := <-events:
		t.Errorf("writes were not coalesced, extra event %s", extra.Op)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCreateAndIgnoreOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.json")

	w := newWatcher(t, WithDebounce(0))
	if err := w.Watch(file); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	events := make(chan Event, 10)
	w.OnChange(func(ev Event) { events <- ev })
	w.OnChange(func(Event) { panic("handler panics are recovered") })
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, events)
	if ev.Path != file || ev.Op != OpCreate {
		t.Errorf("event = %s %s, want %s create", ev.Path, ev.Op, file)
	}
}

func TestRemoveEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".rstedit.yaml")
	if err := os.WriteFile(file, []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(file); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	events := make(chan Event, 10)
	w.OnChange(func(ev Event) { events <- ev })
	w.Start()

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}

	if ev := waitEvent(t, events); ev.Op != OpRemove {
		t.Errorf("op = %s, want remove", ev.Op)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w := newWatcher(t)
	w.Start()
	w.Stop()
	w.Stop()

	if w.IsRunning() {
		t.Error("watcher running after Stop")
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); err != ErrWatcherClosed {
		t.Errorf("Watch after Stop = %v, want ErrWatcherClosed", err)
	}
}
