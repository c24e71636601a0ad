package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/lintbridge/internal/logging"
)

type trigger struct {
	path string
	kind Kind
}

func newTestWatcher(t *testing.T, opts ...Option) (*Watcher, chan trigger) {
	t.Helper()
	triggers := make(chan trigger, 64)
	opts = append([]Option{WithLogger(logging.NullLogger)}, opts...)
	w, err := New(func(path string, kind Kind) {
		triggers <- trigger{path: path, kind: kind}
	}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, triggers
}

// waitFor reads triggers until one matches path and kind.
func waitFor(t *testing.T, triggers chan trigger, path string, kind Kind) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case tr := <-triggers:
			if tr.path == path && tr.kind == kind {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s trigger on %s", kind, path)
		}
	}
}

// drainFor asserts no trigger for path arrives within the window.
func drainFor(t *testing.T, triggers chan trigger, path string, window time.Duration) {
	t.Helper()
	deadline := time.After(window)
	for {
		select {
		case tr := <-triggers:
			if tr.path == path {
				t.Fatalf("unexpected trigger %s on %s", tr.kind, tr.path)
			}
		case <-deadline:
			return
		}
	}
}

func TestNewRequiresCallback(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoTrigger) {
		t.Errorf("New(nil) error = %v, want ErrNoTrigger", err)
	}
}

func TestCreateTriggersSave(t *testing.T) {
	dir := t.TempDir()
	w, triggers := newTestWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	waitFor(t, triggers, path, KindSave)
}

func TestWriteTriggersChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w, triggers := newTestWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, err := f.WriteString("// more\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	waitFor(t, triggers, path, KindChange)
}

func TestRemoveTriggersRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w, triggers := newTestWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	waitFor(t, triggers, path, KindRemove)
}

func TestRenameIntoPlaceTriggersSave(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.go")
	if err := os.WriteFile(target, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	tmp := filepath.Join(dir, "main.go.tmp")
	if err := os.WriteFile(tmp, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("write tmp: %v", err)
	}

	w, triggers := newTestWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// An editor-style atomic save: rename the temp file onto the
	// target.
	if err := os.Rename(tmp, target); err != nil {
		t.Fatalf("rename: %v", err)
	}

	waitFor(t, triggers, target, KindSave)
}

func TestHiddenFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	w, triggers := newTestWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	hidden := filepath.Join(dir, ".cache")
	if err := os.WriteFile(hidden, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	drainFor(t, triggers, hidden, 300*time.Millisecond)
}

func TestNewDirectoriesAreWatched(t *testing.T) {
	dir := t.TempDir()
	w, triggers := newTestWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher a moment to pick the new directory up.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(sub, "util.go")
	if err := os.WriteFile(path, []byte("package pkg\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	waitFor(t, triggers, path, KindSave)
}

func TestWatchMissingPath(t *testing.T) {
	w, _ := newTestWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Watch() error = nil, want an error")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	if err := w.Watch(t.TempDir()); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v, want ErrWatcherClosed", err)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSave, "save"},
		{KindChange, "change"},
		{KindRemove, "remove"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
