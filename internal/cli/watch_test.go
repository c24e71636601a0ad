package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a writer the command goroutine and the test can share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output %q never contained %q", out.String(), substr)
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestWatchStreamsFindingsAndClearsRemovals(t *testing.T) {
	requireShell(t)

	bin := t.TempDir()
	writeTool(t, bin, "demolint", twoFindings)
	t.Setenv("PATH", bin)

	dir := t.TempDir()
	specPath := writeFile(t, dir, "demolint.lua", toolSpec)
	cfgPath := writeFile(t, dir, "lintbridge.toml", "[adapters.demolint]\ndebounce = 50\n")
	watchDir := filepath.Join(dir, "src")
	if err := os.Mkdir(watchDir, 0o755); err != nil {
		t.Fatal(err)
	}

	out := new(syncBuffer)
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"watch", "--spec", specPath, "--config", cfgPath, watchDir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitForOutput(t, out, "watching")

	target := filepath.Join(watchDir, "demo.go")
	if err := os.WriteFile(target, []byte("package demo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A separate write guarantees a change event even if the create and
	// first write coalesced.
	time.Sleep(50 * time.Millisecond)
	appendFile(t, target, "// more\n")

	waitForOutput(t, out, "bad thing")

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	waitForOutput(t, out, "clean")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}
