package command

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExecutable creates a runnable script in dir and returns its path.
func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	return path
}

func TestResolve_FirstHitWins(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures")
	}

	dir := t.TempDir()
	writeExecutable(t, dir, "lint-a")
	writeExecutable(t, dir, "lint-b")
	t.Setenv("PATH", dir)

	path, err := Resolve([]string{"lint-missing", "lint-a", "lint-b"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(path) != "lint-a" {
		t.Errorf("resolved '%s', expected the first available candidate lint-a", path)
	}
}

func TestResolve_SingleCandidate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures")
	}

	dir := t.TempDir()
	writeExecutable(t, dir, "onlylint")
	t.Setenv("PATH", dir)

	path, err := Resolve([]string{"onlylint"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(path) != "onlylint" {
		t.Errorf("resolved '%s', expected onlylint", path)
	}
}

func TestResolve_NoneFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Resolve([]string{"lint-a", "", "lint-b"})
	if err == nil {
		t.Fatal("expected error when no candidate resolves")
	}

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	// Empty entries are skipped, not reported
	if len(nfe.Candidates) != 2 {
		t.Errorf("Candidates = %v, expected the two named candidates", nfe.Candidates)
	}
	if !strings.Contains(err.Error(), "lint-a") || !strings.Contains(err.Error(), "lint-b") {
		t.Errorf("error should name every attempted candidate, got: %v", err)
	}
}

func TestResolve_NoCandidates(t *testing.T) {
	_, err := Resolve(nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}

	_, err = Resolve([]string{"", ""})
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates for all-empty candidates, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures")
	}

	dir := t.TempDir()
	writeExecutable(t, dir, "demolint")
	t.Setenv("PATH", dir)

	cmd, err := Build([]string{"demolint"}, []string{"--format", "json", "main.go"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if filepath.Base(cmd.Path) != "demolint" {
		t.Errorf("Path = '%s'", cmd.Path)
	}
	if len(cmd.Args) != 3 || cmd.Args[0] != "--format" {
		t.Errorf("Args = %v", cmd.Args)
	}
}

func TestBuild_ResolutionFailure(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Build([]string{"demolint"}, nil)
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{Path: "/usr/bin/demolint", Args: []string{"--json", "a.go"}}
	if got := c.String(); got != "/usr/bin/demolint --json a.go" {
		t.Errorf("String() = '%s'", got)
	}

	bare := Command{Path: "/usr/bin/demolint"}
	if got := bare.String(); got != "/usr/bin/demolint" {
		t.Errorf("String() = '%s'", got)
	}
}
