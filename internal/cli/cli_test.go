package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// toolSpec is a minimal Lua adapter spec used across the command tests.
// The tool named demolint must be placed on PATH by each test.
const toolSpec = `
return {
	name = "demolint",
	command = { "demolint" },
	args = function(ctx)
		return { "check", ctx.file }
	end,
	validate = function(result)
		return result.message ~= nil
	end,
	transform = function(result, ctx)
		return {
			lnum = result.line - 1,
			col = result.column - 1,
			message = result.message,
			severity = result.level or "error",
		}
	end,
}
`

// ghostSpec names an executable that never resolves.
const ghostSpec = `
return {
	name = "ghostlint",
	command = { "ghostlint-missing" },
	args = function(ctx) return { ctx.file } end,
	validate = function(result) return true end,
	transform = function(result, ctx) return { lnum = 0, col = 0, message = "x" } end,
}
`

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive /bin/sh tool scripts")
	}
}

// writeFile writes content into dir under name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// writeTool installs an executable shell script named name in dir.
func writeTool(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("writing tool %s: %v", name, err)
	}
	return path
}

// execute runs the root command with args and returns its combined
// output and error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "lintbridge") {
		t.Errorf("output %q missing program name", out)
	}
}

func TestAdaptersCommandListsResolution(t *testing.T) {
	requireShell(t)

	bin := t.TempDir()
	writeTool(t, bin, "demolint", `echo '[]'`)
	t.Setenv("PATH", bin)

	specDir := t.TempDir()
	writeFile(t, specDir, "demolint.lua", toolSpec)
	writeFile(t, specDir, "ghostlint.lua", ghostSpec)

	out, err := execute(t, "adapters", "--spec", specDir)
	if err != nil {
		t.Fatalf("adapters: %v", err)
	}

	if !strings.Contains(out, "demolint") {
		t.Errorf("output %q missing demolint", out)
	}
	if !strings.Contains(out, filepath.Join(bin, "demolint")) {
		t.Errorf("output %q missing resolved path", out)
	}
	if !strings.Contains(out, "ghostlint") || !strings.Contains(out, "not found") {
		t.Errorf("output %q missing unresolved adapter", out)
	}
}

func TestConfigCommandShowsMergedSettings(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	specPath := writeFile(t, dir, "demolint.lua", toolSpec)
	cfgPath := writeFile(t, dir, "lintbridge.toml", `
[adapters.demolint]
run_mode = "change"
debounce = 250
`)

	out, err := execute(t, "config", "--spec", specPath, "--config", cfgPath)
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	for _, want := range []string{"demolint", "run_mode: change", "debounce: 250ms", "enabled: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestConfigFileParseErrorSurfaces(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "demolint.lua", toolSpec)
	cfgPath := writeFile(t, dir, "lintbridge.toml", `adapters = "not a table`)

	_, err := execute(t, "config", "--spec", specPath, "--config", cfgPath)
	if err == nil {
		t.Fatal("want error for malformed configuration file")
	}
}

func TestCommandsRequireSpecs(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "demo.go", "package demo\n")

	_, err := execute(t, "run", target)
	if err == nil || !strings.Contains(err.Error(), "no adapters loaded") {
		t.Fatalf("err = %v, want no-adapters error", err)
	}
}

func TestBadSpecPathFails(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "demo.go", "package demo\n")

	_, err := execute(t, "run", "--spec", filepath.Join(dir, "nope.lua"), target)
	if err == nil || !strings.Contains(err.Error(), "spec path") {
		t.Fatalf("err = %v, want spec path error", err)
	}
}
