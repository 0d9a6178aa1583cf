package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
	"github.com/ZebulonRouseFrantzich/hearth/internal/testutil"
)

func setupCLI(t *testing.T) testutil.Env {
	t.Helper()
	env := testutil.SetupTestEnv(t)
	t.Setenv("HEARTH_PLATFORM", "linux")
	return env
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	env := setupCLI(t)

	out, err := run(t, "generate", "--all")
	if err != nil {
		t.Fatalf("generate error = %v\n%s", err, out)
	}
	for _, name := range []string{"bootstrap.sh", "go.sh", "shell.sh", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(env.ConfigDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if !strings.Contains(out, "hearth inject") {
		t.Errorf("output missing next step:\n%s", out)
	}
}

func TestGenerate_Named(t *testing.T) {
	env := setupCLI(t)

	if out, err := run(t, "generate", "go"); err != nil {
		t.Fatalf("generate go error = %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(env.ConfigDir, "bootstrap.sh")); err != nil {
		t.Errorf("dependency not generated: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.ConfigDir, "shell.sh")); !os.IsNotExist(err) {
		t.Error("named generate should not write the entrypoint")
	}
}

func TestGenerate_DryRun(t *testing.T) {
	env := setupCLI(t)
	before := testutil.Snapshot(t, env.Home)

	out, err := run(t, "generate", "--all", "--dry-run")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.Contains(out, "would write") {
		t.Errorf("dry-run output:\n%s", out)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, env.Home)); diff != "" {
		t.Errorf("dry run changed the filesystem (-before +after):\n%s", diff)
	}
}

func TestGenerate_UnknownComponent(t *testing.T) {
	setupCLI(t)
	if _, err := run(t, "generate", "doesnotexist"); err == nil || !strings.Contains(err.Error(), "doesnotexist") {
		t.Errorf("error = %v, want unknown component", err)
	}
}

func TestPreview(t *testing.T) {
	env := setupCLI(t)
	before := testutil.Snapshot(t, env.Home)

	out, err := run(t, "preview", "go")
	if err != nil {
		t.Fatalf("preview error = %v", err)
	}
	if !strings.Contains(out, `export GOPATH="$HOME/go"`) {
		t.Errorf("preview output:\n%s", out)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, env.Home)); diff != "" {
		t.Errorf("preview changed the filesystem (-before +after):\n%s", diff)
	}
}

func TestInjectEject(t *testing.T) {
	env := setupCLI(t)
	rc := filepath.Join(env.Home, ".bashrc")

	out, err := run(t, "inject")
	if err != nil {
		t.Fatalf("inject error = %v", err)
	}
	if !strings.Contains(out, "Added hearth block") {
		t.Errorf("inject output:\n%s", out)
	}
	data, err := os.ReadFile(rc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), shell.BeginMarker) {
		t.Errorf(".bashrc missing marker:\n%s", data)
	}

	if out, _ := run(t, "inject"); !strings.Contains(out, "already set up") {
		t.Errorf("second inject output:\n%s", out)
	}

	if _, err := run(t, "eject"); err != nil {
		t.Fatalf("eject error = %v", err)
	}
	data, err = os.ReadFile(rc)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf(".bashrc after eject = %q, want empty", data)
	}
}

func TestInject_ZshFlag(t *testing.T) {
	env := setupCLI(t)

	if _, err := run(t, "inject", "--shell", "zsh"); err != nil {
		t.Fatalf("inject error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.Home, ".zshrc")); err != nil {
		t.Errorf(".zshrc not written: %v", err)
	}
}

func TestInject_UnsupportedShell(t *testing.T) {
	setupCLI(t)
	t.Setenv("SHELL", "/usr/bin/fish")

	_, err := run(t, "inject")
	var unsupported *shell.UnsupportedShellError
	if !errors.As(err, &unsupported) {
		t.Errorf("error = %v, want *shell.UnsupportedShellError", err)
	}
}

func TestStatus(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "status", "--check")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("status --check before generate error = %v, want exit 1", err)
	}

	if _, err := run(t, "generate", "--all"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "status", "--check")
	if err != nil {
		t.Fatalf("status --check after generate error = %v\n%s", err, out)
	}
	for _, want := range []string{"bash", "linux", "[OK]"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestStatus_JSON(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "status", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"drift": "missing"`) {
		t.Errorf("json output:\n%s", out)
	}
}

func TestOverride(t *testing.T) {
	env := setupCLI(t)

	if _, err := run(t, "override", "go"); err != nil {
		t.Fatalf("override error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.ConfigDir, "components", "go.lua")); err != nil {
		t.Errorf("override not written: %v", err)
	}
	if _, err := run(t, "override", "go"); err == nil {
		t.Error("second override should refuse to overwrite")
	}

	out, err := run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(overridden)") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestList(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bootstrap", "go", "tmux"} {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %s:\n%s", name, out)
		}
	}
}

func TestConfigFlagValidation(t *testing.T) {
	setupCLI(t)
	if _, err := run(t, "list", "--log-level", "loud"); err == nil {
		t.Error("invalid log level accepted")
	}
	if _, err := run(t, "list", "--shell", "fish"); err == nil {
		t.Error("unsupported shell flag accepted")
	}
}
