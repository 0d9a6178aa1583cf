package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/hearth/internal/config"
	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
	"github.com/ZebulonRouseFrantzich/hearth/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestManager_InjectEject(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	rc := filepath.Join(m.home, ".bashrc")
	original := "export PATH=\"$HOME/bin:$PATH\"\n"
	if err := os.MkdirAll(m.home, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rc, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := m.Inject()
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if result.Action != shell.ActionInjected || result.RCFile != rc {
		t.Errorf("Inject() = %+v", result)
	}
	content := readFile(t, rc)
	if !strings.Contains(content, shell.SourceLine(m.EntrypointPath())) {
		t.Errorf("rc file missing source line:\n%s", content)
	}

	again, err := m.Inject()
	if err != nil {
		t.Fatal(err)
	}
	if again.Action != shell.ActionAlreadyInjected {
		t.Errorf("second Inject() action = %s, want %s", again.Action, shell.ActionAlreadyInjected)
	}
	if readFile(t, rc) != content {
		t.Error("second Inject() modified the rc file")
	}

	ejected, err := m.Eject()
	if err != nil {
		t.Fatalf("Eject() error = %v", err)
	}
	if ejected.Action != shell.ActionEjected {
		t.Errorf("Eject() action = %s", ejected.Action)
	}
	if diff := cmp.Diff(original, readFile(t, rc)); diff != "" {
		t.Errorf("rc file not restored (-want +got):\n%s", diff)
	}

	none, err := m.Eject()
	if err != nil {
		t.Fatal(err)
	}
	if none.Action != shell.ActionNotInjected {
		t.Errorf("Eject() on clean file action = %s", none.Action)
	}
}

func TestManager_InjectDryRun(t *testing.T) {
	m := newTestManager(t, defaultSpecs(), dryRun, func(c *config.Config) {
		c.RCFile = filepath.Join(c.ConfigDir, "test.rc")
	})
	before := testutil.Snapshot(t, m.home)

	result, err := m.Inject()
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if result.Action != shell.ActionWouldInject || !result.DryRun {
		t.Errorf("Inject() = %+v, want dry-run would_inject", result)
	}
	if result.InjectionBlock != shell.Block(m.EntrypointPath()) {
		t.Errorf("InjectionBlock = %q", result.InjectionBlock)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, m.home)); diff != "" {
		t.Errorf("dry run changed the filesystem (-before +after):\n%s", diff)
	}
}

func TestManager_InjectBackup(t *testing.T) {
	m := newTestManager(t, defaultSpecs(), func(c *config.Config) {
		c.Backup = true
		c.RCFile = filepath.Join(c.ConfigDir, "test.rc")
	})
	if err := os.MkdirAll(m.cfg.ConfigDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.cfg.RCFile, []byte("set -o vi\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := m.Inject()
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if result.BackupPath != m.cfg.RCFile+shell.BackupSuffix {
		t.Errorf("BackupPath = %q", result.BackupPath)
	}
	if got := readFile(t, result.BackupPath); got != "set -o vi\n" {
		t.Errorf("backup content = %q", got)
	}
}

func TestManager_InjectRefusesSymlink(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	if err := os.MkdirAll(m.home, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(m.home, "dotfiles-bashrc")
	if err := os.WriteFile(target, []byte("# dotfiles\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(m.home, ".bashrc")); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Inject(); err == nil {
		t.Fatal("Inject() error = nil, want refusal")
	}
	if got := readFile(t, target); got != "# dotfiles\n" {
		t.Errorf("symlink target modified: %q", got)
	}
}
