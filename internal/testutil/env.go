// Package testutil provides utilities for testing hearth in isolation.
package testutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated directories SetupTestEnv created.
type Env struct {
	Home      string
	ConfigDir string // $XDG_CONFIG_HOME/hearth
	DataDir   string // $XDG_DATA_HOME/hearth
}

// SetupTestEnv points HOME, the XDG base directories and every HEARTH_*
// setting at a fresh temporary tree, so tests never read or modify the
// user's real shell startup files or hearth configuration.
//
// The cleanup function is automatically handled by t.TempDir() and
// t.Setenv(), so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		Home:      filepath.Join(tmpDir, "home"),
		ConfigDir: filepath.Join(tmpDir, "home", ".config", "hearth"),
		DataDir:   filepath.Join(tmpDir, "home", ".local", "share", "hearth"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.Home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(env.Home, ".local", "share"))
	t.Setenv("ZDOTDIR", "")
	t.Setenv("SHELL", "/bin/bash")

	for _, key := range []string{
		"HEARTH_CONFIG_DIR", "HEARTH_OUTPUT_DIR", "HEARTH_GENERATED_DIR",
		"HEARTH_OVERRIDE_DIR", "HEARTH_SPEC_DIR", "HEARTH_RC_FILE",
		"HEARTH_SHELL", "HEARTH_PLATFORM", "HEARTH_LOG_LEVEL",
		"HEARTH_DRY_RUN", "HEARTH_BACKUP", "HEARTH_DEBUG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if err := os.MkdirAll(env.Home, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", env.Home, err)
	}
	return env
}

// Snapshot records every file, directory and symlink under roots. Two equal
// snapshots mean nothing under roots was created, removed or modified.
// Missing roots are recorded as absent.
func Snapshot(t *testing.T, roots ...string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				snap[path] = "absent"
				return nil
			}
			if err != nil {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			switch {
			case d.Type()&fs.ModeSymlink != 0:
				target, err := os.Readlink(path)
				if err != nil {
					return err
				}
				snap[path] = "symlink:" + target
			case d.IsDir():
				snap[path] = fmt.Sprintf("dir:%v", info.Mode().Perm())
			default:
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				snap[path] = fmt.Sprintf("file:%v:%s", info.Mode().Perm(), data)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("snapshot %s: %v", root, err)
		}
	}
	return snap
}
