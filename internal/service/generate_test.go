package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/dag"
	"github.com/ZebulonRouseFrantzich/hearth/internal/fragment"
	"github.com/ZebulonRouseFrantzich/hearth/internal/manifest"
	"github.com/ZebulonRouseFrantzich/hearth/internal/testutil"
)

func TestGenerateComponent_EnvAndAlias(t *testing.T) {
	m := newTestManager(t, defaultSpecs())

	result, err := m.GenerateComponent(context.Background(), "go")
	if err != nil {
		t.Fatalf("GenerateComponent() error = %v", err)
	}
	if len(result.Scripts) != 1 {
		t.Fatalf("Scripts = %d, want 1", len(result.Scripts))
	}

	script := result.Scripts[0]
	want := "export GOPATH=\"$HOME/go\"\n\nalias gob='go build'\n"
	if diff := cmp.Diff(want, script.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if !script.Written {
		t.Error("Written = false")
	}
	if got := readFile(t, filepath.Join(m.cfg.OutputDir, "go.sh")); got != want {
		t.Errorf("go.sh = %q", got)
	}
	if result.Entrypoint != nil {
		t.Error("GenerateComponent() should not write the entrypoint")
	}
}

func TestGenerateComponent_SkipsDependencies(t *testing.T) {
	m := newTestManager(t, defaultSpecs())

	result, err := m.GenerateComponent(context.Background(), "theme")
	if err != nil {
		t.Fatalf("GenerateComponent() error = %v", err)
	}
	if diff := cmp.Diff([]string{"theme"}, result.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(m.cfg.OutputDir, "bootstrap.sh")); !os.IsNotExist(err) {
		t.Error("dependency fragment written by GenerateComponent()")
	}
}

func TestGenerateAll_DependencyOrder(t *testing.T) {
	m := newTestManager(t, map[string]string{"bootstrap": bootstrapSpec, "theme": themeSpec})

	result, err := m.GenerateAll(context.Background())
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if diff := cmp.Diff([]string{"bootstrap", "theme"}, result.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}

	entry := readFile(t, m.EntrypointPath())
	boot := strings.Index(entry, `. "$HEARTH_CONFIG_DIR/bootstrap.sh"`)
	theme := strings.Index(entry, `. "$HEARTH_CONFIG_DIR/theme.sh"`)
	if boot < 0 || theme < 0 || boot > theme {
		t.Errorf("entrypoint should source bootstrap.sh before theme.sh:\n%s", entry)
	}
	if entry != fragment.Entrypoint(m.cfg.OutputDir, []string{"bootstrap", "theme"}, "bash") {
		t.Error("entrypoint differs from fragment.Entrypoint output")
	}
	if !result.Entrypoint.Written {
		t.Error("entrypoint Written = false")
	}
}

func TestGenerateAll_ConfigFiles(t *testing.T) {
	m := newTestManager(t, defaultSpecs())

	result, err := m.GenerateAll(context.Background())
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if len(result.ConfigFiles) != 2 {
		t.Fatalf("ConfigFiles = %d, want 2", len(result.ConfigFiles))
	}

	conf := result.ConfigFiles[0]
	wantPath := filepath.Join(m.cfg.GeneratedDir, "theme", "theme", "conf")
	if conf.Path != wantPath || !conf.Written {
		t.Errorf("config artifact = %+v, want written at %s", conf, wantPath)
	}
	if conf.SymlinkTarget != filepath.Join(m.home, ".config", "theme", "conf") {
		t.Errorf("SymlinkTarget = %q", conf.SymlinkTarget)
	}
	if got := readFile(t, wantPath); got != "color = dark\n" {
		t.Errorf("config content = %q", got)
	}

	plist := result.ConfigFiles[1]
	if !plist.Skipped || plist.Written {
		t.Errorf("darwin-only file = %+v, want skipped", plist)
	}
}

func TestGenerateAll_WritesManifest(t *testing.T) {
	m := newTestManager(t, defaultSpecs())

	if _, err := m.GenerateAll(context.Background()); err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	mf, err := manifest.Load(m.ManifestPath())
	if err != nil {
		t.Fatalf("manifest.Load() error = %v", err)
	}

	var paths []string
	for _, e := range mf.Entries {
		paths = append(paths, e.Path)
		if !e.Matches([]byte(readFile(t, e.Path))) {
			t.Errorf("digest mismatch for %s", e.Path)
		}
	}
	want := []string{
		filepath.Join(m.cfg.OutputDir, "bootstrap.sh"),
		filepath.Join(m.cfg.OutputDir, "go.sh"),
		filepath.Join(m.cfg.OutputDir, "shell.sh"),
		filepath.Join(m.cfg.OutputDir, "theme.sh"),
		filepath.Join(m.cfg.GeneratedDir, "theme", "theme", "conf"),
	}
	if diff := cmp.Diff(want, paths, sortStrings); diff != "" {
		t.Errorf("manifest paths mismatch (-want +got):\n%s", diff)
	}

	first := readFile(t, m.ManifestPath())
	if _, err := m.GenerateAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if readFile(t, m.ManifestPath()) != first {
		t.Error("regenerating unchanged specs changed the manifest")
	}
}

func TestGenerateComponents_Closure(t *testing.T) {
	m := newTestManager(t, defaultSpecs())

	result, err := m.GenerateComponents(context.Background(), "theme")
	if err != nil {
		t.Fatalf("GenerateComponents() error = %v", err)
	}
	if diff := cmp.Diff([]string{"bootstrap", "theme"}, result.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if result.Entrypoint != nil {
		t.Error("GenerateComponents() should not write the entrypoint")
	}

	all, err := m.GenerateComponents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"bootstrap", "go", "theme"}, all.Order); diff != "" {
		t.Errorf("no names should mean every component (-want +got):\n%s", diff)
	}
}

func TestGenerateComponents_NotFound(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	before := testutil.Snapshot(t, m.home)

	_, err := m.GenerateComponents(context.Background(), "doesnotexist")
	var nf *component.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GenerateComponents() error = %v, want *component.NotFoundError", err)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, m.home)); diff != "" {
		t.Errorf("filesystem changed (-before +after):\n%s", diff)
	}
}

func TestGenerate_FailsBeforeFirstWrite(t *testing.T) {
	tests := []struct {
		name  string
		specs map[string]string
		check func(t *testing.T, err error)
	}{
		{
			name: "cycle",
			specs: map[string]string{
				"a": "name: a\ndependencies: [b]\n",
				"b": "name: b\ndependencies: [a]\n",
			},
			check: func(t *testing.T, err error) {
				var cyc *dag.CycleError
				if !errors.As(err, &cyc) {
					t.Fatalf("error = %v, want *dag.CycleError", err)
				}
				if diff := cmp.Diff([]string{"a", "b", "a"}, cyc.Cycle); diff != "" {
					t.Errorf("Cycle mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "missing dependency",
			specs: map[string]string{
				"a": "name: a\naliases:\n  x: y\n",
				"b": "name: b\ndependencies: [ghost]\n",
			},
			check: func(t *testing.T, err error) {
				var nf *component.NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("error = %v, want *component.NotFoundError", err)
				}
			},
		},
		{
			name: "unsupported format",
			specs: map[string]string{
				"a": "name: a\naliases:\n  x: y\n",
				"b": "name: b\nfiles:\n  - target: ~/x\n    format: plist\n",
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "unsupported format") {
					t.Fatalf("error = %v, want unsupported format", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, tt.specs)
			before := testutil.Snapshot(t, m.home)

			_, err := m.GenerateAll(context.Background())
			tt.check(t, err)

			if diff := cmp.Diff(before, testutil.Snapshot(t, m.home)); diff != "" {
				t.Errorf("files written before the failure (-before +after):\n%s", diff)
			}
		})
	}
}

func TestGenerate_IOErrorKeepsEarlierWrites(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	if err := os.MkdirAll(m.cfg.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// A directory where go.sh should go makes the second write fail.
	blocker := filepath.Join(m.cfg.OutputDir, "go.sh")
	if err := os.MkdirAll(filepath.Join(blocker, "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := m.GenerateAll(context.Background())
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("GenerateAll() error = %v, want *IOError", err)
	}
	if ioErr.Path != blocker {
		t.Errorf("IOError.Path = %q, want %q", ioErr.Path, blocker)
	}

	if _, err := os.Stat(filepath.Join(m.cfg.OutputDir, "bootstrap.sh")); err != nil {
		t.Errorf("earlier write should stay: %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.cfg.OutputDir, "theme.sh")); !os.IsNotExist(err) {
		t.Error("writes after the failure should not happen")
	}
	if _, err := os.Stat(m.ManifestPath()); !os.IsNotExist(err) {
		t.Error("manifest should not be written after a failed batch")
	}
}

func TestGenerate_DryRunPurity(t *testing.T) {
	m := newTestManager(t, defaultSpecs(), dryRun)
	before := testutil.Snapshot(t, m.home)

	result, err := m.GenerateAll(context.Background())
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if !result.DryRun {
		t.Error("DryRun = false")
	}
	for _, a := range result.Artifacts() {
		if a.Written {
			t.Errorf("%s reported written in dry run", a.Path)
		}
		if a.Content == "" && !a.Skipped {
			t.Errorf("%s has no content", a.Path)
		}
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, m.home)); diff != "" {
		t.Errorf("dry run changed the filesystem (-before +after):\n%s", diff)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	m := newTestManager(t, defaultSpecs(), dryRun)

	first, err := m.GenerateAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := m.GenerateAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.GenerateAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateAll() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_UsesOverrides(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	if err := os.MkdirAll(m.cfg.OverrideDir, 0o755); err != nil {
		t.Fatal(err)
	}
	override := "aliases:\n  gov: go vet\n  gob: go build -v\n"
	if err := os.WriteFile(filepath.Join(m.cfg.OverrideDir, "go.yaml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := m.GenerateComponent(context.Background(), "go")
	if err != nil {
		t.Fatalf("GenerateComponent() error = %v", err)
	}
	content := result.Scripts[0].Content
	for _, want := range []string{"alias gob='go build -v'", "alias gov='go vet'", `export GOPATH="$HOME/go"`} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q:\n%s", want, content)
		}
	}
}

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })
