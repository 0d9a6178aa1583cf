package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/testutil"
)

func TestPreview(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	before := testutil.Snapshot(t, m.home)

	result, err := m.Preview(context.Background(), "theme")
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if !result.DryRun {
		t.Error("Preview() result is not marked dry run")
	}
	if diff := cmp.Diff([]string{"theme"}, result.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if got := result.Scripts[0].Content; got != "alias t='echo theme'\n" {
		t.Errorf("script = %q", got)
	}
	if got := result.ConfigFiles[0].Content; got != "color = dark\n" {
		t.Errorf("config = %q", got)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, m.home)); diff != "" {
		t.Errorf("Preview() changed the filesystem (-before +after):\n%s", diff)
	}
}

func TestScaffoldOverride(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	ctx := context.Background()

	result, err := m.ScaffoldOverride(ctx, "go")
	if err != nil {
		t.Fatalf("ScaffoldOverride() error = %v", err)
	}
	want := filepath.Join(m.cfg.OverrideDir, "go.lua")
	if result.Path != want || !result.Written {
		t.Errorf("result = %+v, want written at %s", result, want)
	}
	if got := readFile(t, want); got != result.Content {
		t.Error("file content differs from result")
	}

	override, err := component.ParseLuaOverride(ctx, result.Content, "go", want, linux)
	if err != nil {
		t.Fatalf("scaffolded override does not parse: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"gob": "go build"}, override.Aliases); diff != "" {
		t.Errorf("Aliases mismatch (-want +got):\n%s", diff)
	}

	// The scaffold is an override now, so loading is unchanged.
	gen, err := m.GenerateComponent(ctx, "go")
	if err != nil {
		t.Fatal(err)
	}
	if gen.Scripts[0].Content != "export GOPATH=\"$HOME/go\"\n\nalias gob='go build'\n" {
		t.Errorf("scaffolded override changed output: %q", gen.Scripts[0].Content)
	}
}

func TestScaffoldOverride_Refuses(t *testing.T) {
	tests := []struct {
		name     string
		existing string
	}{
		{name: "lua", existing: "go.lua"},
		{name: "yaml", existing: "go.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, defaultSpecs())
			if err := os.MkdirAll(m.cfg.OverrideDir, 0o755); err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(m.cfg.OverrideDir, tt.existing)
			if err := os.WriteFile(path, []byte("aliases: {}\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := m.ScaffoldOverride(context.Background(), "go")
			var exists *OverrideExistsError
			if !errors.As(err, &exists) {
				t.Fatalf("ScaffoldOverride() error = %v, want *OverrideExistsError", err)
			}
			if exists.Path != path {
				t.Errorf("Path = %q, want %q", exists.Path, path)
			}
		})
	}
}

func TestScaffoldOverride_Errors(t *testing.T) {
	m := newTestManager(t, defaultSpecs())
	ctx := context.Background()

	var nf *component.NotFoundError
	if _, err := m.ScaffoldOverride(ctx, "ghost"); !errors.As(err, &nf) {
		t.Errorf("unknown component error = %v, want *component.NotFoundError", err)
	}
	if _, err := m.ScaffoldOverride(ctx, "../escape"); err == nil {
		t.Error("invalid name accepted")
	}
}

func TestScaffoldOverride_DryRun(t *testing.T) {
	m := newTestManager(t, defaultSpecs(), dryRun)
	before := testutil.Snapshot(t, m.home)

	result, err := m.ScaffoldOverride(context.Background(), "go")
	if err != nil {
		t.Fatalf("ScaffoldOverride() error = %v", err)
	}
	if result.Written || result.Content == "" {
		t.Errorf("result = %+v, want content only", result)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, m.home)); diff != "" {
		t.Errorf("dry run changed the filesystem (-before +after):\n%s", diff)
	}
}
