package service

import (
	"os"
	"path/filepath"
	"testing"

	"mvdan.cc/sh/v3/expand"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/config"
	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
	"github.com/ZebulonRouseFrantzich/hearth/internal/testutil"
)

var linux = &platform.Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: platform.FamilyDebian}

const (
	bootstrapSpec = "name: bootstrap\nenv:\n  EDITOR: vim\n"
	themeSpec     = `name: theme
dependencies: [bootstrap]
aliases:
  t: echo theme
files:
  - target: "~/.config/theme/conf"
    format: keyvalue
    values:
      color: dark
  - target: "~/Library/theme.plist"
    format: xml
    platforms: [darwin]
    values:
      root: plist
`
	goSpec = "name: go\nenv:\n  GOPATH: $HOME/go\naliases:\n  gob: go build\n"
)

type testManager struct {
	*Manager
	cfg  *config.Config
	env  testutil.Env
	home string
}

func defaultSpecs() map[string]string {
	return map[string]string{
		"bootstrap": bootstrapSpec,
		"theme":     themeSpec,
		"go":        goSpec,
	}
}

func newTestManager(t *testing.T, specs map[string]string, mutate ...func(*config.Config)) *testManager {
	t.Helper()
	env := testutil.SetupTestEnv(t)

	cfg := &config.Config{
		ConfigDir:    env.ConfigDir,
		OutputDir:    env.ConfigDir,
		GeneratedDir: filepath.Join(env.DataDir, "generated"),
		OverrideDir:  filepath.Join(env.ConfigDir, "components"),
		LogLevel:     "info",
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	reg := component.NewRegistry()
	for name, data := range specs {
		reg.Register(name, []byte(data))
	}
	loader := component.NewLoader(reg, component.WithOverrides(component.DirOverrides{
		Dir:      cfg.OverrideDir,
		Detector: platform.StaticDetector{Info: *linux},
	}))

	m, err := NewManager(Dependencies{
		Config:   cfg,
		Loader:   loader,
		Platform: linux,
		Shell:    shell.ShellBash,
		Home:     env.Home,
		Environ:  expand.ListEnviron("HOME="+env.Home, "XDG_CONFIG_HOME="+filepath.Join(env.Home, ".config")),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return &testManager{Manager: m, cfg: cfg, env: env, home: env.Home}
}

func dryRun(c *config.Config) { c.DryRun = true }

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestNewManager(t *testing.T) {
	tests := []struct {
		name    string
		deps    Dependencies
		wantErr bool
	}{
		{name: "Valid", deps: Dependencies{Config: &config.Config{OutputDir: "/x"}, Loader: component.NewLoader(component.NewRegistry())}},
		{name: "Missing config", deps: Dependencies{Loader: component.NewLoader(component.NewRegistry())}, wantErr: true},
		{name: "Missing loader", deps: Dependencies{Config: &config.Config{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.deps)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && m == nil {
				t.Error("NewManager() returned nil manager")
			}
		})
	}
}

func TestManager_RCFile(t *testing.T) {
	m := newTestManager(t, nil)
	rc, err := m.RCFile()
	if err != nil {
		t.Fatalf("RCFile() error = %v", err)
	}
	if want := filepath.Join(m.home, ".bashrc"); rc != want {
		t.Errorf("RCFile() = %q, want %q", rc, want)
	}

	pinned := newTestManager(t, nil, func(c *config.Config) { c.RCFile = "/etc/custom.rc" })
	if rc, _ := pinned.RCFile(); rc != "/etc/custom.rc" {
		t.Errorf("RCFile() = %q, want configured path", rc)
	}
}
