// Package service provides the high-level operations the hearth CLI calls:
// generating fragments, config files and the entrypoint, injecting and
// ejecting the rc-file block, previewing, scaffolding overrides, and
// reporting status.
package service

import (
	"fmt"
	"os"
	"path/filepath"

	"mvdan.cc/sh/v3/expand"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/config"
	"github.com/ZebulonRouseFrantzich/hearth/internal/configfile"
	"github.com/ZebulonRouseFrantzich/hearth/internal/fragment"
	"github.com/ZebulonRouseFrantzich/hearth/internal/manifest"
	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
	"github.com/ZebulonRouseFrantzich/hearth/internal/transaction"
)

const (
	// OutputDirPermissions sets the permission mode for the output directory.
	OutputDirPermissions os.FileMode = 0o755
	// ScriptPermissions sets the permission mode for fragments and the entrypoint.
	ScriptPermissions os.FileMode = 0o644
	// ConfigFilePermissions sets the permission mode for rendered config files.
	ConfigFilePermissions os.FileMode = 0o644
	// OverrideFilePermissions sets the permission mode for scaffolded overrides.
	OverrideFilePermissions os.FileMode = 0o644
)

// IOError reports a failed filesystem operation with its path and cause.
type IOError = transaction.IOError

// Dependencies are the collaborators a Manager is built from.
type Dependencies struct {
	Config   *config.Config
	Loader   *component.Loader
	Platform *platform.Info
	// Shell selects the rc file and the entrypoint's completion hook.
	Shell shell.ShellType
	// Home resolves the default rc file. Empty uses $HOME.
	Home string
	// Environ expands config file targets. Nil uses the process environment.
	Environ expand.Environ
	Logger  config.Logger
}

// Manager orchestrates loading, rendering and writing.
type Manager struct {
	cfg       *config.Config
	loader    *component.Loader
	info      *platform.Info
	shell     shell.ShellType
	home      string
	generator *fragment.Generator
	renderer  *configfile.Renderer
	logger    config.Logger
}

// NewManager creates a manager with dependency injection.
func NewManager(deps Dependencies) (*Manager, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Loader == nil {
		return nil, fmt.Errorf("component loader is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = config.NopLogger()
	}
	home := deps.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	opts := []configfile.Option{}
	if deps.Environ != nil {
		opts = append(opts, configfile.WithEnviron(deps.Environ))
	}

	return &Manager{
		cfg:       deps.Config,
		loader:    deps.Loader,
		info:      deps.Platform,
		shell:     deps.Shell,
		home:      home,
		generator: fragment.NewGenerator(deps.Platform),
		renderer:  configfile.NewRenderer(deps.Config.GeneratedDir, opts...),
		logger:    logger,
	}, nil
}

// EntrypointPath returns where the aggregate entrypoint is written.
func (m *Manager) EntrypointPath() string {
	return filepath.Join(m.cfg.OutputDir, fragment.EntrypointName)
}

// ManifestPath returns where the manifest is written.
func (m *Manager) ManifestPath() string {
	return filepath.Join(m.cfg.OutputDir, manifest.FileName)
}

// RCFile returns the startup file inject and eject operate on: the
// configured rc_file, or the shell's default under home.
func (m *Manager) RCFile() (string, error) {
	if m.cfg.RCFile != "" {
		return m.cfg.RCFile, nil
	}
	return shell.RCFilePath(m.shell, m.home, os.Getenv("ZDOTDIR"))
}

func (m *Manager) platformName() string {
	if m.info == nil {
		return ""
	}
	return m.info.OS
}
