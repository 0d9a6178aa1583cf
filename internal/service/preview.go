package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/transaction"
)

// Preview renders one component's fragment and config files without writing
// anything, whatever the dry-run setting.
func (m *Manager) Preview(ctx context.Context, name string) (*GenerateResult, error) {
	return m.generate(ctx, planOptions{names: []string{name}}, true)
}

// OverrideExistsError is returned when scaffolding would overwrite an
// existing override.
type OverrideExistsError struct {
	Component string
	Path      string
}

func (e *OverrideExistsError) Error() string {
	return fmt.Sprintf("override for %s already exists at %s", e.Component, e.Path)
}

// ScaffoldResult describes a scaffolded override.
type ScaffoldResult struct {
	Component string `json:"component"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	Written   bool   `json:"written"`
}

// ScaffoldOverride writes <override-dir>/<name>.lua holding the component's
// current effective spec as a Lua override, ready for editing. It refuses
// to replace any existing override for name.
func (m *Manager) ScaffoldOverride(ctx context.Context, name string) (*ScaffoldResult, error) {
	if m.cfg.OverrideDir == "" {
		return nil, fmt.Errorf("scaffold override: override directory is not configured")
	}
	if err := component.ValidateName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(m.cfg.OverrideDir, name+".lua")
	if existing, ok := (component.DirOverrides{Dir: m.cfg.OverrideDir}).Path(name); ok {
		return nil, &OverrideExistsError{Component: name, Path: existing}
	}
	if _, err := os.Lstat(path); err == nil {
		return nil, &OverrideExistsError{Component: name, Path: path}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}

	spec, err := m.loader.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("scaffold override: %w", err)
	}

	result := &ScaffoldResult{
		Component: name,
		Path:      path,
		Content:   component.NewLuaGenerator().Generate(spec),
	}
	if m.cfg.DryRun {
		return result, nil
	}

	if err := os.MkdirAll(m.cfg.OverrideDir, OutputDirPermissions); err != nil {
		return nil, &IOError{Op: "mkdir", Path: m.cfg.OverrideDir, Err: err}
	}
	if err := transaction.WriteFile(path, []byte(result.Content), OverrideFilePermissions); err != nil {
		return nil, err
	}
	result.Written = true
	m.logger.Info("scaffolded override", "component", name, "path", path)
	return result, nil
}
