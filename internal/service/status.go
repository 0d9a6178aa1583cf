package service

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/hearth/internal/drift"
	"github.com/ZebulonRouseFrantzich/hearth/internal/manifest"
	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
)

// Status is a read-only snapshot of the integration.
type Status struct {
	Shell           string `json:"shell"`
	Platform        string `json:"platform"`
	OutputDir       string `json:"output_dir"`
	OutputDirExists bool   `json:"output_dir_exists"`
	RCFile          string `json:"rc_file"`
	Injected        bool   `json:"injected"`
	// Components lists every registered component.
	Components []string `json:"components"`
	// Overridden lists components with a user override.
	Overridden []string `json:"overridden,omitempty"`
	// GeneratedFiles lists the .sh files found in the output directory.
	GeneratedFiles []string            `json:"generated_files"`
	Drift          []drift.DriftResult `json:"drift,omitempty"`
	// DriftError is set when the current specs could not be rendered for
	// comparison.
	DriftError string `json:"drift_error,omitempty"`
}

// GetStatus reports shell, platform, output directory, injection state,
// registered and overridden components, generated scripts, and drift.
// Nothing is written.
func (m *Manager) GetStatus(ctx context.Context) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := &Status{
		Shell:          m.shell.String(),
		Platform:       m.platformName(),
		OutputDir:      m.cfg.OutputDir,
		Components:     m.loader.Names(),
		GeneratedFiles: []string{},
	}

	for _, name := range status.Components {
		if m.loader.HasOverride(name) {
			status.Overridden = append(status.Overridden, name)
		}
	}

	if info, err := os.Stat(m.cfg.OutputDir); err == nil && info.IsDir() {
		status.OutputDirExists = true
		entries, err := os.ReadDir(m.cfg.OutputDir)
		if err != nil {
			return nil, &IOError{Op: "read directory", Path: m.cfg.OutputDir, Err: err}
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".sh") {
				status.GeneratedFiles = append(status.GeneratedFiles, e.Name())
			}
		}
		sort.Strings(status.GeneratedFiles)
	}

	if rc, err := m.RCFile(); err == nil {
		status.RCFile = rc
		inj := shell.NewInjector(rc, m.EntrypointPath())
		if state, err := inj.State(); err == nil {
			status.Injected = state.MarkerPresent
		} else {
			m.logger.Warn("cannot read rc file", "rc_file", rc, "err", err)
		}
	}

	results, err := m.detectDrift(ctx)
	if err != nil {
		m.logger.Warn("drift detection failed", "err", err)
		status.DriftError = err.Error()
	} else {
		status.Drift = results
	}
	return status, nil
}

// detectDrift renders everything GenerateAll would write and compares it
// with the disk.
func (m *Manager) detectDrift(ctx context.Context) ([]drift.DriftResult, error) {
	planned, err := m.plan(ctx, planOptions{names: m.loader.Names(), closure: true, entrypoint: true})
	if err != nil {
		return nil, err
	}

	var expected []drift.Expected
	for _, a := range planned.Artifacts() {
		if a.Skipped {
			continue
		}
		expected = append(expected, drift.Expected{
			Component: a.Component,
			Kind:      a.Kind,
			Path:      a.Path,
			Content:   []byte(a.Content),
		})
	}

	recorded, err := manifest.Load(m.ManifestPath())
	if err != nil {
		return nil, err
	}
	return drift.DetectDrift(expected, m.cfg.OutputDir, recorded)
}
