package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/configfile"
	"github.com/ZebulonRouseFrantzich/hearth/internal/dag"
	"github.com/ZebulonRouseFrantzich/hearth/internal/fragment"
	"github.com/ZebulonRouseFrantzich/hearth/internal/manifest"
	"github.com/ZebulonRouseFrantzich/hearth/internal/transaction"
)

// Artifact is one generated file, written or planned.
type Artifact struct {
	Component     string        `json:"component,omitempty"`
	Kind          manifest.Kind `json:"kind"`
	Path          string        `json:"path"`
	Format        string        `json:"format,omitempty"`
	SymlinkTarget string        `json:"symlink_target,omitempty"`
	Content       string        `json:"content"`
	// Written is false for dry runs, previews and skipped files.
	Written bool `json:"written"`
	// Skipped marks a config file whose platform filter excludes this host.
	Skipped bool `json:"skipped,omitempty"`
}

// GenerateResult describes one generate batch.
type GenerateResult struct {
	OutputDir    string      `json:"output_dir"`
	GeneratedDir string      `json:"generated_dir"`
	Shell        string      `json:"shell"`
	Platform     string      `json:"platform"`
	DryRun       bool        `json:"dry_run"`
	Order        []string    `json:"order"`
	Scripts      []*Artifact `json:"scripts"`
	ConfigFiles  []*Artifact `json:"config_files,omitempty"`
	Entrypoint   *Artifact   `json:"entrypoint,omitempty"`
}

// Artifacts returns every artifact in write order: scripts, config files,
// then the entrypoint.
func (r *GenerateResult) Artifacts() []*Artifact {
	all := make([]*Artifact, 0, len(r.Scripts)+len(r.ConfigFiles)+1)
	all = append(all, r.Scripts...)
	all = append(all, r.ConfigFiles...)
	if r.Entrypoint != nil {
		all = append(all, r.Entrypoint)
	}
	return all
}

// planOptions selects what a batch covers.
type planOptions struct {
	names []string
	// closure adds the dependencies of names.
	closure    bool
	entrypoint bool
}

// GenerateComponent generates the fragment and config files of one
// component. Its dependencies are loaded and checked but not written.
func (m *Manager) GenerateComponent(ctx context.Context, name string) (*GenerateResult, error) {
	return m.generate(ctx, planOptions{names: []string{name}}, m.cfg.DryRun)
}

// GenerateComponents generates names and everything they depend on, in
// dependency order. No names means every registered component.
func (m *Manager) GenerateComponents(ctx context.Context, names ...string) (*GenerateResult, error) {
	if len(names) == 0 {
		names = m.loader.Names()
	}
	return m.generate(ctx, planOptions{names: names, closure: true}, m.cfg.DryRun)
}

// GenerateAll generates every registered component and the entrypoint that
// sources them.
func (m *Manager) GenerateAll(ctx context.Context) (*GenerateResult, error) {
	return m.generate(ctx, planOptions{names: m.loader.Names(), closure: true, entrypoint: true}, m.cfg.DryRun)
}

func (m *Manager) generate(ctx context.Context, opts planOptions, dryRun bool) (*GenerateResult, error) {
	result, err := m.plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.DryRun = dryRun
	if dryRun {
		m.logger.Debug("dry run, nothing written", "artifacts", len(result.Artifacts()))
		return result, nil
	}
	if err := m.commit(result); err != nil {
		return nil, err
	}
	return result, nil
}

// plan loads, orders, renders and validates everything the batch writes.
// It never touches the filesystem beyond reading specs and overrides.
func (m *Manager) plan(ctx context.Context, opts planOptions) (*GenerateResult, error) {
	result := &GenerateResult{
		OutputDir:    m.cfg.OutputDir,
		GeneratedDir: m.cfg.GeneratedDir,
		Shell:        m.shell.String(),
		Platform:     m.platformName(),
		Scripts:      []*Artifact{},
	}

	specs := make(map[string]*component.Spec)
	load := func(name string) (*component.Spec, error) {
		if s, ok := specs[name]; ok {
			return s, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		s, err := m.loader.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		specs[name] = s
		return s, nil
	}

	order, err := dag.Resolve(opts.names, func(name string) ([]string, error) {
		s, err := load(name)
		if err != nil {
			return nil, err
		}
		return s.Dependencies, nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve components: %w", err)
	}
	if !opts.closure {
		order = restrict(order, opts.names)
	}
	result.Order = order

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		spec := specs[name]

		script, err := m.renderScript(spec)
		if err != nil {
			return nil, err
		}
		result.Scripts = append(result.Scripts, script)

		files, err := m.renderFiles(spec)
		if err != nil {
			return nil, err
		}
		result.ConfigFiles = append(result.ConfigFiles, files...)
	}

	if opts.entrypoint {
		content := fragment.Entrypoint(m.cfg.OutputDir, order, m.shell.String())
		if err := fragment.Validate(fragment.EntrypointName, content); err != nil {
			return nil, fmt.Errorf("generate entrypoint: %w", err)
		}
		result.Entrypoint = &Artifact{
			Kind:    manifest.KindEntrypoint,
			Path:    m.EntrypointPath(),
			Content: content,
		}
	}
	return result, nil
}

func (m *Manager) renderScript(spec *component.Spec) (*Artifact, error) {
	content := m.generator.Generate(spec)
	if content != "" && content[len(content)-1] != '\n' {
		content += "\n"
	}
	if err := fragment.Validate(spec.Name+".sh", content); err != nil {
		return nil, fmt.Errorf("generate component %s: %w", spec.Name, err)
	}
	return &Artifact{
		Component: spec.Name,
		Kind:      manifest.KindScript,
		Path:      filepath.Join(m.cfg.OutputDir, spec.Name+".sh"),
		Content:   content,
	}, nil
}

func (m *Manager) renderFiles(spec *component.Spec) ([]*Artifact, error) {
	var files []*Artifact
	for _, fs := range spec.Files {
		planned, err := m.renderer.Plan(spec.Name, fs, m.info)
		if err != nil {
			return nil, fmt.Errorf("generate component %s: %w", spec.Name, err)
		}
		files = append(files, fromConfigArtifact(planned))
	}
	return files, nil
}

func fromConfigArtifact(a *configfile.Artifact) *Artifact {
	return &Artifact{
		Component:     a.Component,
		Kind:          manifest.KindConfig,
		Path:          a.Path,
		Format:        a.Format,
		SymlinkTarget: a.SymlinkTarget,
		Content:       string(a.Content),
		Skipped:       a.Skipped,
	}
}

// commit writes the planned artifacts in order and then updates the
// manifest. It stops at the first failure; files already written stay.
func (m *Manager) commit(result *GenerateResult) error {
	if err := os.MkdirAll(m.cfg.OutputDir, OutputDirPermissions); err != nil {
		return &IOError{Op: "mkdir", Path: m.cfg.OutputDir, Err: err}
	}

	var batch transaction.Batch
	var planned []*Artifact
	for _, a := range result.Artifacts() {
		if a.Skipped {
			continue
		}
		perm := ScriptPermissions
		if a.Kind == manifest.KindConfig {
			perm = ConfigFilePermissions
		}
		batch.Add(a.Path, []byte(a.Content), perm)
		planned = append(planned, a)
	}

	err := batch.Commit()
	for i, w := range batch.Writes {
		planned[i].Written = w.State == transaction.StateCompleted
	}
	if err != nil {
		m.logger.Error("write failed", "completed", len(batch.Completed()), "planned", batch.Len(), "err", err)
		return fmt.Errorf("write generated files: %w", err)
	}
	for _, a := range planned {
		m.logger.Debug("wrote", "kind", a.Kind, "path", a.Path)
	}

	if err := m.updateManifest(result); err != nil {
		return err
	}
	m.logger.Info("generated", "components", len(result.Scripts), "config_files", len(planned)-len(result.Scripts), "output_dir", m.cfg.OutputDir)
	return nil
}

func (m *Manager) updateManifest(result *GenerateResult) error {
	mf, err := manifest.Load(m.ManifestPath())
	if err != nil {
		return err
	}

	entries := make(map[string][]manifest.Entry)
	for _, a := range result.Scripts {
		entries[a.Component] = append(entries[a.Component], toEntry(a))
	}
	for _, a := range result.ConfigFiles {
		if a.Skipped {
			continue
		}
		entries[a.Component] = append(entries[a.Component], toEntry(a))
	}
	for _, name := range result.Order {
		mf.ReplaceComponent(name, entries[name]...)
	}
	if result.Entrypoint != nil {
		mf.Upsert(toEntry(result.Entrypoint))
	}

	if err := mf.Save(m.ManifestPath()); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

func toEntry(a *Artifact) manifest.Entry {
	e := manifest.NewEntry(a.Component, a.Kind, a.Path, []byte(a.Content))
	e.Format = a.Format
	e.SymlinkTarget = a.SymlinkTarget
	return e
}

// restrict keeps the names of order that appear in want, preserving order.
func restrict(order, want []string) []string {
	keep := make(map[string]bool, len(want))
	for _, n := range want {
		keep[n] = true
	}
	out := make([]string, 0, len(want))
	for _, n := range order {
		if keep[n] {
			out = append(out, n)
		}
	}
	return out
}
