package configfile

import (
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"mvdan.cc/sh/v3/expand"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
	"github.com/ZebulonRouseFrantzich/hearth/internal/transaction"
)

// Artifact is one rendered configuration file.
type Artifact struct {
	Component string `json:"component"`
	Format    string `json:"format"`
	// Path is where the file is written, inside the generated root.
	Path string `json:"path"`
	// SymlinkTarget is the expanded final location. Linking Path there is
	// left to a separate step.
	SymlinkTarget string `json:"symlink_target"`
	Content       []byte `json:"-"`
	Written       bool   `json:"written"`
	Skipped       bool   `json:"skipped,omitempty"`
}

// Renderer turns FileSpecs into artifacts under a generated root.
type Renderer struct {
	root    string
	formats Formats
	env     expand.Environ
	dryRun  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFormats replaces the default format writers.
func WithFormats(f Formats) Option {
	return func(r *Renderer) { r.formats = f }
}

// WithDryRun makes Render skip directory creation and writing.
func WithDryRun(dryRun bool) Option {
	return func(r *Renderer) { r.dryRun = dryRun }
}

// WithEnviron sets the environment used to expand target paths.
func WithEnviron(env expand.Environ) Option {
	return func(r *Renderer) { r.env = env }
}

// NewRenderer creates a renderer writing below root.
func NewRenderer(root string, opts ...Option) *Renderer {
	r := &Renderer{
		root:    root,
		formats: DefaultFormats(),
		env:     OSEnviron(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan renders spec for componentName without touching the filesystem. A
// spec whose platform filter excludes info yields a skipped artifact.
func (r *Renderer) Plan(componentName string, spec component.FileSpec, info *platform.Info) (*Artifact, error) {
	a := &Artifact{Component: componentName, Format: spec.Format}

	if len(spec.Platforms) > 0 && (info == nil || !info.MatchesAny(spec.Platforms)) {
		a.Skipped = true
		return a, nil
	}

	writer, err := r.formats.Lookup(spec.Format)
	if err != nil {
		return nil, fmt.Errorf("render %s file %s: %w", componentName, spec.Target, err)
	}

	target, err := ExpandPath(spec.Target, r.env)
	if err != nil {
		return nil, fmt.Errorf("render %s file: %w", componentName, err)
	}
	a.SymlinkTarget = target

	a.Path, err = securejoin.SecureJoin(filepath.Join(r.root, componentName), relativeTarget(target, r.env))
	if err != nil {
		return nil, fmt.Errorf("render %s file %s: resolve output path: %w", componentName, spec.Target, err)
	}

	a.Content, err = writer.Write(spec.Values)
	if err != nil {
		return nil, fmt.Errorf("render %s file %s: %w", componentName, spec.Target, err)
	}
	return a, nil
}

// Render plans the artifact and, unless the renderer is in dry-run mode,
// writes it. It is the single-file entry point; batch callers that must
// validate every file before the first write use Plan and commit the
// artifacts themselves.
func (r *Renderer) Render(componentName string, spec component.FileSpec, info *platform.Info) (*Artifact, error) {
	a, err := r.Plan(componentName, spec, info)
	if err != nil || a.Skipped || r.dryRun {
		return a, err
	}
	if err := Write(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Write writes a planned artifact, creating its directory.
func Write(a *Artifact) error {
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &transaction.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	if err := transaction.WriteFile(a.Path, a.Content, 0o644); err != nil {
		return err
	}
	a.Written = true
	return nil
}
