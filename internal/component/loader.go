package component

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/hearth/internal/config"
)

// Loader builds merged component specs from a Registry and an optional
// OverrideSource. Every call constructs a new Spec.
type Loader struct {
	registry  *Registry
	overrides OverrideSource
	logger    config.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithOverrides sets the default override source used by Load.
func WithOverrides(src OverrideSource) Option {
	return func(l *Loader) { l.overrides = src }
}

// WithLogger sets the logger used for sensitive-value warnings.
func WithLogger(logger config.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader over registry.
func NewLoader(registry *Registry, opts ...Option) *Loader {
	l := &Loader{
		registry: registry,
		logger:   config.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the registry the loader reads base specs from.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Names returns every registered component name in lexicographic order.
func (l *Loader) Names() []string {
	return l.registry.Names()
}

// Load returns the spec for name merged with the loader's override source.
func (l *Loader) Load(ctx context.Context, name string) (*Spec, error) {
	return l.LoadWithOverride(ctx, name, l.overrides)
}

// LoadWithOverride returns the spec for name merged with the override src
// supplies. A nil src loads the base spec alone.
func (l *Loader) LoadWithOverride(ctx context.Context, name string, src OverrideSource) (*Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load component %s: %w", name, err)
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	base, err := l.registry.base(name)
	if err != nil {
		return nil, err
	}

	var override *Override
	if src != nil {
		override, err = src.Override(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	spec := Merge(base, override)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	for _, f := range ScanSensitive(spec) {
		l.logger.Warn("possible secret in component spec",
			"component", spec.Name, "field", f.Field, "kind", f.Kind, "value", f.Preview)
	}

	return spec, nil
}

// HasOverride reports whether the loader's override source has an entry for name.
func (l *Loader) HasOverride(name string) bool {
	h, ok := l.overrides.(interface{ Has(string) bool })
	return ok && h.Has(name)
}
