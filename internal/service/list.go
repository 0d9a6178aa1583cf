package service

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/hearth/internal/dag"
)

// ComponentInfo summarizes one registered component.
type ComponentInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	// Missing lists dependencies that are not registered.
	Missing    []string `json:"missing,omitempty"`
	Overridden bool     `json:"overridden"`
}

// Components returns the registered component names, sorted.
func (m *Manager) Components() []string {
	return m.loader.Names()
}

// ListComponents loads every registered component, overrides applied, and
// returns them in boot order: each component after its dependencies. A
// dependency cycle is an error; unregistered dependencies are reported in
// Missing.
func (m *Manager) ListComponents(ctx context.Context) ([]ComponentInfo, error) {
	names := m.loader.Names()
	infos := make(map[string]*ComponentInfo, len(names))
	g := dag.New()

	for _, name := range names {
		spec, err := m.loader.Load(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("list components: %w", err)
		}
		info := &ComponentInfo{
			Name:         name,
			Description:  spec.Description,
			Dependencies: spec.Dependencies,
			Overridden:   m.loader.HasOverride(name),
		}
		infos[name] = info
		g.AddNode(name)
	}
	for _, name := range names {
		info := infos[name]
		for _, dep := range info.Dependencies {
			if _, ok := infos[dep]; !ok {
				info.Missing = append(info.Missing, dep)
				continue
			}
			g.AddDependency(name, dep)
		}
	}

	order, err := g.Resolve()
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	out := make([]ComponentInfo, 0, len(order))
	for _, name := range order {
		out = append(out, *infos[name])
	}
	return out, nil
}
