// Package fragment renders component specs into POSIX shell fragments and
// the aggregate entrypoint that sources them.
//
// Rendering is a pure function of the spec and the target platform: map
// sections are sorted and nothing time-dependent is written, so the same
// input always produces byte-identical output.
package fragment

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
)

// Generator renders fragments for one platform.
type Generator struct {
	platform *platform.Info
}

// NewGenerator creates a generator for info. With a nil info every
// platform-conditioned path entry is skipped.
func NewGenerator(info *platform.Info) *Generator {
	return &Generator{platform: info}
}

// Generate renders spec as shell source. Sections are separated by a blank
// line; a spec with nothing to render yields "".
func (g *Generator) Generate(spec *component.Spec) string {
	sections := g.Sections(spec)
	rendered := make([]string, 0, len(sections))
	for _, s := range sections {
		rendered = append(rendered, s.Render())
	}
	return strings.Join(rendered, "\n")
}

// Sections returns the non-empty sections of spec in render order: env,
// paths, aliases, functions.
func (g *Generator) Sections(spec *component.Spec) []Section {
	var sections []Section

	if len(spec.Env) > 0 {
		env := EnvSection{}
		for _, k := range component.SortedKeys(spec.Env) {
			env.Vars = append(env.Vars, EnvVar{Name: k, Value: spec.Env[k]})
		}
		sections = append(sections, env)
	}

	var paths PathSection
	for _, p := range spec.Paths {
		if p.Condition == "" {
			paths.Guards = append(paths.Guards, PathGuard{Path: p.Path})
			continue
		}
		if g.platform != nil && g.platform.Matches(p.Condition) {
			paths.Guards = append(paths.Guards, PathGuard{Path: p.Path, CheckDir: true})
		}
	}
	if len(paths.Guards) > 0 {
		sections = append(sections, paths)
	}

	if len(spec.Aliases) > 0 {
		aliases := AliasSection{}
		for _, k := range component.SortedKeys(spec.Aliases) {
			aliases.Aliases = append(aliases.Aliases, Alias{Name: k, Command: spec.Aliases[k]})
		}
		sections = append(sections, aliases)
	}

	if len(spec.Wrappers) > 0 || len(spec.ShellFunctions) > 0 {
		fns := FunctionSection{Wrappers: append([]component.Wrapper(nil), spec.Wrappers...)}
		for _, name := range component.SortedKeys(spec.ShellFunctions) {
			fns.Functions = append(fns.Functions, Function{Name: name, Body: spec.ShellFunctions[name]})
			if strings.HasPrefix(name, initPrefix) {
				fns.Init = append(fns.Init, name)
			}
		}
		sections = append(sections, fns)
	}

	return sections
}
