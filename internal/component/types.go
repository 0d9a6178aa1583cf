package component

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// PostActionCD changes into the first argument after a wrapper's command succeeds.
const PostActionCD = "cd"

// Spec is the fully merged description of one component.
type Spec struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description,omitempty"`
	Version        string            `yaml:"version,omitempty"`
	Env            map[string]string `yaml:"env,omitempty"`
	Paths          []PathEntry       `yaml:"paths,omitempty"`
	Aliases        map[string]string `yaml:"aliases,omitempty"`
	Wrappers       []Wrapper         `yaml:"wrappers,omitempty"`
	ShellFunctions map[string]string `yaml:"shell_functions,omitempty"`
	Files          []FileSpec        `yaml:"files,omitempty"`
	Dependencies   []string          `yaml:"dependencies,omitempty"`
}

// PathEntry is a directory prepended to PATH. Condition, when set, is a
// platform condition such as "darwin" or "debian".
type PathEntry struct {
	Path      string `yaml:"path"`
	Condition string `yaml:"condition,omitempty"`
}

// UnmarshalYAML accepts either a bare string or a {path, condition} mapping.
func (p *PathEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Path = value.Value
		p.Condition = ""
		return nil
	}
	type plain PathEntry
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}
	*p = PathEntry(v)
	return nil
}

// Wrapper is a thin shell function forwarding to an external command.
type Wrapper struct {
	Name        string `yaml:"name"`
	Command     string `yaml:"command"`
	Usage       string `yaml:"usage,omitempty"`
	RequiresArg bool   `yaml:"requires_arg,omitempty"`
	DefaultArg  string `yaml:"default_arg,omitempty"`
	PostAction  string `yaml:"post_action,omitempty"`
}

// FileSpec describes one generated configuration file.
type FileSpec struct {
	// Target is the final location, e.g. "${XDG_CONFIG_HOME:-~/.config}/ghostty/config".
	Target string `yaml:"target"`
	// Format selects the serializer, e.g. "json", "toml", "keyvalue".
	Format string `yaml:"format"`
	// Values is the value tree handed to the serializer.
	Values map[string]any `yaml:"values,omitempty"`
	// Platforms restricts generation to matching platforms. Empty means all.
	Platforms []string `yaml:"platforms,omitempty"`
}

// Override is a partial spec layered over a base spec. Nil pointers and nil
// maps mean "not set"; a non-nil pointer to an empty slice clears the list.
type Override struct {
	Name           string            `yaml:"name,omitempty"`
	Description    *string           `yaml:"description,omitempty"`
	Version        *string           `yaml:"version,omitempty"`
	Env            map[string]string `yaml:"env,omitempty"`
	Paths          *[]PathEntry      `yaml:"paths,omitempty"`
	Aliases        map[string]string `yaml:"aliases,omitempty"`
	Wrappers       *[]Wrapper        `yaml:"wrappers,omitempty"`
	ShellFunctions map[string]string `yaml:"shell_functions,omitempty"`
	Files          *[]FileSpec       `yaml:"files,omitempty"`
	Dependencies   *[]string         `yaml:"dependencies,omitempty"`
}

// String implements fmt.Stringer.
func (s *Spec) String() string {
	return fmt.Sprintf("component %q", s.Name)
}

// SortedKeys returns the keys of m in lexicographic order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of s. Loader results never share memory with the
// registry or with each other.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	c := &Spec{
		Name:           s.Name,
		Description:    s.Description,
		Version:        s.Version,
		Env:            cloneStrings(s.Env),
		Aliases:        cloneStrings(s.Aliases),
		ShellFunctions: cloneStrings(s.ShellFunctions),
	}
	if s.Paths != nil {
		c.Paths = append([]PathEntry{}, s.Paths...)
	}
	if s.Wrappers != nil {
		c.Wrappers = append([]Wrapper{}, s.Wrappers...)
	}
	if s.Dependencies != nil {
		c.Dependencies = append([]string{}, s.Dependencies...)
	}
	if s.Files != nil {
		c.Files = make([]FileSpec, len(s.Files))
		for i, f := range s.Files {
			c.Files[i] = f.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of f, including its value tree.
func (f FileSpec) Clone() FileSpec {
	c := FileSpec{Target: f.Target, Format: f.Format}
	if f.Values != nil {
		c.Values, _ = cloneValue(f.Values).(map[string]any)
	}
	if f.Platforms != nil {
		c.Platforms = append([]string{}, f.Platforms...)
	}
	return c
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, e := range t {
			c[k] = cloneValue(e)
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = cloneValue(e)
		}
		return c
	default:
		return v
	}
}

// normalize sorts and de-duplicates dependencies. Dependencies are a set;
// keeping them sorted makes every consumer deterministic.
func (s *Spec) normalize() {
	if len(s.Dependencies) == 0 {
		return
	}
	seen := make(map[string]bool, len(s.Dependencies))
	deps := s.Dependencies[:0]
	for _, d := range s.Dependencies {
		if seen[d] {
			continue
		}
		seen[d] = true
		deps = append(deps, d)
	}
	sort.Strings(deps)
	s.Dependencies = deps
}
