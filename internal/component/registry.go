package component

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed specs/*.yaml
var embeddedSpecs embed.FS

// Registry holds the base spec of every known component, keyed by name.
// Registering a name again replaces the previous entry.
type Registry struct {
	entries map[string]entry
}

type entry struct {
	data   []byte // raw YAML, decoded on every load
	spec   *Spec  // pre-built spec, cloned on every load
	source string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// NewDefaultRegistry returns a registry holding the specs shipped with hearth.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := r.RegisterFS(embeddedSpecs, "specs"); err != nil {
		return nil, err
	}
	return r, nil
}

// Register stores a YAML spec document under name.
func (r *Registry) Register(name string, data []byte) {
	r.register(name, data, "registered:"+name)
}

func (r *Registry) register(name string, data []byte, source string) {
	r.entries[name] = entry{data: append([]byte(nil), data...), source: source}
}

// RegisterSpec stores a copy of spec under spec.Name.
func (r *Registry) RegisterSpec(spec *Spec) {
	c := spec.Clone()
	c.normalize()
	r.entries[spec.Name] = entry{spec: c, source: "registered:" + spec.Name}
}

// RegisterFS registers every *.yaml and *.yml file in dir of fsys, using the
// file stem as the component name.
func (r *Registry) RegisterFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read spec directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read spec %s: %w", p, err)
		}
		r.register(strings.TrimSuffix(e.Name(), ext), data, p)
	}
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns every registered component name in lexicographic order.
func (r *Registry) Names() []string {
	return SortedKeys(r.entries)
}

// base builds a fresh copy of the base spec for name.
func (r *Registry) base(name string) (*Spec, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, &NotFoundError{Name: name, Available: r.Names()}
	}
	if e.spec != nil {
		return e.spec.Clone(), nil
	}
	return decodeSpec(e.data, name, e.source)
}
