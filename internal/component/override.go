package component

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
)

// OverrideSource supplies user overrides keyed by component name.
// Override returns nil, nil when name has no override.
type OverrideSource interface {
	Override(ctx context.Context, name string) (*Override, error)
}

// overrideExtensions lists the override file kinds in lookup order.
var overrideExtensions = []string{".yaml", ".yml", ".lua"}

// DirOverrides reads overrides from <Dir>/<name>.yaml, .yml or .lua; the
// first one found wins.
type DirOverrides struct {
	Dir string
	// Detector feeds the platform table of Lua overrides. Nil uses the real host.
	Detector platform.Detector
}

// Path returns the override file for name, if one exists.
func (d DirOverrides) Path(name string) (string, bool) {
	if d.Dir == "" {
		return "", false
	}
	for _, ext := range overrideExtensions {
		p := filepath.Join(d.Dir, name+ext)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Has reports whether an override file exists for name.
func (d DirOverrides) Has(name string) bool {
	_, ok := d.Path(name)
	return ok
}

// Override implements OverrideSource.
func (d DirOverrides) Override(ctx context.Context, name string) (*Override, error) {
	p, ok := d.Path(name)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read override %s: %w", p, err)
	}

	if filepath.Ext(p) != ".lua" {
		return decodeOverrideYAML(data, name, p)
	}

	detector := d.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}
	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	return ParseLuaOverride(ctx, string(data), name, p, info)
}

// StaticOverrides is an in-memory OverrideSource.
type StaticOverrides map[string]*Override

// Override implements OverrideSource.
func (s StaticOverrides) Override(_ context.Context, name string) (*Override, error) {
	return s[name], nil
}

// Has reports whether name has an override.
func (s StaticOverrides) Has(name string) bool {
	return s[name] != nil
}
