// Package manifest records what hearth generated: every fragment, the
// entrypoint and every rendered config file, with a content digest and, for
// config files, the final location a linking step should point at it.
//
// The manifest lives at <output-dir>/manifest.json and is rewritten
// atomically after each real generate batch. It carries no timestamps, so
// regenerating unchanged specs leaves it byte-identical.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/opencontainers/go-digest"

	"github.com/ZebulonRouseFrantzich/hearth/internal/transaction"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// CurrentVersion is the manifest schema version written by Save.
const CurrentVersion = 1

// Kind classifies a generated artifact.
type Kind string

const (
	KindScript     Kind = "script"
	KindEntrypoint Kind = "entrypoint"
	KindConfig     Kind = "config"
)

// Entry is one generated file.
type Entry struct {
	Component     string        `json:"component"`
	Kind          Kind          `json:"kind"`
	Path          string        `json:"path"`
	Format        string        `json:"format,omitempty"`
	SymlinkTarget string        `json:"symlink_target,omitempty"`
	Digest        digest.Digest `json:"digest"`
}

// NewEntry builds an entry whose digest covers content.
func NewEntry(component string, kind Kind, path string, content []byte) Entry {
	return Entry{
		Component: component,
		Kind:      kind,
		Path:      path,
		Digest:    digest.FromBytes(content),
	}
}

// Matches reports whether content hashes to the recorded digest.
func (e Entry) Matches(content []byte) bool {
	return e.Digest != "" && e.Digest.Algorithm().FromBytes(content) == e.Digest
}

// Manifest is the set of generated files, keyed by path.
type Manifest struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Version: CurrentVersion, Entries: []Entry{}}
}

// Load reads the manifest at path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Version > CurrentVersion {
		return nil, fmt.Errorf("parse manifest %s: unsupported version %d", path, m.Version)
	}
	for _, e := range m.Entries {
		if err := e.Digest.Validate(); err != nil {
			return nil, fmt.Errorf("parse manifest %s: entry %s: %w", path, e.Path, err)
		}
	}
	m.Version = CurrentVersion
	if m.Entries == nil {
		m.Entries = []Entry{}
	}
	m.sort()
	return &m, nil
}

// Save writes the manifest atomically, creating its directory.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &transaction.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return transaction.WriteFile(path, data, 0o644)
}

// Marshal returns the manifest's canonical JSON form.
func (m *Manifest) Marshal() ([]byte, error) {
	m.sort()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Lookup returns the entry recorded for path.
func (m *Manifest) Lookup(path string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// ReplaceComponent drops every entry of component and records entries in
// their place. Entries of other components are kept.
func (m *Manifest) ReplaceComponent(component string, entries ...Entry) {
	kept := m.Entries[:0]
	for _, e := range m.Entries {
		if e.Component != component {
			kept = append(kept, e)
		}
	}
	m.Entries = kept
	m.Upsert(entries...)
}

// Upsert records entries, replacing any existing entry with the same path.
func (m *Manifest) Upsert(entries ...Entry) {
	for _, e := range entries {
		replaced := false
		for i := range m.Entries {
			if m.Entries[i].Path == e.Path {
				m.Entries[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			m.Entries = append(m.Entries, e)
		}
	}
	m.sort()
}

// Components returns the distinct component names, sorted.
func (m *Manifest) Components() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range m.Entries {
		if !seen[e.Component] {
			seen[e.Component] = true
			names = append(names, e.Component)
		}
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) sort() {
	sort.Slice(m.Entries, func(i, j int) bool {
		return m.Entries[i].Path < m.Entries[j].Path
	})
}
