// Package drift compares what hearth would generate now against what is on
// disk. Each generated file is classified as OK, MISSING, MODIFIED or
// ORPHANED.
package drift

import "github.com/ZebulonRouseFrantzich/hearth/internal/manifest"

// DriftType represents the type of drift detected
type DriftType int

const (
	DriftOK DriftType = iota
	DriftMissing
	DriftModified
	DriftOrphaned
)

// String returns human-readable drift type name
func (d DriftType) String() string {
	switch d {
	case DriftOK:
		return "OK"
	case DriftMissing:
		return "MISSING"
	case DriftModified:
		return "MODIFIED"
	case DriftOrphaned:
		return "ORPHANED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the drift type in lowercase for JSON output.
func (d DriftType) MarshalText() ([]byte, error) {
	switch d {
	case DriftOK:
		return []byte("ok"), nil
	case DriftMissing:
		return []byte("missing"), nil
	case DriftModified:
		return []byte("modified"), nil
	case DriftOrphaned:
		return []byte("orphaned"), nil
	default:
		return []byte("unknown"), nil
	}
}

// Expected is a freshly rendered file and where it should be.
type Expected struct {
	Component string
	Kind      manifest.Kind
	Path      string
	Content   []byte
}

// DriftResult represents a single drift detection result
type DriftResult struct {
	Component string        `json:"component,omitempty"`
	Kind      manifest.Kind `json:"kind,omitempty"`
	Path      string        `json:"path"`
	DriftType DriftType     `json:"drift"`
	// Diff is a line diff from the on-disk file to the expected content,
	// set for MODIFIED entries.
	Diff string `json:"diff,omitempty"`
	// Recorded is true when the manifest still matches the on-disk file,
	// meaning the component spec changed rather than the file being edited.
	Recorded bool `json:"recorded,omitempty"`
}
