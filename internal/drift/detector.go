package drift

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/hearth/internal/manifest"
)

// DetectDrift compares expected files with the disk and returns one result
// per expected file, in input order, followed by orphans sorted by path.
//
// An orphan is a .sh file in outputDir, or a path recorded in the manifest,
// that no expected file accounts for and that still exists. recorded may be
// nil.
func DetectDrift(expected []Expected, outputDir string, recorded *manifest.Manifest) ([]DriftResult, error) {
	results := make([]DriftResult, 0, len(expected))
	known := make(map[string]bool, len(expected))

	for _, exp := range expected {
		known[exp.Path] = true
		result := DriftResult{Component: exp.Component, Kind: exp.Kind, Path: exp.Path}

		actual, err := os.ReadFile(exp.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			result.DriftType = DriftMissing
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", exp.Path, err)
		case string(actual) == string(exp.Content):
			result.DriftType = DriftOK
		default:
			result.DriftType = DriftModified
			result.Diff = LineDiff(string(actual), string(exp.Content))
			if recorded != nil {
				if e, ok := recorded.Lookup(exp.Path); ok && e.Matches(actual) {
					result.Recorded = true
				}
			}
		}
		results = append(results, result)
	}

	orphans, err := findOrphans(outputDir, recorded, known)
	if err != nil {
		return nil, err
	}
	return append(results, orphans...), nil
}

func findOrphans(outputDir string, recorded *manifest.Manifest, known map[string]bool) ([]DriftResult, error) {
	found := make(map[string]DriftResult)

	if outputDir != "" {
		entries, err := os.ReadDir(outputDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list %s: %w", outputDir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".sh") {
				continue
			}
			path := filepath.Join(outputDir, e.Name())
			if known[path] {
				continue
			}
			found[path] = DriftResult{
				Component: strings.TrimSuffix(e.Name(), ".sh"),
				Kind:      manifest.KindScript,
				Path:      path,
				DriftType: DriftOrphaned,
			}
		}
	}

	if recorded != nil {
		for _, e := range recorded.Entries {
			if known[e.Path] {
				continue
			}
			if _, err := os.Lstat(e.Path); err != nil {
				continue
			}
			found[e.Path] = DriftResult{
				Component: e.Component,
				Kind:      e.Kind,
				Path:      e.Path,
				DriftType: DriftOrphaned,
				Recorded:  true,
			}
		}
	}

	orphans := make([]DriftResult, 0, len(found))
	for _, r := range found {
		orphans = append(orphans, r)
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Path < orphans[j].Path })
	return orphans, nil
}

// HasDrift reports whether any result is not OK.
func HasDrift(results []DriftResult) bool {
	for _, r := range results {
		if r.DriftType != DriftOK {
			return true
		}
	}
	return false
}
