// Package transaction commits batches of planned file writes. Every write is
// atomic (temp file, sync, rename); a batch stops at the first failure and
// leaves earlier writes in place, so rerunning the batch after fixing the
// cause converges on the same result.
package transaction

import (
	"fmt"
	"os"
	"path/filepath"
)

// State is the progress of one planned write.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// IOError reports a filesystem operation that failed on Path.
type IOError struct {
	Op   string // e.g. "mkdir", "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Write is one file the batch will create or replace.
type Write struct {
	Path    string
	Content []byte
	Perm    os.FileMode
	State   State
	Err     error
}

// Batch is an ordered list of planned writes.
type Batch struct {
	Writes []*Write
}

// Add plans a write of content to path.
func (b *Batch) Add(path string, content []byte, perm os.FileMode) {
	b.Writes = append(b.Writes, &Write{Path: path, Content: content, Perm: perm, State: StatePending})
}

// Len returns the number of planned writes.
func (b *Batch) Len() int {
	return len(b.Writes)
}

// Commit performs the planned writes in order, creating parent directories
// as needed. It stops at the first failure and returns it as an *IOError;
// writes after the failure stay pending.
func (b *Batch) Commit() error {
	for _, w := range b.Writes {
		if w.State == StateCompleted {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
			w.State, w.Err = StateFailed, err
			return &IOError{Op: "mkdir", Path: filepath.Dir(w.Path), Err: err}
		}
		if err := WriteFile(w.Path, w.Content, w.Perm); err != nil {
			w.State, w.Err = StateFailed, err
			return err
		}
		w.State = StateCompleted
	}
	return nil
}

// Completed returns the paths written so far.
func (b *Batch) Completed() []string {
	var paths []string
	for _, w := range b.Writes {
		if w.State == StateCompleted {
			paths = append(paths, w.Path)
		}
	}
	return paths
}

// WriteFile atomically replaces path with data: it writes a temporary file in
// the same directory, syncs it, and renames it over path. The parent
// directory must exist. Failures are returned as *IOError.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".hearth-tmp-*")
	if err != nil {
		return &IOError{Op: "create temporary file for", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}

	// Sync directory for durability
	if df, err := os.Open(dir); err == nil {
		syncErr := df.Sync()
		df.Close()
		if syncErr != nil {
			return &IOError{Op: "sync directory", Path: dir, Err: syncErr}
		}
	}
	return nil
}
