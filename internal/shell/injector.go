package shell

import (
	"fmt"
	"io/fs"
	"strings"
)

// Injector edits the managed block in one rc file.
type Injector struct {
	rcFile     string
	entrypoint string
	dryRun     bool
	backup     bool
}

// Option configures an Injector.
type Option func(*Injector)

// WithDryRun makes Inject and Eject report the change without writing.
func WithDryRun(dryRun bool) Option {
	return func(i *Injector) { i.dryRun = dryRun }
}

// WithBackup copies the rc file to <rc>.hearth-backup before modifying it.
func WithBackup(backup bool) Option {
	return func(i *Injector) { i.backup = backup }
}

// NewInjector creates an injector that sources entrypoint from rcFile.
func NewInjector(rcFile, entrypoint string, opts ...Option) *Injector {
	i := &Injector{rcFile: rcFile, entrypoint: entrypoint}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RCFile returns the managed startup file.
func (i *Injector) RCFile() string {
	return i.rcFile
}

// SourceLine returns the guarded line that sources the entrypoint.
func SourceLine(entrypoint string) string {
	return fmt.Sprintf(`[ -f "%s" ] && . "%s"`, entrypoint, entrypoint)
}

// Block returns the managed block including the blank separator line before
// it.
func Block(entrypoint string) string {
	return "\n" + BeginMarker + "\n" + SourceLine(entrypoint) + "\n" + EndMarker + "\n"
}

// State reports whether the begin marker is present in the rc file.
func (i *Injector) State() (*InjectionState, error) {
	content, _, err := readRCFile(i.rcFile)
	if err != nil {
		return nil, err
	}
	return &InjectionState{
		RCFile:         i.rcFile,
		EntrypointPath: i.entrypoint,
		MarkerPresent:  strings.Contains(string(content), BeginMarker),
	}, nil
}

// Inject appends the managed block unless the begin marker is already
// present. A file not ending in a newline gets one first.
func (i *Injector) Inject() (*InjectResult, error) {
	result := i.newResult()

	content, perm, err := readRCFile(i.rcFile)
	if err != nil {
		return nil, err
	}
	if strings.Contains(string(content), BeginMarker) {
		result.Action = ActionAlreadyInjected
		return result, nil
	}

	block := Block(i.entrypoint)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		block = "\n" + block
	}
	result.InjectionBlock = block

	if i.dryRun {
		result.Action = ActionWouldInject
		return result, nil
	}

	if err := i.commit(result, content, append(content, block...), perm); err != nil {
		return nil, err
	}
	result.Action = ActionInjected
	return result, nil
}

// Eject removes every managed block, each with the blank separator line
// directly before it. A begin marker without a matching end marker is an
// RCFileError and nothing is written.
func (i *Injector) Eject() (*InjectResult, error) {
	result := i.newResult()

	content, perm, err := readRCFile(i.rcFile)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(string(content), BeginMarker) {
		result.Action = ActionNotInjected
		return result, nil
	}

	kept, removed, err := removeBlocks(string(content))
	if err != nil {
		return nil, &RCFileError{Path: i.rcFile, Message: err.Error()}
	}
	result.RemovedBlock = removed

	if i.dryRun {
		result.Action = ActionWouldEject
		return result, nil
	}

	if err := i.commit(result, content, []byte(kept), perm); err != nil {
		return nil, err
	}
	result.Action = ActionEjected
	return result, nil
}

func (i *Injector) newResult() *InjectResult {
	return &InjectResult{
		RCFile:         i.rcFile,
		EntrypointPath: i.entrypoint,
		DryRun:         i.dryRun,
	}
}

func (i *Injector) commit(result *InjectResult, old, updated []byte, perm fs.FileMode) error {
	if i.backup && len(old) > 0 {
		backupPath, err := BackupRCFile(i.rcFile, old, perm)
		if err != nil {
			return err
		}
		result.BackupPath = backupPath
	}
	return writeRCFile(i.rcFile, updated, perm)
}

// removeBlocks splits content into the bytes that stay and the bytes that
// go. Lines keep their terminators so the remainder is byte-exact.
func removeBlocks(content string) (kept, removed string, err error) {
	lines := strings.SplitAfter(content, "\n")
	var out, gone strings.Builder
	var pending string // a blank line that may separate a following block

	for n := 0; n < len(lines); n++ {
		line := lines[n]
		if !strings.Contains(line, BeginMarker) {
			out.WriteString(pending)
			pending = ""
			if line == "\n" {
				pending = line
				continue
			}
			out.WriteString(line)
			continue
		}

		end := -1
		for m := n + 1; m < len(lines); m++ {
			if strings.Contains(lines[m], EndMarker) {
				end = m
				break
			}
		}
		if end < 0 {
			return "", "", fmt.Errorf("begin marker on line %d has no matching end marker", n+1)
		}

		gone.WriteString(pending)
		pending = ""
		for _, l := range lines[n : end+1] {
			gone.WriteString(l)
		}
		n = end
	}
	out.WriteString(pending)
	return out.String(), gone.String(), nil
}
