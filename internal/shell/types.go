package shell

import "fmt"

// ShellType represents a shell hearth knows about
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is recognised
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// IsSupported returns true if hearth can inject into the shell's rc file
func (s ShellType) IsSupported() bool {
	return s == ShellBash || s == ShellZsh
}

// Action is the outcome of Inject or Eject.
type Action string

const (
	ActionInjected        Action = "injected"
	ActionEjected         Action = "ejected"
	ActionAlreadyInjected Action = "already_injected"
	ActionNotInjected     Action = "not_injected"
	ActionWouldInject     Action = "would_inject"
	ActionWouldEject      Action = "would_eject"
)

// InjectResult describes what Inject or Eject did, or would do in dry-run
// mode.
type InjectResult struct {
	RCFile         string `json:"rc_file"`
	EntrypointPath string `json:"entrypoint_path"`
	Action         Action `json:"action"`
	DryRun         bool   `json:"dry_run"`
	// InjectionBlock holds the exact bytes appended by Inject.
	InjectionBlock string `json:"injection_block,omitempty"`
	// RemovedBlock holds the exact bytes removed by Eject.
	RemovedBlock string `json:"removed_block,omitempty"`
	// BackupPath is set when a backup was written.
	BackupPath string `json:"backup_path,omitempty"`
}

// Changed reports whether the rc file was modified.
func (r *InjectResult) Changed() bool {
	return r.Action == ActionInjected || r.Action == ActionEjected
}

// InjectionState is read from the rc file on every call, never cached.
type InjectionState struct {
	RCFile         string `json:"rc_file"`
	EntrypointPath string `json:"entrypoint_path"`
	MarkerPresent  bool   `json:"marker_present"`
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	// Shell is the detected shell type
	Shell ShellType
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path to the shell binary
	ShellPath string
	// Confidence is the confidence level (high, medium, none)
	Confidence string
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh)", e.Shell)
}

// RCFileError represents an error with shell rc file operations
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}
