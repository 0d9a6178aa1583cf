package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// parentProcess returns the name and executable of the parent process.
// Tests replace it.
var parentProcess = func(ctx context.Context) (name, exe string) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return "", ""
	}
	name, _ = p.NameWithContext(ctx)
	exe, _ = p.ExeWithContext(ctx)
	return name, exe
}

// DetectShell detects the user's shell using multiple methods
func DetectShell(ctx context.Context) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Method 1: $SHELL (most reliable)
	if shell := os.Getenv("SHELL"); shell != "" {
		shellType := parseShellFromPath(shell)
		if shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "$SHELL environment variable",
				ShellPath:  shell,
				Confidence: "high",
			}, nil
		}
	}

	// Method 2: parent process name
	if name, exe := parentProcess(ctx); name != "" {
		if shellType := parseShellFromPath(name); shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "parent process",
				ShellPath:  exe,
				Confidence: "medium",
			}, nil
		}
	}

	return &DetectionResult{
		Shell:      ShellUnknown,
		Method:     "detection failed",
		Confidence: "none",
	}, nil
}

// ParseShell maps a shell name such as "zsh" or "/bin/zsh" to its type.
func ParseShell(name string) ShellType {
	return parseShellFromPath(name)
}

// parseShellFromPath extracts the shell type from a shell binary path.
// Login shells reported as "-zsh" are accepted.
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(shellPath))
	baseName = strings.TrimPrefix(baseName, "-")

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}

// ValidateShell returns an UnsupportedShellError unless hearth can inject
// into the shell's rc file.
func ValidateShell(shell ShellType) error {
	if !shell.IsSupported() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}

// GetSupportedShells returns the shells hearth can inject into
func GetSupportedShells() []ShellType {
	return []ShellType{ShellBash, ShellZsh}
}
