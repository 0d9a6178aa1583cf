package shell

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/hearth/internal/transaction"
)

// RCFilePath returns the startup file for shell under home. zsh honours
// $ZDOTDIR when zdotdir is non-empty.
func RCFilePath(shell ShellType, home, zdotdir string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}
	if home == "" {
		return "", &RCFileError{Path: "", Message: "home directory is not set"}
	}

	switch shell {
	case ShellZsh:
		if zdotdir != "" {
			return filepath.Join(zdotdir, ".zshrc"), nil
		}
		return filepath.Join(home, ".zshrc"), nil
	default:
		return filepath.Join(home, ".bashrc"), nil
	}
}

// validateRCPath rejects relative and unclean paths.
func validateRCPath(rcPath string) error {
	if !filepath.IsAbs(rcPath) {
		return &RCFileError{Path: rcPath, Message: "path must be absolute"}
	}
	if filepath.Clean(rcPath) != rcPath {
		return &RCFileError{Path: rcPath, Message: "path contains traversal or redundant elements"}
	}
	return nil
}

// readRCFile returns the file's content and mode. A missing file reads as
// empty with mode 0644. Symlinks and non-regular files are refused since the
// atomic rename would replace the link.
func readRCFile(rcPath string) ([]byte, fs.FileMode, error) {
	if err := validateRCPath(rcPath); err != nil {
		return nil, 0, err
	}

	info, err := os.Lstat(rcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0o644, nil
	}
	if err != nil {
		return nil, 0, &RCFileError{Path: rcPath, Message: "failed to stat file", Cause: err}
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, 0, &RCFileError{Path: rcPath, Message: "refusing to modify symlink; point hearth at the link target"}
	}
	if !info.Mode().IsRegular() {
		return nil, 0, &RCFileError{Path: rcPath, Message: "not a regular file"}
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		return nil, 0, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}
	return content, info.Mode().Perm(), nil
}

// writeRCFile atomically replaces the rc file, creating its directory.
func writeRCFile(rcPath string, content []byte, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(rcPath), 0o700); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create parent directory", Cause: err}
	}
	if err := transaction.WriteFile(rcPath, content, perm); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to write file", Cause: err}
	}
	return nil
}

// BackupRCFile copies content to <rcPath>.hearth-backup.
func BackupRCFile(rcPath string, content []byte, perm fs.FileMode) (string, error) {
	backupPath := rcPath + BackupSuffix
	if err := transaction.WriteFile(backupPath, content, perm); err != nil {
		return "", &RCFileError{Path: backupPath, Message: "failed to write backup file", Cause: err}
	}
	return backupPath, nil
}
