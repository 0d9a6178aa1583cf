// Package shell manages hearth's block inside the user's shell startup file.
//
// The block is delimited by two literal marker lines and holds a single
// guarded source line for the generated entrypoint:
//
//	# >>> hearth shell integration >>>
//	[ -f "/home/me/.config/hearth/shell.sh" ] && . "/home/me/.config/hearth/shell.sh"
//	# <<< hearth shell integration <<<
//
// # Safety
//
// The Injector only reads and writes the bytes of its own block plus the one
// blank separator line it adds before it. Everything else in the rc file is
// preserved byte for byte. Writes are atomic (temp file + rename in the same
// directory), rc files that are symlinks are refused, and an optional backup
// is copied to <rc>.hearth-backup before any change.
//
// Both operations are idempotent: Inject on an injected file reports
// already_injected, Eject on a clean file reports not_injected. Neither is an
// error.
//
// # Shell Detection
//
// DetectShell reads $SHELL and falls back to the parent process name. bash
// and zsh are supported; fish is recognised but rejected for injection since
// generated fragments are POSIX shell.
package shell
