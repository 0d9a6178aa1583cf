package configfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// OSEnviron reads variables from the process environment.
func OSEnviron() expand.Environ {
	return expand.FuncEnviron(os.Getenv)
}

// ExpandPath expands a target path the way a shell would expand a single
// unquoted word: $VAR, ${VAR}, ${VAR:-default} and a leading ~ are
// supported. Command substitution is rejected.
func ExpandPath(path string, env expand.Environ) (string, error) {
	var word *syntax.Word
	for w, err := range syntax.NewParser().WordsSeq(strings.NewReader(path)) {
		if err != nil {
			return "", fmt.Errorf("parse path %q: %w", path, err)
		}
		if word != nil {
			return "", fmt.Errorf("path %q must be a single word", path)
		}
		word = w
	}
	if word == nil {
		return "", fmt.Errorf("path is empty")
	}

	expanded, err := expand.Literal(&expand.Config{Env: env}, word)
	if err != nil {
		return "", fmt.Errorf("expand path %q: %w", path, err)
	}
	if expanded == "" {
		return "", fmt.Errorf("path %q expands to nothing", path)
	}
	return filepath.Clean(expanded), nil
}

// relativeTarget returns the part of target below $XDG_CONFIG_HOME
// (default $HOME/.config) or $HOME, or the base name when target is under
// neither.
func relativeTarget(target string, env expand.Environ) string {
	home := env.Get("HOME").String()
	xdg := env.Get("XDG_CONFIG_HOME").String()
	if xdg == "" && home != "" {
		xdg = filepath.Join(home, ".config")
	}

	for _, base := range []string{xdg, home} {
		if base == "" {
			continue
		}
		rel, err := filepath.Rel(base, target)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return rel
	}
	return filepath.Base(target)
}
