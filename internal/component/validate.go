package component

import (
	"fmt"
	"regexp"
	"strings"
)

// ReservedNames cannot be used as component names because they collide with
// files hearth writes next to the component fragments.
var ReservedNames = map[string]bool{
	"shell":    true, // shell.sh entrypoint
	"manifest": true, // manifest.json
}

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	funcNamePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_:.-]*$`)
)

// ValidateName checks that name can key a registry entry and name a file.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !namePattern.MatchString(name) {
		return &ValidationError{Component: name, Field: "name", Message: "must start with a letter or digit and contain only letters, digits, '.', '_' or '-'"}
	}
	if ReservedNames[name] {
		return &ValidationError{Component: name, Field: "name", Message: "name is reserved"}
	}
	return nil
}

// Validate checks the rules that hold across fields of a merged spec.
func (s *Spec) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}

	invalid := func(field, format string, args ...any) error {
		return &ValidationError{Component: s.Name, Field: field, Message: fmt.Sprintf(format, args...)}
	}

	for _, k := range SortedKeys(s.Env) {
		if !identifierPattern.MatchString(k) {
			return invalid("env."+k, "not a valid environment variable name")
		}
	}

	for i, p := range s.Paths {
		field := fmt.Sprintf("paths[%d]", i)
		if strings.TrimSpace(p.Path) == "" {
			return invalid(field, "path is required")
		}
		if strings.ContainsAny(p.Path, "\"\n") {
			return invalid(field, "path must not contain quotes or newlines")
		}
	}

	// Aliases, wrappers and functions share one namespace in the shell.
	defined := make(map[string]string)
	define := func(name, kind, field string) error {
		if !funcNamePattern.MatchString(name) {
			return invalid(field, "%q is not a valid %s name", name, kind)
		}
		if prev, ok := defined[name]; ok {
			return invalid(field, "%q is already defined as %s", name, prev)
		}
		defined[name] = kind
		return nil
	}

	for _, name := range SortedKeys(s.Aliases) {
		if err := define(name, "alias", "aliases."+name); err != nil {
			return err
		}
		if strings.TrimSpace(s.Aliases[name]) == "" {
			return invalid("aliases."+name, "command is required")
		}
	}
	for i, w := range s.Wrappers {
		field := fmt.Sprintf("wrappers[%d]", i)
		if err := define(w.Name, "wrapper", field); err != nil {
			return err
		}
		if strings.TrimSpace(w.Command) == "" {
			return invalid(field+".command", "command is required")
		}
		if w.PostAction != "" && w.PostAction != PostActionCD {
			return invalid(field+".post_action", "unknown post action %q", w.PostAction)
		}
		if strings.ContainsAny(w.Usage+w.DefaultArg, "\"\n") {
			return invalid(field, "usage and default_arg must not contain quotes or newlines")
		}
	}
	for _, name := range SortedKeys(s.ShellFunctions) {
		if err := define(name, "function", "shell_functions."+name); err != nil {
			return err
		}
	}

	for i, f := range s.Files {
		field := fmt.Sprintf("files[%d]", i)
		if f.Target == "" {
			return invalid(field+".target", "target is required")
		}
		if f.Format == "" {
			return invalid(field+".format", "format is required")
		}
	}

	for _, d := range s.Dependencies {
		if d == s.Name {
			return invalid("dependencies", "component cannot depend on itself")
		}
		if !namePattern.MatchString(d) {
			return invalid("dependencies", "%q is not a valid component name", d)
		}
	}

	return nil
}
