package fragment

import (
	"fmt"
	"strings"
)

// EntrypointName is the file name of the aggregate entrypoint.
const EntrypointName = "shell.sh"

// Entrypoint renders the script that sources every fragment in dir, in
// order, then loads hearth's completions for shell ("zsh"; anything else
// gets bash completions).
func Entrypoint(dir string, order []string, shell string) string {
	var b strings.Builder

	b.WriteString("#!/bin/sh\n")
	b.WriteString("# hearth shell integration entrypoint\n")
	b.WriteString("# Generated by hearth. Do not edit; run 'hearth generate' instead.\n\n")

	fmt.Fprintf(&b, "HEARTH_CONFIG_DIR=\"%s\"\n\n", escapeDouble(dir))

	for _, name := range order {
		fmt.Fprintf(&b, "[ -f \"$HEARTH_CONFIG_DIR/%s.sh\" ] && . \"$HEARTH_CONFIG_DIR/%s.sh\"\n", name, name)
	}
	if len(order) > 0 {
		b.WriteString("\n")
	}

	completion := "bash"
	if shell == "zsh" {
		completion = "zsh"
	}
	b.WriteString("if command -v hearth >/dev/null 2>&1; then\n")
	fmt.Fprintf(&b, "%seval \"$(hearth completion %s)\"\n", indent, completion)
	b.WriteString("fi\n")

	return b.String()
}
