package fragment

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
)

// indent is the indent unit for function bodies and nested blocks.
const indent = "    "

// initPrefix marks raw shell functions that are invoked once right after the
// fragment defines them.
const initPrefix = "__"

// Section is one independently rendered part of a fragment.
type Section interface {
	// Kind names the section: "env", "paths", "aliases" or "functions".
	Kind() string
	// Render returns the section text, newline-terminated.
	Render() string
}

// EnvVar is one exported variable.
type EnvVar struct {
	Name  string
	Value string
}

// EnvSection exports environment variables, sorted by name.
type EnvSection struct {
	Vars []EnvVar
}

func (EnvSection) Kind() string { return "env" }

func (s EnvSection) Render() string {
	var b strings.Builder
	for _, v := range s.Vars {
		fmt.Fprintf(&b, "export %s=\"%s\"\n", v.Name, escapeDouble(v.Value))
	}
	return b.String()
}

// PathGuard prepends Path to PATH unless it is already present. CheckDir
// additionally requires the directory to exist, which is how
// platform-conditioned entries render.
type PathGuard struct {
	Path     string
	CheckDir bool
}

// PathSection holds PATH guards in declaration order.
type PathSection struct {
	Guards []PathGuard
}

func (PathSection) Kind() string { return "paths" }

func (s PathSection) Render() string {
	var b strings.Builder
	for _, g := range s.Guards {
		p := escapeDouble(g.Path)
		pad := ""
		if g.CheckDir {
			fmt.Fprintf(&b, "if [ -d \"%s\" ]; then\n", p)
			pad = indent
		}
		fmt.Fprintf(&b, "%scase \":$PATH:\" in\n", pad)
		fmt.Fprintf(&b, "%s%s*\":%s:\"*) ;;\n", pad, indent, p)
		fmt.Fprintf(&b, "%s%s*) export PATH=\"%s:$PATH\" ;;\n", pad, indent, p)
		fmt.Fprintf(&b, "%sesac\n", pad)
		if g.CheckDir {
			b.WriteString("fi\n")
		}
	}
	return b.String()
}

// Alias is one shell alias.
type Alias struct {
	Name    string
	Command string
}

// AliasSection defines aliases, sorted by name.
type AliasSection struct {
	Aliases []Alias
}

func (AliasSection) Kind() string { return "aliases" }

func (s AliasSection) Render() string {
	var b strings.Builder
	for _, a := range s.Aliases {
		fmt.Fprintf(&b, "alias %s='%s'\n", a.Name, escapeSingle(a.Command))
	}
	return b.String()
}

// Function is a raw shell function.
type Function struct {
	Name string
	Body string
}

// FunctionSection defines wrappers, then raw functions, then invokes the
// init functions.
type FunctionSection struct {
	Wrappers  []component.Wrapper
	Functions []Function
	Init      []string
}

func (FunctionSection) Kind() string { return "functions" }

func (s FunctionSection) Render() string {
	var blocks []string
	for _, w := range s.Wrappers {
		blocks = append(blocks, renderWrapper(w))
	}
	for _, f := range s.Functions {
		blocks = append(blocks, renderFunction(f))
	}
	if len(s.Init) > 0 {
		blocks = append(blocks, strings.Join(s.Init, "\n")+"\n")
	}
	return strings.Join(blocks, "\n")
}

// renderWrapper expands the wrapper template:
//
//	name() {
//	    if [ -z "$1" ]; then                       # requires_arg
//	        echo "Usage: ..."
//	        return 1
//	    fi
//	    if [ -z "$1" ]; then                       # default_arg
//	        [ "$#" -gt 0 ] && shift
//	        set -- "default" "$@"
//	    fi
//	    command "$@" && cd "$1"                    # post_action: cd
//	}
func renderWrapper(w component.Wrapper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s() {\n", w.Name)

	if w.RequiresArg {
		usage := w.Usage
		if usage == "" {
			usage = w.Name + " <arg>"
		}
		fmt.Fprintf(&b, "%sif [ -z \"$1\" ]; then\n", indent)
		fmt.Fprintf(&b, "%s%secho \"Usage: %s\"\n", indent, indent, escapeDouble(usage))
		fmt.Fprintf(&b, "%s%sreturn 1\n", indent, indent)
		fmt.Fprintf(&b, "%sfi\n", indent)
	}

	if w.DefaultArg != "" {
		fmt.Fprintf(&b, "%sif [ -z \"$1\" ]; then\n", indent)
		fmt.Fprintf(&b, "%s%s[ \"$#\" -gt 0 ] && shift\n", indent, indent)
		fmt.Fprintf(&b, "%s%sset -- \"%s\" \"$@\"\n", indent, indent, escapeDouble(w.DefaultArg))
		fmt.Fprintf(&b, "%sfi\n", indent)
	}

	call := w.Command + ` "$@"`
	if w.PostAction == component.PostActionCD {
		call += ` && cd "$1"`
	}
	fmt.Fprintf(&b, "%s%s\n", indent, call)

	b.WriteString("}\n")
	return b.String()
}

func renderFunction(f Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s() {\n", f.Name)

	body := strings.TrimSpace(f.Body)
	if body == "" {
		body = ":"
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent + line + "\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// escapeDouble escapes s for a double-quoted shell word. '$' is left alone so
// values can reference other variables.
func escapeDouble(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")
	return r.Replace(s)
}

// escapeSingle escapes s for a single-quoted shell word.
func escapeSingle(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
