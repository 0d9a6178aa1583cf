package component

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LuaGenerator renders a spec as a Lua override script. Running the script
// through ParseLuaOverride and merging it over any base reproduces the spec,
// so users can start customizing from the effective configuration.
type LuaGenerator struct {
	indent string
}

// NewLuaGenerator creates a generator indenting with two spaces.
func NewLuaGenerator() *LuaGenerator {
	return &LuaGenerator{indent: "  "}
}

// Generate renders spec. Output is deterministic: maps are written in
// sorted key order and nothing time-dependent is included.
func (g *LuaGenerator) Generate(spec *Spec) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "-- hearth override for %s\n", spec.Name)
	buf.WriteString("-- Edit the values below. The read-only 'platform' table is available,\n")
	buf.WriteString("-- e.g. platform.when(platform.is_macos, \"/opt/homebrew/bin\").\n\n")
	buf.WriteString("component = {\n")

	g.writeString(&buf, 1, "description", spec.Description)
	g.writeString(&buf, 1, "version", spec.Version)
	g.writeStringMap(&buf, "env", spec.Env)

	if len(spec.Paths) > 0 {
		g.open(&buf, 1, "paths")
		for _, p := range spec.Paths {
			g.pad(&buf, 2)
			if p.Condition == "" {
				buf.WriteString(quoteLua(p.Path) + ",\n")
				continue
			}
			fmt.Fprintf(&buf, "{ path = %s, condition = %s },\n", quoteLua(p.Path), quoteLua(p.Condition))
		}
		g.close(&buf, 1)
	}

	g.writeStringMap(&buf, "aliases", spec.Aliases)

	if len(spec.Wrappers) > 0 {
		g.open(&buf, 1, "wrappers")
		for _, w := range spec.Wrappers {
			g.pad(&buf, 2)
			buf.WriteString("{\n")
			g.writeString(&buf, 3, "name", w.Name)
			g.writeString(&buf, 3, "command", w.Command)
			g.writeString(&buf, 3, "usage", w.Usage)
			if w.RequiresArg {
				g.pad(&buf, 3)
				buf.WriteString("requires_arg = true,\n")
			}
			g.writeString(&buf, 3, "default_arg", w.DefaultArg)
			g.writeString(&buf, 3, "post_action", w.PostAction)
			g.close(&buf, 2)
		}
		g.close(&buf, 1)
	}

	if len(spec.ShellFunctions) > 0 {
		g.open(&buf, 1, "shell_functions")
		for _, name := range SortedKeys(spec.ShellFunctions) {
			g.pad(&buf, 2)
			fmt.Fprintf(&buf, "%s = %s,\n", luaKey(name), longString(spec.ShellFunctions[name]))
		}
		g.close(&buf, 1)
	}

	if len(spec.Files) > 0 {
		g.open(&buf, 1, "files")
		for _, f := range spec.Files {
			g.pad(&buf, 2)
			buf.WriteString("{\n")
			g.writeString(&buf, 3, "target", f.Target)
			g.writeString(&buf, 3, "format", f.Format)
			if len(f.Platforms) > 0 {
				g.pad(&buf, 3)
				buf.WriteString("platforms = ")
				g.writeValue(&buf, 3, toAnySlice(f.Platforms))
				buf.WriteString(",\n")
			}
			if f.Values != nil {
				g.pad(&buf, 3)
				buf.WriteString("values = ")
				g.writeValue(&buf, 3, f.Values)
				buf.WriteString(",\n")
			}
			g.close(&buf, 2)
		}
		g.close(&buf, 1)
	}

	if len(spec.Dependencies) > 0 {
		g.pad(&buf, 1)
		buf.WriteString("dependencies = ")
		g.writeValue(&buf, 1, toAnySlice(spec.Dependencies))
		buf.WriteString(",\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (g *LuaGenerator) pad(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat(g.indent, depth))
}

func (g *LuaGenerator) open(buf *bytes.Buffer, depth int, key string) {
	g.pad(buf, depth)
	buf.WriteString(key + " = {\n")
}

func (g *LuaGenerator) close(buf *bytes.Buffer, depth int) {
	g.pad(buf, depth)
	buf.WriteString("},\n")
}

func (g *LuaGenerator) writeString(buf *bytes.Buffer, depth int, key, value string) {
	if value == "" {
		return
	}
	g.pad(buf, depth)
	fmt.Fprintf(buf, "%s = %s,\n", key, quoteLua(value))
}

func (g *LuaGenerator) writeStringMap(buf *bytes.Buffer, key string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	g.open(buf, 1, key)
	for _, k := range SortedKeys(m) {
		g.pad(buf, 2)
		fmt.Fprintf(buf, "%s = %s,\n", luaKey(k), quoteLua(m[k]))
	}
	g.close(buf, 1)
}

// writeValue renders a generic value tree inline-first: scalars inline,
// tables across lines.
func (g *LuaGenerator) writeValue(buf *bytes.Buffer, depth int, v any) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			buf.WriteString("{}")
			return
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteString("{\n")
		for _, k := range keys {
			g.pad(buf, depth+1)
			buf.WriteString(luaKey(k) + " = ")
			g.writeValue(buf, depth+1, t[k])
			buf.WriteString(",\n")
		}
		g.pad(buf, depth)
		buf.WriteString("}")
	case []any:
		if len(t) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{ ")
		for i, e := range t {
			if i > 0 {
				buf.WriteString(", ")
			}
			g.writeValue(buf, depth, e)
		}
		buf.WriteString(" }")
	case string:
		buf.WriteString(quoteLua(t))
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(t, 10))
	case float64:
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case nil:
		buf.WriteString("nil")
	default:
		buf.WriteString(quoteLua(fmt.Sprint(t)))
	}
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// luaKey renders k as a bare identifier when possible, otherwise as ["k"].
func luaKey(k string) string {
	if identifierPattern.MatchString(k) && !luaKeywords[k] {
		return k
	}
	return "[" + quoteLua(k) + "]"
}

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "if": true,
	"in": true, "local": true, "nil": true, "not": true, "or": true,
	"repeat": true, "return": true, "then": true, "true": true, "until": true,
	"while": true, "goto": true,
}

func quoteLua(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}

// longString renders s as a Lua long bracket string with a level that does
// not occur in s. A leading newline is added because Lua drops the first
// newline after the opening bracket.
func longString(s string) string {
	level := 0
	for strings.Contains(s+"]", "]"+strings.Repeat("=", level)+"]") {
		level++
	}
	eq := strings.Repeat("=", level)
	return "[" + eq + "[\n" + s + "]" + eq + "]"
}
