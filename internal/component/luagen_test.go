package component

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLuaGenerator_RoundTrip(t *testing.T) {
	spec := &Spec{
		Name:        "x",
		Description: `quotes " and \ backslashes`,
		Version:     "1.0",
		Env:         map[string]string{"EDITOR": "nvim", "PAGER": "less -R"},
		Paths: []PathEntry{
			{Path: "$HOME/bin"},
			{Path: "/opt/homebrew/bin", Condition: "darwin"},
		},
		Aliases: map[string]string{"g-s": "git status", "end": "echo 'done'"},
		Wrappers: []Wrapper{
			{Name: "mkcd", Command: "mkdir -p", Usage: "mkcd <dir>", RequiresArg: true, PostAction: PostActionCD},
		},
		ShellFunctions: map[string]string{
			"groot": "cd \"$(git rev-parse --show-toplevel)\" || return 1\n",
			"brk":   "echo ]]\necho ]=]",
		},
		Files: []FileSpec{{
			Target:    "~/.config/x/config",
			Format:    "keyvalue",
			Platforms: []string{"linux"},
			Values: map[string]any{
				"theme":   "dark",
				"bold":    true,
				"keybind": []any{"a=b", "c=d"},
				"nested":  map[string]any{"key": "value"},
			},
		}},
		Dependencies: []string{"alpha", "bootstrap"},
	}

	code := NewLuaGenerator().Generate(spec)

	o, err := ParseLuaOverride(context.Background(), code, "x", "x.lua", nil)
	if err != nil {
		t.Fatalf("ParseLuaOverride() error = %v\n%s", err, code)
	}
	got := Merge(&Spec{Name: "x"}, o)

	if diff := cmp.Diff(spec, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, code)
	}
}

func TestLuaGenerator_Deterministic(t *testing.T) {
	spec := &Spec{
		Name:    "x",
		Env:     map[string]string{"B": "2", "A": "1", "C": "3"},
		Aliases: map[string]string{"z": "1", "y": "2"},
	}
	g := NewLuaGenerator()
	first := g.Generate(spec)
	for i := 0; i < 5; i++ {
		if got := g.Generate(spec); got != first {
			t.Fatalf("Generate() differs between runs:\n%s\n---\n%s", first, got)
		}
	}
	if strings.Index(first, "A =") > strings.Index(first, "B =") {
		t.Errorf("env keys not sorted:\n%s", first)
	}
}

func TestLongString(t *testing.T) {
	tests := map[string]string{
		"plain":   "[[\nplain]]",
		"a]]b":    "[=[\na]]b]=]",
		"ends]":   "[=[\nends]]=]",
		"x]=]y]]": "[==[\nx]=]y]]]==]",
	}
	for in, want := range tests {
		if got := longString(in); got != want {
			t.Errorf("longString(%q) = %q, want %q", in, got, want)
		}
	}
}
