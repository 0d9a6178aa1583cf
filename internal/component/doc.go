// Package component loads declarative component specifications.
//
// A component bundles everything hearth renders for one developer tool:
// environment variables, PATH entries, aliases, wrapper functions, raw shell
// functions, structured config files and the components it depends on.
//
// # Sources
//
// Base specs live in a Registry. The registry is an explicit value: callers
// build one (NewDefaultRegistry registers the specs embedded in this package)
// and hand it to a Loader. Nothing in this package keeps process-wide state,
// so tests build isolated registries per case.
//
// User overrides come from an OverrideSource keyed by the same component
// name. DirOverrides reads <dir>/<name>.yaml or <dir>/<name>.lua; Lua
// overrides run in a sandboxed VM with a read-only platform table:
//
//	component = {
//	    aliases = { gov = "go vet" },
//	    paths = { platform.when(platform.is_macos, "/opt/homebrew/bin") },
//	}
//
// # Merge
//
// Scalars in the override replace the base. Maps (env, aliases,
// shell_functions) merge key by key with the override winning. Lists
// (paths, wrappers, files, dependencies) replace the base wholesale when the
// override sets them at all; an explicit empty list clears them.
//
// # Validation
//
// Documents are checked against the CUE schema in schema.cue before they are
// decoded, then Spec.Validate applies the cross-field rules the schema cannot
// express, such as an alias and a function sharing a name.
package component
