package component

// Merge layers o over base and returns a new spec. Neither argument is
// modified. A nil override returns a copy of base.
func Merge(base *Spec, o *Override) *Spec {
	result := base.Clone()
	if o == nil {
		return result
	}

	if o.Description != nil {
		result.Description = *o.Description
	}
	if o.Version != nil {
		result.Version = *o.Version
	}

	result.Env = mergeMaps(result.Env, o.Env)
	result.Aliases = mergeMaps(result.Aliases, o.Aliases)
	result.ShellFunctions = mergeMaps(result.ShellFunctions, o.ShellFunctions)

	if o.Paths != nil {
		result.Paths = append([]PathEntry{}, (*o.Paths)...)
	}
	if o.Wrappers != nil {
		result.Wrappers = append([]Wrapper{}, (*o.Wrappers)...)
	}
	if o.Files != nil {
		result.Files = make([]FileSpec, len(*o.Files))
		for i, f := range *o.Files {
			result.Files[i] = f.Clone()
		}
	}
	if o.Dependencies != nil {
		result.Dependencies = append([]string{}, (*o.Dependencies)...)
	}

	result.normalize()
	return result
}

// mergeMaps merges override into base key by key, override winning.
func mergeMaps(base, override map[string]string) map[string]string {
	if len(override) == 0 {
		return base
	}
	result := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		result[k] = v
	}
	return result
}
