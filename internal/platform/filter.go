package platform

// Matches reports whether a single platform condition applies to this host.
// A condition names an OS ("linux", "darwin", "macos"), an architecture, a
// Linux family or a distro ID. The empty condition always matches.
func (i *Info) Matches(condition string) bool {
	c := normalizePlatform(condition)
	if c == "" {
		return true
	}
	if alias, ok := osAliases[c]; ok {
		c = alias
	}

	if c == i.OS || normalizeArch(c) == i.Arch {
		return true
	}

	if !i.IsLinux() {
		return false
	}
	return c == i.Family || c == i.Platform
}

// MatchesAny reports whether any of filters applies. An empty filter set
// places no restriction and matches every platform.
func (i *Info) MatchesAny(filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if i.Matches(f) {
			return true
		}
	}
	return false
}
