package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable installs a read-only global "platform" table describing
// info. Override scripts use it to branch on the host:
//
//	if platform.is_macos then ... end
//	paths = { platform.when(platform.is_linux, "/snap/bin") }
//	if platform.matches("debian") then ... end
func InjectPlatformTable(L *lua.LState, info *Info) error {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "arch_raw", lua.LString(info.ArchRaw))

	L.SetField(t, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(t, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(t, "is_apple_silicon", lua.LBool(info.IsAppleSilicon()))

	if info.IsLinux() && info.Platform != "" {
		distro := L.NewTable()
		L.SetField(distro, "id", lua.LString(info.Platform))
		L.SetField(distro, "family", lua.LString(info.Family))
		L.SetField(distro, "version", lua.LString(info.Version))
		L.SetField(t, "distro", distro)
	} else {
		L.SetField(t, "distro", lua.LNil)
	}

	// when(cond, value) returns value if cond holds, nil otherwise.
	L.SetField(t, "when", L.NewFunction(func(L *lua.LState) int {
		if L.CheckBool(1) {
			L.Push(L.Get(2))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	// matches(condition) exposes the same condition syntax as spec files.
	L.SetField(t, "matches", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(info.Matches(L.CheckString(1))))
		return 1
	}))

	L.SetGlobal("platform", makeReadOnly(L, t))
	return nil
}

// makeReadOnly wraps table in an empty proxy whose metatable forwards reads
// and rejects writes.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
