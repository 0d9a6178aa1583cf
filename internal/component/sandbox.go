package component

import (
	lua "github.com/yuin/gopher-lua"
)

// newSandboxedVM returns a Lua state with every library that reaches outside
// the VM removed. Override scripts only build tables; string, table and math
// stay available for that.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()

	for _, name := range []string{
		"os", "io", "debug",
		"require", "dofile", "loadfile", "load", "loadstring",
		"module", "collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("package", lua.LNil)

	return L
}
