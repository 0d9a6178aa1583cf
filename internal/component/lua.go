package component

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// luaGlobal is the global an override script assigns.
const luaGlobal = "component"

// mapFields are keys whose empty Lua table means an empty mapping rather
// than an empty list.
var mapFields = map[string]bool{
	"env":             true,
	"aliases":         true,
	"shell_functions": true,
	"values":          true,
}

// ParseLuaOverride runs an override script in a sandbox and decodes the
// global component table it assigns. info feeds the read-only platform
// table; a nil info leaves platform undefined.
func ParseLuaOverride(ctx context.Context, code, name, source string, info *platform.Info) (*Override, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if info != nil {
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(code); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run override %s: %w", source, ctx.Err())
		}
		return nil, &ParseError{Component: name, Source: source, Message: "Lua error", Detail: err.Error()}
	}

	global := L.GetGlobal(luaGlobal)
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Component: name,
			Source:    source,
			Message:   fmt.Sprintf("missing or invalid '%s' table", luaGlobal),
			Detail:    fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	doc, err := tableToMap(table, "")
	if err != nil {
		return nil, &ParseError{Component: name, Source: source, Message: "unsupported value", Detail: err.Error()}
	}
	return decodeOverride(doc, name, source)
}

// toGo converts a Lua value into the generic tree the schema check and YAML
// decoder expect. key is the field the value sits under.
func toGo(v lua.LValue, key string) (any, error) {
	switch t := v.(type) {
	case lua.LString:
		return string(t), nil
	case lua.LBool:
		return bool(t), nil
	case lua.LNumber:
		f := float64(t)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case *lua.LTable:
		if isList(t) {
			if t.Len() == 0 && mapFields[key] {
				return map[string]any{}, nil
			}
			return tableToList(t, key)
		}
		return tableToMap(t, key)
	default:
		return nil, fmt.Errorf("%s: cannot use Lua %s", key, v.Type())
	}
}

// isList reports whether t has only the keys 1..n. Nil holes left by
// platform.when are allowed and dropped.
func isList(t *lua.LTable) bool {
	list := true
	t.ForEach(func(k, _ lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			list = false
		}
	})
	return list
}

func tableToList(t *lua.LTable, key string) ([]any, error) {
	out := []any{}
	for i := 1; i <= t.MaxN(); i++ {
		v := t.RawGetInt(i)
		if v == lua.LNil {
			continue
		}
		g, err := toGo(v, key+"["+strconv.Itoa(i-1)+"]")
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func tableToMap(t *lua.LTable, key string) (map[string]any, error) {
	out := map[string]any{}
	var firstErr error
	t.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			firstErr = fmt.Errorf("%s: mixed list and map keys", key)
			return
		}
		g, err := toGo(v, string(ks))
		if err != nil {
			firstErr = err
			return
		}
		out[string(ks)] = g
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
