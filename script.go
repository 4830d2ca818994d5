package tilequest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// ScriptExtension marks a script argument that names a file instead of
// holding inline source.
const ScriptExtension = ".lua"

// ScriptError reports a script that failed to compile, failed while running,
// or did not return an entity. The entity keeps its previous state.
type ScriptError struct {
	EntityID string
	Err      error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("tilequest: script for entity %q: %v", e.EntityID, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// ScriptEngine runs entity scripts in a sandboxed Lua state. Scripts see a
// scope that is rebuilt by every Update call, so nothing a script stores
// survives into the next tick.
//
// Bindings visible to scripts:
//
//	vertical_direction, horizontal_direction  -1, 0 or 1
//	delta                                     seconds since the last tick
//	map                                       tile map queries (see mapTable)
//	self, <entity id>                         the entity being updated
//	animation_step                            self.animation_step
//
// The math, string and table libraries are copied into every scope, so a
// script that changes them only affects scripts run in the same tick.
//
// A script returns the (possibly modified) entity table:
//
//	self:mov(horizontal_direction, vertical_direction)
//	return self
type ScriptEngine struct {
	state   *lua.LState
	scope   *lua.LTable
	protos  map[string]*lua.FunctionProto
	timeout time.Duration

	delta   float64
	tileMap *TileMap
}

// NewScriptEngine creates an engine with the base, table, string and math
// libraries. File, module, dynamic-load and environment functions are
// removed.
func NewScriptEngine() *ScriptEngine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring", "require", "module", "package",
		"_G", "getfenv", "setfenv", "getmetatable",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	se := &ScriptEngine{
		state:  L,
		protos: make(map[string]*lua.FunctionProto),
	}
	se.resetScope()
	return se
}

// Close releases the Lua state.
func (se *ScriptEngine) Close() {
	se.state.Close()
}

// SetTimeout bounds the run time of a single script execution. Zero, the
// default, lets a script run as long as it likes.
func (se *ScriptEngine) SetTimeout(d time.Duration) {
	se.timeout = d
}

// LoadScript returns the script source for a config value. Values ending in
// ScriptExtension are read from disk; anything else is inline source.
func LoadScript(pathOrSource string) (string, error) {
	trimmed := strings.TrimSpace(pathOrSource)
	if !strings.HasSuffix(strings.ToLower(trimmed), ScriptExtension) {
		return pathOrSource, nil
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return "", fmt.Errorf("tilequest: load script: %w", err)
	}
	return string(data), nil
}

// Update starts a new tick: it discards the previous scope and binds the
// input state, delta and map for every script executed until the next call.
func (se *ScriptEngine) Update(vertical, horizontal, delta float64, m *TileMap) {
	se.resetScope()
	se.delta = delta
	se.tileMap = m

	se.scope.RawSetString("vertical_direction", lua.LNumber(vertical))
	se.scope.RawSetString("horizontal_direction", lua.LNumber(horizontal))
	se.scope.RawSetString("delta", lua.LNumber(delta))
	if m != nil {
		se.scope.RawSetString("map", se.mapTable(m))
	}
}

// ExecuteScript runs the entity's script and returns the entity it
// evaluates to. An entity without a script is returned as is. On failure
// the original entity is returned together with a *ScriptError.
func (se *ScriptEngine) ExecuteScript(e Entity) (Entity, error) {
	if strings.TrimSpace(e.Script) == "" {
		return e, nil
	}

	fn, err := se.compile(e.Script)
	if err != nil {
		return e, &ScriptError{EntityID: e.ID, Err: err}
	}

	self := se.entityTable(e)
	if e.ID != "" {
		se.scope.RawSetString(e.ID, self)
	}
	se.scope.RawSetString("self", self)
	se.scope.RawSetString("animation_step", lua.LNumber(e.AnimationStep))
	fn.Env = se.scope

	if se.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), se.timeout)
		defer cancel()
		se.state.SetContext(ctx)
		defer se.state.RemoveContext()
	}

	top := se.state.GetTop()
	se.state.Push(fn)
	if err := se.state.PCall(0, 1, nil); err != nil {
		se.state.SetTop(top)
		return e, &ScriptError{EntityID: e.ID, Err: err}
	}
	ret := se.state.Get(-1)
	se.state.SetTop(top)

	out, err := entityFromValue(e, ret)
	if err != nil {
		return e, &ScriptError{EntityID: e.ID, Err: err}
	}
	return out, nil
}

// resetScope replaces the scope with a fresh table holding the sandboxed
// globals. Library tables are copied one level deep so writes to them never
// reach the engine's globals.
func (se *ScriptEngine) resetScope() {
	L := se.state
	scope := L.NewTable()
	L.Get(lua.GlobalsIndex).(*lua.LTable).ForEach(func(k, v lua.LValue) {
		if lib, ok := v.(*lua.LTable); ok {
			v = copyTable(L, lib)
		}
		scope.RawSet(k, v)
	})
	se.scope = scope
}

func copyTable(L *lua.LState, src *lua.LTable) *lua.LTable {
	dst := L.NewTable()
	src.ForEach(func(k, v lua.LValue) { dst.RawSet(k, v) })
	return dst
}

// compile returns a fresh function for src, parsing each distinct source
// only once.
func (se *ScriptEngine) compile(src string) (*lua.LFunction, error) {
	proto, ok := se.protos[src]
	if !ok {
		chunk, err := parse.Parse(strings.NewReader(src), "<script>")
		if err != nil {
			return nil, err
		}
		proto, err = lua.Compile(chunk, "<script>")
		if err != nil {
			return nil, err
		}
		se.protos[src] = proto
	}
	return se.state.NewFunctionFromProto(proto), nil
}
