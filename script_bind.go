package tilequest

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// entityTable exposes the script-visible fields of e. Only x, y, direction,
// animation_step and speed are read back from what the script returns.
func (se *ScriptEngine) entityTable(e Entity) *lua.LTable {
	t := se.state.NewTable()
	t.RawSetString("id", lua.LString(e.ID))
	t.RawSetString("width", lua.LNumber(e.Rect.Width))
	t.RawSetString("height", lua.LNumber(e.Rect.Height))
	writeEntityFields(t, &e)

	// self:mov(dir_x, dir_y) runs Entity.Mov with this tick's delta and map.
	t.RawSetString("mov", se.state.NewFunction(func(L *lua.LState) int {
		self := L.CheckTable(1)
		dirX := float64(L.OptNumber(2, 0))
		dirY := float64(L.OptNumber(3, 0))

		work := e
		if err := readEntityFields(self, &work); err != nil {
			L.RaiseError("mov: %v", err)
			return 0
		}
		work.Mov(se.delta, dirX, dirY, se.tileMap)
		writeEntityFields(self, &work)
		return 0
	}))
	return t
}

func writeEntityFields(t *lua.LTable, e *Entity) {
	t.RawSetString("x", lua.LNumber(e.Rect.X))
	t.RawSetString("y", lua.LNumber(e.Rect.Y))
	t.RawSetString("speed", lua.LNumber(e.Speed))
	t.RawSetString("direction", lua.LString(e.Direction.String()))
	t.RawSetString("animation_step", lua.LNumber(e.AnimationStep))
}

// readEntityFields copies the writable fields present in t into e.
func readEntityFields(t *lua.LTable, e *Entity) error {
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"x", &e.Rect.X},
		{"y", &e.Rect.Y},
		{"speed", &e.Speed},
		{"animation_step", &e.AnimationStep},
	} {
		v := t.RawGetString(f.name)
		if v == lua.LNil {
			continue
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("field %s: want number, got %s", f.name, v.Type())
		}
		*f.dst = float64(n)
	}

	if v := t.RawGetString("direction"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok {
			return fmt.Errorf("field direction: want string, got %s", v.Type())
		}
		d, err := ParseDirection(string(s))
		if err != nil {
			return err
		}
		e.Direction = d
	}
	return nil
}

// entityFromValue converts a script result back into an entity based on
// orig. The result must be a table with numeric x and y that does not claim
// to be a different entity.
func entityFromValue(orig Entity, v lua.LValue) (Entity, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return orig, fmt.Errorf("script returned %s, want entity table", v.Type())
	}
	if _, ok := t.RawGetString("x").(lua.LNumber); !ok {
		return orig, fmt.Errorf("returned table has no numeric x")
	}
	if _, ok := t.RawGetString("y").(lua.LNumber); !ok {
		return orig, fmt.Errorf("returned table has no numeric y")
	}
	if id, ok := t.RawGetString("id").(lua.LString); ok && string(id) != orig.ID {
		return orig, fmt.Errorf("script returned entity %q", string(id))
	}

	out := orig
	if err := readEntityFields(t, &out); err != nil {
		return orig, err
	}
	return out, nil
}

// mapTable exposes read and write access to the tile map. Functions are
// called with a dot: map.is_tile_blocked(x, y).
func (se *ScriptEngine) mapTable(m *TileMap) *lua.LTable {
	L := se.state
	t := L.NewTable()
	t.RawSetString("tile_size", lua.LNumber(m.TileSize()))
	t.RawSetString("rows", lua.LNumber(m.RowCount()))
	t.RawSetString("columns", lua.LNumber(m.ColumnCount()))
	t.RawSetString("layers", lua.LNumber(m.LayerCount()))
	t.RawSetString("width", lua.LNumber(m.PixelWidth()))
	t.RawSetString("height", lua.LNumber(m.PixelHeight()))

	t.RawSetString("tile", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.Tile(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3))))
		return 1
	}))
	t.RawSetString("is_blocked", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(m.IsBlocked(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
	t.RawSetString("is_tile_blocked", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(m.IsTileBlocked(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))))
		return 1
	}))
	t.RawSetString("set_tile", L.NewFunction(func(L *lua.LState) int {
		m.SetTile(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
		return 0
	}))
	return t
}
