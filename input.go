package tilequest

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var keyNames = [...]string{
	KeyUp:    "up",
	KeyDown:  "down",
	KeyLeft:  "left",
	KeyRight: "right",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// ParseKey parses "up", "down", "left" or "right".
func ParseKey(s string) (Key, error) {
	for i, name := range keyNames {
		if name == s {
			return Key(i), nil
		}
	}
	return KeyUp, fmt.Errorf("tilequest: unknown key %q", s)
}

// ebitenBindings maps physical keys to directional keys. Arrows and WASD
// both steer.
var ebitenBindings = []struct {
	key ebiten.Key
	dir Key
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyW, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyS, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyA, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyD, KeyRight},
}

// pollKeys feeds the keys held this tick into the active scene. Held keys
// keep steering for as long as they are down.
func (g *Game) pollKeys() {
	if g.active == nil {
		return
	}
	for _, b := range ebitenBindings {
		if ebiten.IsKeyPressed(b.key) {
			g.active.HandleKey(b.dir, true)
		}
	}
}

// quitRequested reports whether the player asked to close the window.
func quitRequested() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
