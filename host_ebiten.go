package tilequest

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window sized and titled by the config and runs the game
// until the window closes or Escape is pressed.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	// Frames skipped by the frame clock keep showing the last drawn frame.
	ebiten.SetScreenClearedEveryFrame(false)

	err := ebiten.RunGame(g)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if quitRequested() {
		return ebiten.Termination
	}
	g.pollKeys()
	delta, ticked, err := g.advance()
	if err != nil {
		return err
	}
	if ticked {
		g.drawPending = true
		if g.fps != nil {
			g.fps.update(delta)
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.drawPending {
		return
	}
	g.drawPending = false

	if g.background != nil {
		screen.Fill(g.background)
	} else {
		screen.Clear()
	}
	g.renderer.Screen = screen
	g.DrawTo(&g.renderer)
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.flushScreenSnapshots(screen)
}

// Layout implements ebiten.Game. The logical screen is the configured size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
