// Package term runs a tilequest game in a terminal with tcell. Each cell
// shows the color of the pixel at its center as a background block.
package term

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/tilequest"
	"github.com/sirupsen/logrus"
)

// CellCanvas is the part of tcell.Screen the renderer draws through.
type CellCanvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Renderer samples sheet pixels into terminal cells. A cell covers
// CellWidth x CellHeight screen pixels.
type Renderer struct {
	Canvas     CellCanvas
	CellWidth  int
	CellHeight int
}

// DrawImagePart implements tilequest.Renderer. Cells whose center falls in
// a transparent pixel are left as they are.
func (r *Renderer) DrawImagePart(sheet *tilequest.Sheet, x, y int, src image.Rectangle) {
	img := sheet.Image()
	if img == nil || r.CellWidth <= 0 || r.CellHeight <= 0 {
		return
	}
	src = src.Intersect(img.Bounds())
	if src.Empty() {
		return
	}
	cols, rows := r.Canvas.Size()
	w, h := src.Dx(), src.Dy()

	for cy := floorDiv(y, r.CellHeight); cy <= floorDiv(y+h-1, r.CellHeight); cy++ {
		py := cy*r.CellHeight + r.CellHeight/2
		if cy < 0 || cy >= rows || py < y || py >= y+h {
			continue
		}
		for cx := floorDiv(x, r.CellWidth); cx <= floorDiv(x+w-1, r.CellWidth); cx++ {
			px := cx*r.CellWidth + r.CellWidth/2
			if cx < 0 || cx >= cols || px < x || px >= x+w {
				continue
			}
			cr, cg, cb, ca := img.At(src.Min.X+px-x, src.Min.Y+py-y).RGBA()
			if ca < 0x8000 {
				continue
			}
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(cr>>8), int32(cg>>8), int32(cb>>8)))
			r.Canvas.SetContent(cx, cy, ' ', nil, style)
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// pollInterval is how often the host asks the game whether a tick is due.
const pollInterval = 4 * time.Millisecond

// Host runs a game on a tcell screen. A key press steers for one tick;
// Escape, q and Ctrl-C quit.
type Host struct {
	game     *tilequest.Game
	screen   tcell.Screen
	renderer Renderer
	log      *logrus.Entry
}

// NewHost creates a host for g on screen. The screen must be initialized.
func NewHost(g *tilequest.Game, screen tcell.Screen) *Host {
	h := &Host{
		game:   g,
		screen: screen,
		log:    tilequest.Logger().WithField("component", "term"),
	}
	h.renderer.Canvas = screen
	h.fit()
	return h
}

// fit scales the game's logical screen onto the terminal.
func (h *Host) fit() {
	cfg := h.game.Config()
	cols, rows := h.screen.Size()
	h.renderer.CellWidth = max(1, ceilDiv(cfg.Width, max(cols, 1)))
	h.renderer.CellHeight = max(1, ceilDiv(cfg.Height, max(rows, 1)))
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Run polls input and ticks the game until the player quits or the update
// function fails.
func (h *Host) Run() error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go h.pollEvents(events, done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	cols, rows := h.screen.Size()
	h.log.WithFields(logrus.Fields{"cols": cols, "rows": rows}).Info("terminal host started")

	for {
		select {
		case ev, ok := <-events:
			if !ok || !h.handle(ev) {
				return nil
			}
		case <-ticker.C:
			ticked, err := h.game.Advance()
			if err != nil {
				return err
			}
			if ticked {
				h.Draw()
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func (h *Host) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handle applies one terminal event and reports whether to keep running.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			h.game.Active().HandleKey(tilequest.KeyUp, true)
		case tcell.KeyDown:
			h.game.Active().HandleKey(tilequest.KeyDown, true)
		case tcell.KeyLeft:
			h.game.Active().HandleKey(tilequest.KeyLeft, true)
		case tcell.KeyRight:
			h.game.Active().HandleKey(tilequest.KeyRight, true)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				h.game.Active().HandleKey(tilequest.KeyUp, true)
			case 's':
				h.game.Active().HandleKey(tilequest.KeyDown, true)
			case 'a':
				h.game.Active().HandleKey(tilequest.KeyLeft, true)
			case 'd':
				h.game.Active().HandleKey(tilequest.KeyRight, true)
			}
		}
	case *tcell.EventResize:
		h.fit()
		h.screen.Sync()
	}
	return true
}

// Draw renders the active scene and shows it.
func (h *Host) Draw() {
	h.screen.Clear()
	h.game.DrawTo(&h.renderer)
	h.screen.Show()
}
