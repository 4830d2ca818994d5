package tilequest

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
)

// Snapshot queues a labeled PNG capture of the frame drawn next. The file
// is written to SnapshotDir as <frame>_<label>.png.
func (g *Game) Snapshot(label string) {
	g.snapshotQueue = append(g.snapshotQueue, label)
}

// flushScreenSnapshots reads the ebiten screen back for queued snapshots.
func (g *Game) flushScreenSnapshots(screen *ebiten.Image) {
	if len(g.snapshotQueue) == 0 {
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, gr, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			gr = uint8(min(int(gr)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = gr
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	g.flushSnapshots(img)
}

// flushSnapshots encodes img once and writes it for every queued label.
func (g *Game) flushSnapshots(img image.Image) {
	if len(g.snapshotQueue) == 0 {
		return
	}
	labels := g.snapshotQueue
	g.snapshotQueue = g.snapshotQueue[:0]

	log := componentLog("snapshot").WithField("frame", g.frame)
	data, err := encodePNG(img)
	if err != nil {
		log.WithError(err).Warn("snapshot encode failed")
		return
	}
	if err := os.MkdirAll(g.SnapshotDir, 0o755); err != nil {
		log.WithError(err).WithField("dir", g.SnapshotDir).Warn("cannot create snapshot dir")
		return
	}
	for _, label := range labels {
		path := filepath.Join(g.SnapshotDir, snapshotFileName(g.frame, label))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.WithError(err).Warn("snapshot failed")
			continue
		}
		log.WithField("path", path).Debug("snapshot written")
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// writePNG saves img as a PNG file.
func writePNG(path string, img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// snapshotFileName returns <frame>_<label>.png. Runes other than ASCII
// letters, digits, '-' and '.' become '_'; a blank label is "unlabeled".
func snapshotFileName(frame int, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "unlabeled"
	}
	label = strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (r == '-' || r == '.' ||
			'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return r
		}
		return '_'
	}, label)
	return fmt.Sprintf("%06d_%s.png", frame, label)
}
