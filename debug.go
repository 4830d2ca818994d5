package tilequest

import (
	"time"

	"github.com/sirupsen/logrus"
)

// frameStats holds per-frame timing and draw metrics for a scene.
type frameStats struct {
	updateTime     time.Duration
	drawTime       time.Duration
	tilesDrawn     int
	entitiesDrawn  int
	scriptFailures int
}

// Stats is a snapshot of the most recent frame's metrics.
type Stats struct {
	UpdateTime     time.Duration
	DrawTime       time.Duration
	TilesDrawn     int
	EntitiesDrawn  int
	ScriptFailures int
}

// Stats returns the metrics recorded by the last Update and Draw.
func (s *Scene) Stats() Stats {
	return Stats{
		UpdateTime:     s.stats.updateTime,
		DrawTime:       s.stats.drawTime,
		TilesDrawn:     s.stats.tilesDrawn,
		EntitiesDrawn:  s.stats.entitiesDrawn,
		ScriptFailures: s.stats.scriptFailures,
	}
}

// debugLogEvery is how many frames pass between debug stat lines.
const debugLogEvery = 60

// debugLog writes the active scene's stats at debug level every
// debugLogEvery frames. It does nothing unless debug mode is on.
func (g *Game) debugLog() {
	if !g.debug || g.active == nil || g.frame%debugLogEvery != 0 {
		return
	}
	st := g.active.Stats()
	g.log.WithFields(logrus.Fields{
		"frame":           g.frame,
		"scene":           g.active.Name,
		"update":          st.UpdateTime,
		"draw":            st.DrawTime,
		"tiles":           st.TilesDrawn,
		"entities":        st.EntitiesDrawn,
		"script_failures": st.ScriptFailures,
	}).Debug("frame stats")
}
