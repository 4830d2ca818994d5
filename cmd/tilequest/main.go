// Command tilequest runs a game described by a TOML config.
//
//	tilequest [flags] <config-path>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/tilequest"
	"github.com/phanxgames/tilequest/ecs"
	"github.com/phanxgames/tilequest/internal/logger"
	"github.com/phanxgames/tilequest/term"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

func main() {
	var (
		termMode    = flag.Bool("term", false, "render in the terminal instead of a window")
		headless    = flag.Bool("headless", false, "run without a display")
		frames      = flag.Int("frames", 0, "frames to run headless (0: until the input script ends)")
		inputPath   = flag.String("input", "", "JSON input script for headless runs")
		snapshotDir = flag.String("snapshot-dir", tilequest.DefaultSnapshotDir, "directory for snapshots")
		debug       = flag.Bool("debug", false, "log frame stats")
		showFPS     = flag.Bool("fps", false, "show the FPS overlay")
		logPath     = flag.String("log", "", "write logs to this file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <config-path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.Init()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.WithError(err).Fatal("cannot open log file")
		}
		defer f.Close()
		log.SetOutput(f)
	} else if *termMode {
		log.SetOutput(io.Discard)
	}
	tilequest.SetLogger(log)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := tilequest.LoadConfig(flag.Arg(0))
	if err != nil {
		log.WithError(err).Fatal("could not load game")
	}

	world := donburi.NewWorld()
	ecs.SceneEventType.Subscribe(world, func(_ donburi.World, ev tilequest.SceneEvent) {
		entry := log.WithFields(logrus.Fields{"event": ev.Type, "scene": ev.Scene})
		if ev.EntityID != "" {
			entry = entry.WithField("entity", ev.EntityID)
		}
		if ev.Target != "" {
			entry = entry.WithField("target", ev.Target)
		}
		entry.Debug("scene event")
	})

	game, err := tilequest.NewGame(cfg,
		tilequest.WithEventSink(ecs.NewDonburiSink(world)),
		tilequest.WithDebug(*debug),
		tilequest.WithFPS(*showFPS),
		tilequest.WithSnapshotDir(*snapshotDir),
	)
	if err != nil {
		log.WithError(err).Fatal("could not load game")
	}
	defer game.Close()
	game.SetUpdateFunc(func() error {
		ecs.SceneEventType.ProcessEvents(world)
		return nil
	})

	if err := run(game, *termMode, *headless, *frames, *inputPath); err != nil {
		log.WithError(err).Error("game stopped")
		os.Exit(1)
	}
}

func run(game *tilequest.Game, termMode, headless bool, frames int, inputPath string) error {
	switch {
	case headless:
		var script *tilequest.InputScript
		if inputPath != "" {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}
			if script, err = tilequest.LoadInputScript(data); err != nil {
				return err
			}
		}
		return game.RunHeadless(frames, script)

	case termMode:
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()
		return term.NewHost(game, screen).Run()

	default:
		return tilequest.Run(game)
	}
}
