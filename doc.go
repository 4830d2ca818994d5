// Package tilequest is a 2D tile-map game engine for [Ebitengine] with
// Lua-scripted entities.
//
// A game is a set of scenes described by a TOML config. Each [Scene] holds a
// layered [TileMap], a [Camera] and the entities walking on the map. Every
// tick the [ScriptEngine] runs each entity's script, the camera follows the
// tracked entity and trigger regions may switch to another scene.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and game
// loop for you:
//
//	cfg, err := tilequest.LoadConfig("game.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	game, err := tilequest.NewGame(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer game.Close()
//	tilequest.Run(game)
//
// [Game] implements [ebiten.Game], so it can also be embedded in an existing
// ebiten loop. [Game.RunHeadless] drives it without a display, and package
// tilequest/term runs it in a terminal.
//
// # Scripts
//
// Entity scripts are Lua, run by [gopher-lua] in a sandbox. A script sees
// the entity as self, the input as horizontal_direction and
// vertical_direction, the tick length as delta and the map as map, and
// returns the updated entity:
//
//	self:mov(horizontal_direction, vertical_direction)
//	return self
//
// A failing script leaves its entity untouched for that tick and publishes
// an [EventScriptFailed] event.
//
// # Rendering
//
// [Scene.Draw] sends draw calls to a [Renderer]. [EbitenRenderer] draws to an
// ebiten image and [ImageRenderer] to an in-memory RGBA image.
//
// Camera pans use tweens (via [gween]); scene events can be routed into an
// ECS world via the [Donburi] adapter in tilequest/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gopher-lua]: https://github.com/yuin/gopher-lua
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package tilequest
