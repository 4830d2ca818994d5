// Package ecs provides ECS adapters for tilequest's scene events.
//
// The primary adapter is [NewDonburiSink], which publishes script failures,
// trigger hits and scene switches into a [Donburi] world as typed events.
// Subscribe to [SceneEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	game, err := tilequest.NewGame(cfg, tilequest.WithEventSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
