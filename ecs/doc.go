// Package ecs provides ECS adapters for cinder's display-object event
// system.
//
// The primary adapter is [NewDonburiBridge], which forwards cinder
// events (mouse and key) into a [Donburi] world as typed
// events. Subscribe to [InteractionEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	bridge := ecs.NewDonburiBridge(world)
//	stage.Root().On(cinder.EventClick, bridge.Listen)
//	bridge.ProcessEvents()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
