// Package ecs bridges an arbor Graph into a [Donburi] world.
//
// Entities carry a [NodeRef] component pointing at a graph node. After each
// Graph.Update, call [Sync] to copy the node's cached global position,
// rotation and visibility into the component, so ECS systems (physics,
// audio, AI) can read scene output without holding graph pointers.
// Entities whose node has been removed are deleted and reported through
// [NodeGoneEventType].
//
//	world := donburi.NewWorld()
//	e := ecs.Attach(world, handle)
//	// each frame:
//	g.Update(size, dt)
//	ecs.Sync(world, g)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
