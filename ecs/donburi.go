package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// NodeRef links an entity to a graph node and mirrors the node's cached
// global state as of the last Sync.
type NodeRef struct {
	Handle         arbor.Handle
	GlobalPosition arbor.Vec2
	GlobalRotation float64 // radians
	Visible        bool
}

// NodeRefComponent is the Donburi component type for NodeRef.
var NodeRefComponent = donburi.NewComponentType[NodeRef]()

// NodeGone is published when Sync deletes an entity whose node no longer
// exists in the graph.
type NodeGone struct {
	Entity donburi.Entity
	Handle arbor.Handle
}

// NodeGoneEventType is the Donburi event type for NodeGone. Events are
// queued; process them with ProcessEvents or events.ProcessAllEvents.
var NodeGoneEventType = events.NewEventType[NodeGone]()

var nodeRefQuery = donburi.NewQuery(filter.Contains(NodeRefComponent))

// Attach creates an entity referencing h.
func Attach(world donburi.World, h arbor.Handle) donburi.Entity {
	e := world.Create(NodeRefComponent)
	NodeRefComponent.SetValue(world.Entry(e), NodeRef{Handle: h})
	return e
}

// Sync copies cached global values from g into every NodeRef. Entities
// whose handle no longer resolves are removed and a NodeGone event is
// published for each. It returns the number of entities updated.
func Sync(world donburi.World, g *arbor.Graph) int {
	var gone []NodeGone
	updated := 0
	nodeRefQuery.Each(world, func(entry *donburi.Entry) {
		ref := NodeRefComponent.Get(entry)
		n, ok := g.TryNode(ref.Handle)
		if !ok {
			gone = append(gone, NodeGone{Entity: entry.Entity(), Handle: ref.Handle})
			return
		}
		ref.GlobalPosition = n.GlobalPosition()
		ref.GlobalRotation = arbor.RotationFromMatrix(n.GlobalTransform()).Angle()
		ref.Visible = n.GlobalVisibility()
		updated++
	})
	for _, ev := range gone {
		world.Remove(ev.Entity)
		NodeGoneEventType.Publish(world, ev)
	}
	return updated
}
