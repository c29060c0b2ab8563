// Package arbor is a handle-based 2D scene graph for [Ebitengine].
//
// Nodes live in a generational arena owned by a [Graph] and are addressed
// by copyable [Handle] values instead of pointers. A freed node's handle is
// detected as stale rather than silently aliasing whatever reuses its slot.
//
// # Scene graph
//
// Every graph has a single root. [Graph.AddNode] attaches new nodes to it;
// [Graph.LinkNodes] moves a node under another parent:
//
//	g := arbor.NewGraph()
//	ship := g.AddNode(arbor.NewBase("ship"))
//	hull := g.AddNode(arbor.NewSprite("hull", arbor.Vec2{X: 32, Y: 16}, arbor.ColorWhite))
//	g.LinkNodes(hull, ship)
//
// Once per frame, [Graph.Update] walks the tree from the root and caches
// each node's global transform (parent global × local) and global
// visibility (parent visible && own flag), then runs per-type behavior such
// as camera viewport updates. Global values are stale after any edit until
// the next pass.
//
// # Borrowing several nodes
//
// [Graph.GetTwoMut], [Graph.GetThreeMut] and [Graph.GetFourMut] return
// pointers to distinct nodes. Overlapping handles panic for the two- and
// four-node forms; the three-node form returns
// [github.com/phanxgames/arbor/pool.ErrOverlappingHandles] instead.
//
// # Tickets
//
// [Graph.TakeReserve] moves a node out while keeping its handle reserved.
// [Graph.PutBack] restores it under the root with the same handle;
// [Graph.ForgetTicket] releases the slot for good.
//
// # Running
//
// [Run] opens a window and draws sprites through the enabled cameras. For
// full control, wrap the graph with [NewGame] and pass it to
// ebiten.RunGame yourself.
//
// A Graph is single-threaded. Handles are only meaningful for the Graph
// that produced them.
//
// [Ebitengine]: https://ebitengine.org
package arbor
