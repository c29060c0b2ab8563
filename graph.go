package arbor

import (
	"fmt"
	"iter"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/arbor/pool"
)

// RootName is the name given to every graph's root node.
const RootName = "__ROOT__"

// Graph owns every node of a scene and the single root they hang from.
// It is a single-owner structure and is not safe for concurrent use.
//
// Invariants after every exported call: each live node except the root has
// exactly one parent and is reachable from the root; a node is listed in
// its parent's children iff its parent handle points there; the root has no
// parent. Global transforms and visibility are caches refreshed by
// UpdateHierarchicalData.
type Graph struct {
	pool *pool.Pool[Node]
	root Handle

	// stack is scratch space for subtree walks. It carries nothing between
	// calls.
	stack []Handle

	debug  bool
	logger *log.Logger
}

// NewGraph creates a graph with a single root node.
func NewGraph() *Graph {
	p := pool.New[Node]()
	root := NewBase(RootName)
	g := &Graph{
		pool:   p,
		logger: defaultLogger(),
	}
	g.root = p.Spawn(root)
	return g
}

// Root returns the root handle.
func (g *Graph) Root() Handle {
	return g.root
}

// AddNode moves n into the graph and attaches it to the root.
//
// If n already lists children (for example a subtree root taken out of this
// graph with TakeReserve), they are detached from wherever they are and
// relinked under the new node, so the parent/children links stay
// consistent regardless of where n's child list came from.
func (g *Graph) AddNode(n Node) Handle {
	children := n.children
	n.children = nil
	n.parent = NoHandle

	h := g.pool.Spawn(n)
	if g.root.IsSome() {
		g.LinkNodes(h, g.root)
	}
	for _, child := range children {
		g.linkAdopt(child, h)
	}
	return h
}

// Node returns the node at h. Panics if h is invalid, which indicates a
// stale handle or one produced by another graph.
func (g *Graph) Node(h Handle) *Node {
	return g.pool.Borrow(h)
}

// TryNode returns the node at h, or false if h is none or no longer valid.
func (g *Graph) TryNode(h Handle) (*Node, bool) {
	return g.pool.TryBorrow(h)
}

// IsValidHandle reports whether h refers to a live node.
func (g *Graph) IsValidHandle(h Handle) bool {
	return g.pool.IsValidHandle(h)
}

// HandleFromIndex returns the handle of the node stored at index i, or
// NoHandle if i is out of bounds or the slot is vacant.
func (g *Graph) HandleFromIndex(i int) Handle {
	return g.pool.HandleFromIndex(i)
}

// Capacity returns the number of storage slots, occupied or not.
func (g *Graph) Capacity() int {
	return g.pool.Capacity()
}

// Len returns the number of live nodes, including the root.
func (g *Graph) Len() int {
	return g.pool.Len()
}

// Nodes iterates live nodes in storage order. This is not a tree
// traversal.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return g.pool.Values()
}

// Pairs iterates (handle, node) pairs in storage order. This is not a tree
// traversal.
func (g *Graph) Pairs() iter.Seq2[Handle, *Node] {
	return g.pool.All()
}

// GetTwoMut returns two distinct nodes at once. Panics if a and b refer to
// the same node.
func (g *Graph) GetTwoMut(a, b Handle) (*Node, *Node) {
	return g.pool.BorrowTwo(a, b)
}

// GetThreeMut returns three distinct nodes at once. Unlike GetTwoMut and
// GetFourMut, overlapping handles are reported as pool.ErrOverlappingHandles
// rather than a panic.
func (g *Graph) GetThreeMut(a, b, c Handle) (*Node, *Node, *Node, error) {
	return g.pool.BorrowThree(a, b, c)
}

// GetFourMut returns four distinct nodes at once. Panics if any two handles
// refer to the same node.
func (g *Graph) GetFourMut(a, b, c, d Handle) (*Node, *Node, *Node, *Node) {
	return g.pool.BorrowFour(a, b, c, d)
}

// unlinkInternal detaches h from its parent. Panics if the parent is held
// by a ticket: its child list travels with the taken node and cannot be
// updated until the node is put back.
func (g *Graph) unlinkInternal(h Handle) {
	if parent := g.pool.Borrow(h).parent; g.pool.IsReserved(parent) {
		panic(fmt.Sprintf("arbor: %v is a child of %v, which is held by a ticket", h, parent))
	}
	g.detach(h)
}

// detach clears h's parent link. A parent that no longer resolves only
// loses the back-pointer.
func (g *Graph) detach(h Handle) {
	n := g.pool.Borrow(h)
	parent := n.parent
	n.parent = NoHandle
	if p, ok := g.pool.TryBorrow(parent); ok {
		p.removeChild(h)
	}
}

// LinkNodes makes child the last child of parent, detaching it from its
// previous parent first. Panics if child is the root, an ancestor of
// parent (including parent itself), or a child of a node held by a ticket.
func (g *Graph) LinkNodes(child, parent Handle) {
	g.checkLink(child, parent)
	g.unlinkInternal(child)
	g.attach(child, parent)
}

// linkAdopt links child under parent for AddNode. child may still point at
// the slot of the node being inserted, reserved or already released, whose
// child list no longer exists in the graph.
func (g *Graph) linkAdopt(child, parent Handle) {
	g.checkLink(child, parent)
	g.detach(child)
	g.attach(child, parent)
}

func (g *Graph) checkLink(child, parent Handle) {
	if child == g.root {
		panic("arbor: cannot reparent the root node")
	}
	if g.isAncestor(child, parent) {
		panic("arbor: linking would create a cycle")
	}
}

func (g *Graph) attach(child, parent Handle) {
	g.pool.Borrow(child).parent = parent
	p := g.pool.Borrow(parent)
	p.children = append(p.children, child)
	if g.debug {
		g.debugCheckTreeDepth(child)
		g.debugCheckChildCount(parent)
	}
}

// UnlinkNode detaches h from its parent, attaches it to the root and resets
// its local position to the origin. Rotation and scale are kept.
func (g *Graph) UnlinkNode(h Handle) {
	g.unlinkInternal(h)
	g.LinkNodes(h, g.root)
	g.pool.Borrow(h).transform.SetPosition(Vec2{})
}

// RemoveNode destroys h and its whole subtree. Every handle into the
// subtree becomes invalid.
//
// References held outside the graph (cameras following a node, tweens, ECS
// entities) are not touched; dropping them is the caller's job.
func (g *Graph) RemoveNode(h Handle) {
	if h == g.root {
		panic("arbor: cannot remove the root node")
	}
	g.unlinkInternal(h)

	removed := 0
	g.stack = append(g.stack[:0], h)
	for len(g.stack) > 0 {
		last := len(g.stack) - 1
		cur := g.stack[last]
		g.stack = g.stack[:last]
		g.stack = append(g.stack, g.pool.Borrow(cur).children...)
		g.pool.Free(cur)
		removed++
	}
	if g.debug {
		g.logger.Debug("removed subtree", "handle", h, "nodes", removed)
	}
}

// TakeReserve detaches h from its parent and moves it out of the graph,
// reserving its slot. The node's children keep pointing at the reserved
// handle and are unreachable from the root until the node is put back.
// Redeem the ticket with PutBack or ForgetTicket.
func (g *Graph) TakeReserve(h Handle) (Ticket, Node) {
	if h == g.root {
		panic("arbor: cannot take the root node")
	}
	g.unlinkInternal(h)
	return g.pool.TakeReserve(h)
}

// PutBack reinserts n into the slot reserved by t and attaches it to the
// root. The returned handle equals the one passed to TakeReserve. Children
// that were adopted elsewhere while the node was out (see AddNode) are
// dropped from its child list.
func (g *Graph) PutBack(t Ticket, n Node) Handle {
	n.parent = NoHandle
	h := g.pool.PutBack(t, n)
	stored := g.pool.Borrow(h)
	kept := stored.children[:0]
	for _, c := range stored.children {
		if cn, ok := g.pool.TryBorrow(c); ok && cn.parent == h {
			kept = append(kept, c)
		}
	}
	clear(stored.children[len(kept):])
	stored.children = kept
	g.LinkNodes(h, g.root)
	return h
}

// ForgetTicket releases a reserved slot without reinsertion. Handles to the
// taken node become stale.
func (g *Graph) ForgetTicket(t Ticket) {
	g.pool.ForgetTicket(t)
}

// Update refreshes hierarchical data, then runs the per-type behavior of
// every node (camera viewports and view matrices) in storage order.
func (g *Graph) Update(renderTargetSize Vec2, dt float64) {
	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}

	g.UpdateHierarchicalData()

	if g.debug {
		g.logger.Debug("hierarchy pass", "nodes", g.pool.Len(), "elapsed", time.Since(t0))
	}

	for n := range g.pool.Values() {
		n.update(renderTargetSize, dt)
	}
}

// UpdateHierarchicalData recomputes the global transform and visibility of
// every node reachable from the root. Update calls it each frame; call it
// directly when global values are needed before the first frame.
//
// The walk is depth-first with parents finalized before their children:
//
//	global = parentGlobal * local
//	globalVisible = parentGlobalVisible && Visible
func (g *Graph) UpdateHierarchicalData() {
	g.stack = append(g.stack[:0], g.root)
	for len(g.stack) > 0 {
		last := len(g.stack) - 1
		h := g.stack[last]
		g.stack = g.stack[:last]

		parentTransform, parentVisible := identityTransform, true
		n := g.pool.Borrow(h)
		if p, ok := g.pool.TryBorrow(n.parent); ok {
			parentTransform, parentVisible = p.globalTransform, p.globalVisibility
		}

		n.globalTransform = parentTransform.Mul(n.transform.Matrix())
		n.globalVisibility = parentVisible && n.Visible

		// Reverse push so children pop in list order.
		for i := len(n.children) - 1; i >= 0; i-- {
			g.stack = append(g.stack, n.children[i])
		}
	}
}

// Walk iterates the nodes reachable from the root depth-first, parents
// before children and siblings in list order. The walk keeps its own
// stack; structural changes made while walking are not reflected in it.
func (g *Graph) Walk() iter.Seq2[Handle, *Node] {
	return func(yield func(Handle, *Node) bool) {
		stack := []Handle{g.root}
		for len(stack) > 0 {
			last := len(stack) - 1
			h := stack[last]
			stack = stack[:last]
			n, ok := g.pool.TryBorrow(h)
			if !ok {
				continue
			}
			if !yield(h, n) {
				return
			}
			for i := len(n.children) - 1; i >= 0; i-- {
				stack = append(stack, n.children[i])
			}
		}
	}
}

// isAncestor reports whether candidate is node or one of its ancestors.
func (g *Graph) isAncestor(candidate, node Handle) bool {
	for p := node; p.IsSome(); {
		if p == candidate {
			return true
		}
		n, ok := g.pool.TryBorrow(p)
		if !ok {
			return false
		}
		p = n.parent
	}
	return false
}
