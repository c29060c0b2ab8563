package arbor

// Node is the payload stored in a Graph. A single flat struct is used for
// all node types; Type selects the per-frame behavior.
//
// The hierarchy fields are maintained by the Graph. Nodes handed to
// Graph.AddNode or Graph.PutBack are copied into the graph's storage, so
// mutate stored nodes through Graph.Node.
type Node struct {
	// Identity
	Name string
	Type NodeType

	// Hierarchy
	parent   Handle
	children []Handle

	transform Transform

	// Visible is the node's own visibility flag. The effective visibility
	// also depends on every ancestor, see GlobalVisibility.
	Visible bool

	// Computed by Graph.UpdateHierarchicalData.
	globalTransform  Matrix
	globalVisibility bool

	// Camera payload (NodeTypeCamera).
	Camera *Camera

	// Sprite payload (NodeTypeSprite). Size is in local units before scale.
	Size  Vec2
	Color Color

	// Metadata
	UserData any
}

func nodeDefaults(n *Node) {
	n.transform = DefaultTransform()
	n.Visible = true
	n.globalTransform = identityTransform
	n.globalVisibility = true
	n.Color = ColorWhite
}

// NewBase creates a grouping node with no behavior of its own.
func NewBase(name string) Node {
	n := Node{Name: name, Type: NodeTypeBase}
	nodeDefaults(&n)
	return n
}

// NewCamera creates a camera node covering the whole render target.
func NewCamera(name string) Node {
	n := Node{Name: name, Type: NodeTypeCamera, Camera: newCamera()}
	nodeDefaults(&n)
	return n
}

// NewSprite creates a sprite node of the given size and color.
func NewSprite(name string, size Vec2, c Color) Node {
	n := Node{Name: name, Type: NodeTypeSprite, Size: size}
	nodeDefaults(&n)
	n.Color = c
	return n
}

// Parent returns the parent handle, or NoHandle for the root or a node
// taken out of its graph.
func (n *Node) Parent() Handle {
	return n.parent
}

// Children returns the child list in traversal order. The returned slice
// MUST NOT be mutated by the caller.
func (n *Node) Children() []Handle {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// LocalTransform returns a copy of the local transform.
func (n *Node) LocalTransform() Transform {
	return n.transform
}

// LocalTransformMut returns the local transform for in-place edits. Global
// values are stale until the next update pass.
func (n *Node) LocalTransformMut() *Transform {
	return &n.transform
}

// SetLocalTransform replaces the local transform.
func (n *Node) SetLocalTransform(t Transform) {
	n.transform = t
}

// Visibility returns the node's own visibility flag.
func (n *Node) Visibility() bool {
	return n.Visible
}

// SetVisibility sets the node's own visibility flag.
func (n *Node) SetVisibility(v bool) {
	n.Visible = v
}

// GlobalTransform returns the world transform cached by the last update
// pass.
func (n *Node) GlobalTransform() Matrix {
	return n.globalTransform
}

// GlobalVisibility reports whether the node and all of its ancestors were
// visible as of the last update pass.
func (n *Node) GlobalVisibility() bool {
	return n.globalVisibility
}

// GlobalPosition returns the world position cached by the last update pass.
func (n *Node) GlobalPosition() Vec2 {
	return n.globalTransform.Position()
}

// SetGlobalTransform overwrites the cached world transform. The next update
// pass replaces it again.
func (n *Node) SetGlobalTransform(m Matrix) {
	n.globalTransform = m
}

// SetGlobalVisibility overwrites the cached global visibility.
func (n *Node) SetGlobalVisibility(v bool) {
	n.globalVisibility = v
}

// update runs the per-type frame behavior.
func (n *Node) update(renderTargetSize Vec2, dt float64) {
	switch n.Type {
	case NodeTypeCamera:
		if n.Camera != nil {
			n.Camera.update(n.globalTransform, renderTargetSize, dt)
		}
	}
}

// removeChild removes child from n.children without touching child.
// Uses copy+zero to avoid retaining a stale handle in the backing array.
func (n *Node) removeChild(child Handle) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = NoHandle
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
