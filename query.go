package arbor

// The queries below recompute transforms from local data on every call,
// walking from the node up to the root. They ignore the cached global
// values, so they are valid between update passes, but cost O(depth) each:
// hoist results out of tight loops.

// LocalTransformNoScale returns the local matrix of h computed with scale
// forced to (1, 1). Skew and pivot still apply.
func (g *Graph) LocalTransformNoScale(h Handle) Matrix {
	t := g.Node(h).transform
	t.SetScale(Vec2{1, 1})
	return t.Matrix()
}

// GlobalTransformNoScale returns the world matrix of h with every scale on
// the ancestor chain forced to (1, 1).
func (g *Graph) GlobalTransformNoScale(h Handle) Matrix {
	return g.accumulate(h, g.LocalTransformNoScale)
}

// IsometricLocalTransform returns a local matrix rebuilt from position and
// rotation only. Unlike LocalTransformNoScale, skew and pivot are dropped
// too.
func (g *Graph) IsometricLocalTransform(h Handle) Matrix {
	t := g.Node(h).transform
	return NewTransformBuilder().
		WithPosition(t.Position).
		WithRotation(t.Rotation).
		Build().
		Matrix()
}

// IsometricGlobalTransform returns the world matrix of h built from
// isometric local transforms only (translation and rotation).
func (g *Graph) IsometricGlobalTransform(h Handle) Matrix {
	return g.accumulate(h, g.IsometricLocalTransform)
}

// GlobalScaleMatrix returns the product of the nonuniform scale matrices
// along the ancestor chain of h.
func (g *Graph) GlobalScaleMatrix(h Handle) Matrix {
	return g.accumulate(h, func(h Handle) Matrix {
		return ScaleMatrix(g.Node(h).transform.Scale)
	})
}

// GlobalScale returns the accumulated scale of h.
func (g *Graph) GlobalScale(h Handle) Vec2 {
	m := g.GlobalScaleMatrix(h)
	return Vec2{m[0], m[3]}
}

// GlobalRotation returns the world rotation of h, taken from the scale-free
// global transform.
func (g *Graph) GlobalRotation(h Handle) Rotation2 {
	return RotationFromMatrix(g.GlobalTransformNoScale(h))
}

// IsometricGlobalRotation returns the world rotation of h without the
// contribution of skew or pivot.
func (g *Graph) IsometricGlobalRotation(h Handle) Rotation2 {
	return RotationFromMatrix(g.IsometricGlobalTransform(h))
}

// GlobalRotationPositionNoScale returns GlobalRotation together with the
// cached global position.
func (g *Graph) GlobalRotationPositionNoScale(h Handle) (Rotation2, Vec2) {
	return g.GlobalRotation(h), g.Node(h).GlobalPosition()
}

// IsometricGlobalRotationPosition returns IsometricGlobalRotation together
// with the cached global position.
func (g *Graph) IsometricGlobalRotationPosition(h Handle) (Rotation2, Vec2) {
	return g.IsometricGlobalRotation(h), g.Node(h).GlobalPosition()
}

// accumulate composes local(n) for h and each ancestor, root first. The
// chain stops at a parent that does not resolve, as for children of a node
// held by a ticket.
func (g *Graph) accumulate(h Handle, local func(Handle) Matrix) Matrix {
	m := local(h)
	p := g.Node(h).parent
	for {
		n, ok := g.TryNode(p)
		if !ok {
			return m
		}
		m = local(p).Mul(m)
		p = n.parent
	}
}
