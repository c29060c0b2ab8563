package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tweenField uint8

const (
	fieldPositionX tweenField = iota
	fieldPositionY
	fieldScaleX
	fieldScaleY
	fieldRotation
)

// TweenGroup animates up to 2 local-transform fields of a node
// simultaneously. Create one via TweenPosition, TweenScale or
// TweenRotation and call Update each frame. If the target handle stops
// resolving (node removed or taken out with a ticket), the group stops
// immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	fields [2]tweenField
	count  int
	target Handle
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values into the
// target node's local transform.
func (t *TweenGroup) Update(g *Graph, dt float32) {
	if t.Done {
		return
	}
	n, ok := g.TryNode(t.target)
	if !ok {
		t.Done = true
		return
	}

	tr := n.LocalTransformMut()
	allDone := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		v := float64(val)
		switch t.fields[i] {
		case fieldPositionX:
			tr.Position.X = v
		case fieldPositionY:
			tr.Position.Y = v
		case fieldScaleX:
			tr.Scale.X = v
		case fieldScaleY:
			tr.Scale.Y = v
		case fieldRotation:
			tr.Rotation = v
		}
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone
}

// Target returns the animated node's handle.
func (t *TweenGroup) Target() Handle {
	return t.target
}

// TweenPosition animates the local position of h to `to`.
func TweenPosition(g *Graph, h Handle, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := g.Node(h).transform.Position
	t := &TweenGroup{count: 2, target: h, fields: [2]tweenField{fieldPositionX, fieldPositionY}}
	t.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	t.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	return t
}

// TweenScale animates the local scale of h to `to`.
func TweenScale(g *Graph, h Handle, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := g.Node(h).transform.Scale
	t := &TweenGroup{count: 2, target: h, fields: [2]tweenField{fieldScaleX, fieldScaleY}}
	t.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	t.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	return t
}

// TweenRotation animates the local rotation of h to `to` radians.
func TweenRotation(g *Graph, h Handle, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := g.Node(h).transform.Rotation
	t := &TweenGroup{count: 1, target: h, fields: [2]tweenField{fieldRotation}}
	t.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	return t
}
