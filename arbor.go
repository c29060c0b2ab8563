package arbor

import (
	"image/color"
	"math"

	"github.com/phanxgames/arbor/pool"
)

// Handle references a node stored in a Graph. The zero value is the none
// handle. Handles are only meaningful for the Graph that produced them.
type Handle = pool.Handle[Node]

// Ticket reserves the slot of a node taken out of a Graph with TakeReserve.
type Ticket = pool.Ticket[Node]

// NoHandle is the none handle.
var NoHandle = pool.None[Node]()

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default sprite color.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Vec2 is a 2D vector used for positions, offsets, sizes and scales.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// NodeType selects the per-frame behavior of a Node.
type NodeType uint8

const (
	NodeTypeBase   NodeType = iota // grouping node with no behavior of its own
	NodeTypeCamera                 // recomputes its viewport and view matrix each frame
	NodeTypeSprite                 // colored rectangle drawn by the ebiten driver
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeBase:
		return "base"
	case NodeTypeCamera:
		return "camera"
	case NodeTypeSprite:
		return "sprite"
	default:
		return "unknown"
	}
}
