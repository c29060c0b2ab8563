package arbor

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the payload of a camera node. Its position and rotation come
// from the owning node's global transform; Graph.Update refreshes the
// derived viewport and view matrix once per frame.
type Camera struct {
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Viewport is the normalized ([0, 1] on both axes) rectangle of the
	// render target this camera renders into.
	Viewport Rect
	// Enabled cameras are used by the ebiten driver.
	Enabled bool

	zoomTween *gween.Tween

	viewportPixels Rect
	viewMatrix     Matrix
	invViewMatrix  Matrix
}

func newCamera() *Camera {
	return &Camera{
		Zoom:          1,
		Viewport:      Rect{0, 0, 1, 1},
		Enabled:       true,
		viewMatrix:    identityTransform,
		invViewMatrix: identityTransform,
	}
}

// ZoomTo animates Zoom to z over duration seconds. The tween advances with
// the dt passed to Graph.Update.
func (c *Camera) ZoomTo(z float64, duration float32, easeFn ease.TweenFunc) {
	c.zoomTween = gween.New(float32(c.Zoom), float32(z), duration, easeFn)
}

// update advances the zoom tween and recomputes the pixel viewport and view
// matrix for the given render target size.
//
// viewMatrix = Translate(viewportCenter) * Scale(zoom) * inverse(global)
func (c *Camera) update(global Matrix, renderTargetSize Vec2, dt float64) {
	if c.zoomTween != nil {
		val, done := c.zoomTween.Update(float32(dt))
		c.Zoom = float64(val)
		if done {
			c.zoomTween = nil
		}
	}

	vp := c.Viewport
	c.viewportPixels = Rect{
		X:      vp.X * renderTargetSize.X,
		Y:      vp.Y * renderTargetSize.Y,
		Width:  vp.Width * renderTargetSize.X,
		Height: vp.Height * renderTargetSize.Y,
	}

	center := Vec2{
		c.viewportPixels.X + c.viewportPixels.Width/2,
		c.viewportPixels.Y + c.viewportPixels.Height/2,
	}
	c.viewMatrix = TranslationMatrix(center).
		Mul(ScaleMatrix(Vec2{c.Zoom, c.Zoom})).
		Mul(global.Invert())
	c.invViewMatrix = c.viewMatrix.Invert()
}

// ViewportPixels returns the viewport in render-target pixels as of the
// last update.
func (c *Camera) ViewportPixels() Rect {
	return c.viewportPixels
}

// ViewMatrix returns the world-to-screen matrix as of the last update.
func (c *Camera) ViewMatrix() Matrix {
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	return c.viewMatrix.Apply(p)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	return c.invViewMatrix.Apply(p)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() Rect {
	vp := c.viewportPixels
	inv := c.invViewMatrix

	p0 := inv.Apply(Vec2{vp.X, vp.Y})
	p1 := inv.Apply(Vec2{vp.X + vp.Width, vp.Y})
	p2 := inv.Apply(Vec2{vp.X + vp.Width, vp.Y + vp.Height})
	p3 := inv.Apply(Vec2{vp.X, vp.Y + vp.Height})

	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// worldAABB computes the axis-aligned bounding box of a (w, h) rectangle
// transformed by m.
func worldAABB(m Matrix, w, h float64) Rect {
	p0 := m.Apply(Vec2{0, 0})
	p1 := m.Apply(Vec2{w, 0})
	p2 := m.Apply(Vec2{w, h})
	p3 := m.Apply(Vec2{0, h})

	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
