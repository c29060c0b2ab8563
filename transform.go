package arbor

import "math"

// Matrix is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// identityTransform is the identity affine matrix.
var identityTransform = Matrix{1, 0, 0, 1, 0, 0}

// Identity returns the identity matrix.
func Identity() Matrix { return identityTransform }

// ScaleMatrix returns a nonuniform scaling matrix.
func ScaleMatrix(s Vec2) Matrix { return Matrix{s.X, 0, 0, s.Y, 0, 0} }

// TranslationMatrix returns a pure translation.
func TranslationMatrix(p Vec2) Matrix { return Matrix{1, 0, 0, 1, p.X, p.Y} }

// Mul returns m * o. With m a parent transform and o a child's local
// transform, the result maps child coordinates into the parent's space.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Matrix) Invert() Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms point p.
func (m Matrix) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// Position returns the translation column.
func (m Matrix) Position() Vec2 { return Vec2{m[4], m[5]} }

// Transform is a node's local transform relative to its parent.
type Transform struct {
	Position Vec2
	Scale    Vec2
	Rotation float64 // radians
	Skew     Vec2    // radians
	Pivot    Vec2
}

// DefaultTransform returns a transform at the origin with unit scale.
func DefaultTransform() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

// SetPosition sets the position and returns t for chaining.
func (t *Transform) SetPosition(p Vec2) *Transform {
	t.Position = p
	return t
}

// SetScale sets the scale and returns t for chaining.
func (t *Transform) SetScale(s Vec2) *Transform {
	t.Scale = s
	return t
}

// SetRotation sets the rotation in radians and returns t for chaining.
func (t *Transform) SetRotation(r float64) *Transform {
	t.Rotation = r
	return t
}

// SetSkew sets the skew angles and returns t for chaining.
func (t *Transform) SetSkew(s Vec2) *Transform {
	t.Skew = s
	return t
}

// SetPivot sets the pivot and returns t for chaining.
func (t *Transform) SetPivot(p Vec2) *Transform {
	t.Pivot = p
	return t
}

// Offset moves the position by d.
func (t *Transform) Offset(d Vec2) *Transform {
	t.Position = t.Position.Add(d)
	return t
}

// Matrix computes the local affine matrix.
//
// Composition order:
//
//	Translate(-Pivot) -> Scale -> Skew -> Rotate -> Translate(Position)
func (t Transform) Matrix() Matrix {
	sx := t.Scale.X
	sy := t.Scale.Y

	sin, cos := math.Sincos(t.Rotation)

	var tanSkewX, tanSkewY float64
	if t.Skew.X != 0 {
		tanSkewX = math.Tan(t.Skew.X)
	}
	if t.Skew.Y != 0 {
		tanSkewY = math.Tan(t.Skew.Y)
	}

	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := t.Pivot.X
	py := t.Pivot.Y
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	return Matrix{ra, rb, rc, rd, rtx + t.Position.X, rty + t.Position.Y}
}

// TransformBuilder builds a Transform field by field. Unset fields keep
// the DefaultTransform values.
type TransformBuilder struct {
	t Transform
}

// NewTransformBuilder starts from DefaultTransform.
func NewTransformBuilder() *TransformBuilder {
	return &TransformBuilder{t: DefaultTransform()}
}

// WithPosition sets the position.
func (b *TransformBuilder) WithPosition(p Vec2) *TransformBuilder {
	b.t.Position = p
	return b
}

// WithRotation sets the rotation in radians.
func (b *TransformBuilder) WithRotation(r float64) *TransformBuilder {
	b.t.Rotation = r
	return b
}

// WithScale sets the scale.
func (b *TransformBuilder) WithScale(s Vec2) *TransformBuilder {
	b.t.Scale = s
	return b
}

// WithSkew sets the skew in radians.
func (b *TransformBuilder) WithSkew(s Vec2) *TransformBuilder {
	b.t.Skew = s
	return b
}

// WithPivot sets the pivot in local units.
func (b *TransformBuilder) WithPivot(p Vec2) *TransformBuilder {
	b.t.Pivot = p
	return b
}

// Build returns the accumulated Transform.
func (b *TransformBuilder) Build() Transform {
	return b.t
}

// Rotation2 is a 2D rotation stored as a unit complex number.
type Rotation2 struct {
	Cos, Sin float64
}

// RotationFromAngle returns the rotation by angle radians.
func RotationFromAngle(angle float64) Rotation2 {
	sin, cos := math.Sincos(angle)
	return Rotation2{Cos: cos, Sin: sin}
}

// RotationFromMatrix returns the rotation closest to the 2x2 linear part of
// m. Scale and shear are discarded; a degenerate matrix yields the identity.
func RotationFromMatrix(m Matrix) Rotation2 {
	return RotationFromAngle(math.Atan2(m[1]-m[2], m[0]+m[3]))
}

// Angle returns the rotation angle in radians, in (-Pi, Pi].
func (r Rotation2) Angle() float64 {
	return math.Atan2(r.Sin, r.Cos)
}

// Rotate applies the rotation to v.
func (r Rotation2) Rotate(v Vec2) Vec2 {
	return Vec2{r.Cos*v.X - r.Sin*v.Y, r.Sin*v.X + r.Cos*v.Y}
}
