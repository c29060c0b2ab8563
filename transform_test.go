package arbor

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Matrix) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- Transform.Matrix ---

func TestLocalTransformIdentity(t *testing.T) {
	got := DefaultTransform().Matrix()
	assertMatrix(t, "identity", got, Matrix{1, 0, 0, 1, 0, 0})
}

func TestLocalTransformTranslation(t *testing.T) {
	tr := DefaultTransform()
	tr.SetPosition(Vec2{10, 20})
	assertMatrix(t, "translation", tr.Matrix(), Matrix{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformScale(t *testing.T) {
	tr := DefaultTransform()
	tr.SetScale(Vec2{2, 3})
	assertMatrix(t, "scale", tr.Matrix(), Matrix{2, 0, 0, 3, 0, 0})
}

func TestLocalTransformRotation90(t *testing.T) {
	tr := DefaultTransform()
	tr.SetRotation(math.Pi / 2)
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", tr.Matrix(), Matrix{0, 1, -1, 0, 0, 0})
}

func TestLocalTransformPivot(t *testing.T) {
	tr := DefaultTransform()
	tr.SetPosition(Vec2{100, 200}).SetPivot(Vec2{16, 16})
	// T(100,200) * T(-16,-16)
	assertMatrix(t, "pivot", tr.Matrix(), Matrix{1, 0, 0, 1, 84, 184})
}

func TestLocalTransformSkew(t *testing.T) {
	tr := DefaultTransform()
	tr.SetSkew(Vec2{math.Pi / 4, 0}) // tan = 1
	assertMatrix(t, "skew", tr.Matrix(), Matrix{1, 0, 1, 1, 0, 0})
}

func TestLocalTransformCombined(t *testing.T) {
	tr := NewTransformBuilder().
		WithPosition(Vec2{50, 100}).
		WithScale(Vec2{2, 2}).
		WithRotation(math.Pi / 2).
		Build()
	// Scale(2,2) then Rotate(90°), then translate.
	assertMatrix(t, "combined", tr.Matrix(), Matrix{0, 2, -2, 0, 50, 100})
}

func TestTransformBuilderDefaults(t *testing.T) {
	tr := NewTransformBuilder().Build()
	if tr != DefaultTransform() {
		t.Errorf("empty builder = %+v, want default", tr)
	}
}

// --- Matrix ---

func TestMatrixMulIdentity(t *testing.T) {
	m := Matrix{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", Identity().Mul(m), m)
	assertMatrix(t, "m*id", m.Mul(Identity()), m)
}

func TestMatrixMulTranslations(t *testing.T) {
	a := TranslationMatrix(Vec2{10, 20})
	b := TranslationMatrix(Vec2{5, 3})
	assertMatrix(t, "translations", a.Mul(b), Matrix{1, 0, 0, 1, 15, 23})
}

func TestMatrixMulOrder(t *testing.T) {
	rot := NewTransformBuilder().WithRotation(math.Pi / 2).Build().Matrix()
	move := TranslationMatrix(Vec2{1, 0})

	// Parent rotation applied after the child's translation.
	p := rot.Mul(move).Position()
	assertNear(t, "rot*move.x", p.X, 0)
	assertNear(t, "rot*move.y", p.Y, 1)

	q := move.Mul(rot).Position()
	assertNear(t, "move*rot.x", q.X, 1)
	assertNear(t, "move*rot.y", q.Y, 0)
}

func TestMatrixInvert(t *testing.T) {
	m := Matrix{2, 0, 0, 3, 10, 20}
	assertMatrix(t, "m*inv=id", m.Mul(m.Invert()), identityTransform)

	tr := DefaultTransform()
	tr.SetScale(Vec2{2, 1}).SetRotation(math.Pi / 3).SetSkew(Vec2{0.2, 0})
	c := tr.Matrix()
	assertMatrix(t, "complex m*inv=id", c.Mul(c.Invert()), identityTransform)
}

func TestMatrixInvertSingular(t *testing.T) {
	assertMatrix(t, "singular", Matrix{0, 0, 0, 0, 5, 5}.Invert(), identityTransform)
}

func TestMatrixApply(t *testing.T) {
	m := Matrix{0, 1, -1, 0, 10, 0} // rot90 then move
	p := m.Apply(Vec2{1, 0})
	assertNear(t, "x", p.X, 10)
	assertNear(t, "y", p.Y, 1)
}

// --- Rotation2 ---

func TestRotationFromMatrix(t *testing.T) {
	tests := []struct {
		name  string
		tr    Transform
		angle float64
	}{
		{"identity", DefaultTransform(), 0},
		{"quarter", NewTransformBuilder().WithRotation(math.Pi / 2).Build(), math.Pi / 2},
		{"scaled", NewTransformBuilder().WithRotation(0.3).WithScale(Vec2{4, 4}).Build(), 0.3},
		{"negative", NewTransformBuilder().WithRotation(-1).Build(), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RotationFromMatrix(tt.tr.Matrix())
			assertNear(t, "angle", r.Angle(), tt.angle)
			assertNear(t, "norm", math.Hypot(r.Cos, r.Sin), 1)
		})
	}
}

func TestRotationRotate(t *testing.T) {
	v := RotationFromAngle(math.Pi / 2).Rotate(Vec2{1, 0})
	assertNear(t, "x", v.X, 0)
	assertNear(t, "y", v.Y, 1)
}
