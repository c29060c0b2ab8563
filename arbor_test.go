package arbor

import (
	"image/color"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: -5, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 15, true},
		{-5, 10, true}, // top-left corner
		{15, 20, true}, // bottom-right corner
		{-5.01, 15, false},
		{15.01, 15, false},
		{0, 9.99, false},
		{0, 20.01, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("%+v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{0, 0, 50, 50}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{25, 25, 50, 50}, true},
		{"inside", Rect{10, 10, 5, 5}, true},
		{"around", Rect{-10, -10, 100, 100}, true},
		{"shared edge", Rect{50, 0, 10, 10}, true},
		{"point on corner", Rect{50, 50, 0, 0}, true},
		{"right", Rect{51, 0, 10, 10}, false},
		{"below", Rect{0, 51, 10, 10}, false},
		{"left", Rect{-20, 0, 10, 10}, false},
		{"above", Rect{0, -20, 10, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("Intersects is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestColorToRGBA(t *testing.T) {
	tests := []struct {
		in   Color
		want color.RGBA
	}{
		{ColorWhite, color.RGBA{255, 255, 255, 255}},
		{Color{1, 0, 0, 0.5}, color.RGBA{128, 0, 0, 128}},
		{Color{2, -1, 0.5, 1}, color.RGBA{255, 0, 128, 255}},
		{Color{1, 1, 1, 0}, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := tt.in.toRGBA(); got != tt.want {
			t.Errorf("%+v.toRGBA() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec2(t *testing.T) {
	a, b := Vec2{3, 4}, Vec2{1, -1}
	if got := a.Add(b); got != (Vec2{4, 3}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec2{2, 5}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v", got)
	}
}

func TestNodeTypeString(t *testing.T) {
	for typ, want := range map[NodeType]string{
		NodeTypeBase:   "base",
		NodeTypeCamera: "camera",
		NodeTypeSprite: "sprite",
		NodeType(200):  "unknown",
	} {
		if got := typ.String(); got != want {
			t.Errorf("NodeType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func BenchmarkRectIntersects(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	other := Rect{50, 40, 80, 60}
	for b.Loop() {
		_ = r.Intersects(other)
	}
}
