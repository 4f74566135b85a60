package math3d

import (
	"math"
	"testing"
)

func TestBox2(t *testing.T) {
	b := EmptyBox2()
	if !b.IsEmpty() {
		t.Fatal("EmptyBox2 should be empty")
	}

	b = Box2FromPoints(V2(1, 2), V2(-3, 4), V2(0, -1))
	if b.Min != V2(-3, -1) || b.Max != V2(1, 4) {
		t.Errorf("box = %v, want min (-3,-1) max (1,4)", b)
	}
	if b.Size() != V2(4, 5) {
		t.Errorf("size = %v, want (4, 5)", b.Size())
	}

	other := Box2{V2(1, 4), V2(5, 5)}
	if !b.IntersectsBox(other) {
		t.Error("touching boxes should intersect")
	}
	if b.IntersectsBox(Box2{V2(2, 5), V2(3, 6)}) {
		t.Error("disjoint boxes should not intersect")
	}

	u := b.Union(other)
	if u.Min != V2(-3, -1) || u.Max != V2(5, 5) {
		t.Errorf("union = %v", u)
	}

	clipped := Box2{V2(-10, -10), V2(0, 0)}.Intersect(b)
	if clipped.Min != V2(-3, -1) || clipped.Max != V2(0, 0) {
		t.Errorf("intersect = %v", clipped)
	}

	e := b.ExpandByScalar(2)
	if e.Min != V2(-5, -3) || e.Max != V2(3, 6) {
		t.Errorf("expand = %v", e)
	}
	if EmptyBox2().Size() != (Vec2{}) {
		t.Error("empty box size should be zero")
	}
}

func TestBox3(t *testing.T) {
	box := Box3{V3(-1, -2, -3), V3(1, 2, 3)}

	if c := box.Center(); c != (Vec3{}) {
		t.Errorf("center = %v, want origin", c)
	}
	if s := box.Size(); s != V3(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", s)
	}

	tests := []struct {
		name     string
		point    Vec3
		expected bool
	}{
		{"center", V3(0, 0, 0), true},
		{"corner", V3(1, 2, 3), true},
		{"outside x", V3(1.5, 0, 0), false},
		{"outside z", V3(0, 0, -4), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}

	clip := Box3{V3(-1, -1, -1), V3(1, 1, 1)}
	if !clip.IntersectsBox(Box3FromPoints(V3(0.5, 0.5, 0.5), V3(3, 3, 3))) {
		t.Error("overlapping boxes should intersect")
	}
	if clip.IntersectsBox(Box3FromPoints(V3(2, 2, 2), V3(3, 3, 3))) {
		t.Error("disjoint boxes should not intersect")
	}
}

func TestBox3ApplyMat4(t *testing.T) {
	box := Box3{V3(-1, -1, -1), V3(1, 1, 1)}

	moved := box.ApplyMat4(Translate(V3(10, 20, 30)))
	if moved.Min != V3(9, 19, 29) || moved.Max != V3(11, 21, 31) {
		t.Errorf("translated = %v", moved)
	}

	rotated := box.ApplyMat4(RotateY(math.Pi / 4))
	r := math.Sqrt2
	if math.Abs(rotated.Max.X-r) > 1e-9 || math.Abs(rotated.Max.Z-r) > 1e-9 {
		t.Errorf("rotated max = %v, want (%v, 1, %v)", rotated.Max, r, r)
	}

	if !EmptyBox3().ApplyMat4(Translate(V3(1, 1, 1))).IsEmpty() {
		t.Error("empty box should stay empty")
	}
}

func TestSphere(t *testing.T) {
	s := SphereFromPoints(V3(-4, -3, 0), V3(4, 3, 0), V3(0, 1, 0))
	if s.Center != (Vec3{}) || s.Radius != 5 {
		t.Errorf("sphere = %v, want origin radius 5", s)
	}
	if !s.ContainsPoint(V3(4, 3, 0)) || !s.ContainsPoint(V3(0, 1, 0)) {
		t.Error("sphere must contain its points")
	}

	scaled := Sphere{V3(1, 0, 0), 1}.ApplyMat4(Scale(V3(1, 3, 2)))
	if scaled.Center != V3(1, 0, 0) || math.Abs(scaled.Radius-3) > 1e-9 {
		t.Errorf("scaled sphere = %v", scaled)
	}

	if !SphereFromPoints().IsEmpty() {
		t.Error("sphere of no points should be empty")
	}
}

func TestColor(t *testing.T) {
	c := Hex(0xff8000)
	if !c.ApproxEqual(RGB(1, 128.0/255, 0), 1e-12) {
		t.Errorf("Hex = %v", c)
	}
	if c.Hex() != 0xff8000 {
		t.Errorf("Hex round trip = %06x", c.Hex())
	}

	rgba := RGB(2, -1, 0.5).RGBA8(1)
	if rgba.R != 255 || rgba.G != 0 || rgba.B != 128 || rgba.A != 255 {
		t.Errorf("RGBA8 clamps = %v", rgba)
	}
	if got := ColorFromRGBA(rgba); got.Hex() != 0xff0080 {
		t.Errorf("ColorFromRGBA = %06x", got.Hex())
	}
	if got := RGB(0, 0, 0).Lerp(RGB(1, 1, 1), 0.25); !got.ApproxEqual(RGB(0.25, 0.25, 0.25), 1e-12) {
		t.Errorf("Lerp = %v", got)
	}
}
