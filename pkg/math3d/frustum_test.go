package math3d

import (
	"math"
	"testing"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    Vec3
		expected float64
	}{
		{"origin", V3(0, 0, 0), 0},
		{"in front", V3(0, 0, 5), 5},
		{"behind", V3(0, 0, -3), -3},
		{"offset XY", V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestFrustumFromPerspective(t *testing.T) {
	f := FrustumFromMatrix(Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))

	for i, plane := range f.Planes {
		if math.Abs(plane.Normal.Len()-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, plane.Normal.Len())
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := FrustumFromMatrix(Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))

	tests := []struct {
		name     string
		point    Vec3
		expected bool
	}{
		{"center near", V3(0, 0, -1), true},
		{"center mid", V3(0, 0, -50), true},
		{"center far", V3(0, 0, -99), true},
		{"behind camera", V3(0, 0, 1), false},
		{"too far", V3(0, 0, -200), false},
		{"too close", V3(0, 0, -0.01), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsBox(t *testing.T) {
	f := FrustumFromMatrix(Perspective(math.Pi/3, 16.0/9.0, 1, 100))

	tests := []struct {
		name     string
		box      Box3
		expected bool
	}{
		{"fully inside", Box3{V3(-1, -1, -10), V3(1, 1, -5)}, true},
		{"crosses near plane", Box3{V3(-1, -1, -2), V3(1, 1, 2)}, true},
		{"behind camera", Box3{V3(-1, -1, 5), V3(1, 1, 10)}, false},
		{"beyond far plane", Box3{V3(-1, -1, -150), V3(1, 1, -120)}, false},
		{"far to the right", Box3{V3(100, -1, -10), V3(110, 1, -5)}, false},
		{"contains frustum", Box3{V3(-200, -200, -200), V3(200, 200, 200)}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsBox(tc.box); got != tc.expected {
				t.Errorf("IntersectsBox(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}

	if !f.ContainsBox(Box3{V3(-1, -1, -10), V3(1, 1, -5)}) {
		t.Error("ContainsBox should accept a box well inside the frustum")
	}
	if f.ContainsBox(Box3{V3(-1, -1, -2), V3(1, 1, 2)}) {
		t.Error("ContainsBox should reject a box crossing the near plane")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := FrustumFromMatrix(Perspective(math.Pi/3, 16.0/9.0, 1, 100))

	tests := []struct {
		name     string
		sphere   Sphere
		expected bool
	}{
		{"inside", Sphere{V3(0, 0, -10), 1}, true},
		{"touching near plane", Sphere{V3(0, 0, -0.5), 1}, true},
		{"behind", Sphere{V3(0, 0, 5), 1}, false},
		{"far behind", Sphere{V3(0, 0, 20), 1}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tc.sphere); got != tc.expected {
				t.Errorf("IntersectsSphere(%v) = %v, want %v", tc.sphere, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	proj := Perspective(math.Pi/3, 1.0, 1.0, 100.0)
	view := viewMatrix(V3(0, 0, 0), V3(10, 0, 0), V3(0, 1, 0))
	f := FrustumFromMatrix(proj.Mul(view))

	if !f.ContainsPoint(V3(10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if f.ContainsPoint(V3(-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func BenchmarkFrustumIntersectsBox(b *testing.B) {
	f := FrustumFromMatrix(Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000.0))
	box := Box3{V3(-1, -1, -10), V3(1, 1, -5)}

	for b.Loop() {
		_ = f.IntersectsBox(box)
	}
}

func BenchmarkFrustumIntersectsSphere(b *testing.B) {
	f := FrustumFromMatrix(Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000.0))
	s := Sphere{V3(0, 0, -10), 2}

	for b.Loop() {
		_ = f.IntersectsSphere(s)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	proj := Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000.0)
	view := viewMatrix(V3(0, 10, 20), V3(0, 0, 0), V3(0, 1, 0))
	viewProj := proj.Mul(view)

	for b.Loop() {
		_ = FrustumFromMatrix(viewProj)
	}
}
