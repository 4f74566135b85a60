package render

import (
	"image/color"
	"math"

	"github.com/taigrr/vista/pkg/math3d"
)

// shader returns the color of the pixel centered at (x, y) with
// barycentric weights w0, w1, w2.
type shader func(x, y, w0, w1, w2 float64) color.RGBA

// edgeCoeffs returns A, B, C for edge(x, y) = A*x + B*y + C, which is
// positive to the left of the edge (x0, y0) -> (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// fillTriangle blends shade into every pixel whose center lies inside the
// triangle. Both windings are accepted. Edge functions are stepped
// incrementally across the clamped bounding box.
func (fb *Framebuffer) fillTriangle(v0, v1, v2 math3d.Vec2, shade shader) {
	area2 := v1.Sub(v0).Cross(v2.Sub(v0))
	if area2 == 0 || math.IsNaN(area2) || math.IsInf(area2, 0) {
		return
	}

	minX := max(int(math.Floor(min3(v0.X, v1.X, v2.X))), 0)
	maxX := min(int(math.Ceil(max3(v0.X, v1.X, v2.X))), fb.Width-1)
	minY := max(int(math.Floor(min3(v0.Y, v1.Y, v2.Y))), 0)
	maxY := min(int(math.Ceil(max3(v0.Y, v1.Y, v2.Y))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(v1.X, v1.Y, v2.X, v2.Y)
	A1, B1, C1 := edgeCoeffs(v2.X, v2.Y, v0.X, v0.Y)
	A2, B2, C2 := edgeCoeffs(v0.X, v0.Y, v1.X, v1.Y)
	invArea := 1 / area2

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			// Weights share the sign of the area inside the triangle.
			bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
			if bc0 >= 0 && bc1 >= 0 && bc2 >= 0 {
				fb.BlendPixel(x, y, shade(float64(x)+0.5, float64(y)+0.5, bc0, bc1, bc2))
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}
