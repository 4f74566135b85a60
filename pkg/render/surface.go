// Package render paints projected scenes onto 2D surfaces.
package render

import (
	"image"
	"image/color"

	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
)

// Surface is a 2D drawing target in pixel coordinates with the origin at
// the top left and y growing downward. Blending and opacity set the
// compositing state for every following draw call until changed.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)

	SetBlending(b material.Blending)
	SetOpacity(alpha float64)

	// ClearRect replaces the pixels in r with c, ignoring compositing state.
	ClearRect(r image.Rectangle, c color.RGBA)

	// FillPath fills the closed convex polygon pts.
	FillPath(pts []math3d.Vec2, c color.RGBA)
	// StrokePath outlines the closed polygon pts.
	StrokePath(pts []math3d.Vec2, c color.RGBA, s material.Stroke)
	// StrokeLine draws a segment whose color runs from ca at a to cb at b.
	StrokeLine(a, b math3d.Vec2, ca, cb color.RGBA, s material.Stroke)
	// FillPattern fills a triangle with tex, mapping each corner to its UV.
	FillPattern(pts [3]math3d.Vec2, uvs [3]math3d.Vec2, tex *material.Texture)

	// FillRect fills a w by h rectangle centered on center, rotated
	// counterclockwise by rotation radians.
	FillRect(center math3d.Vec2, w, h, rotation float64, c color.RGBA)
	// DrawImage stretches tex over the same rectangle FillRect would cover.
	DrawImage(tex *material.Texture, center math3d.Vec2, w, h, rotation float64)

	Image() image.Image
}

// rectCorners returns the corners of a rotated rectangle in drawing order.
func rectCorners(center math3d.Vec2, w, h, rotation float64) []math3d.Vec2 {
	hw, hh := w/2, h/2
	local := [4]math3d.Vec2{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	pts := make([]math3d.Vec2, 4)
	for i, p := range local {
		// y grows downward, so a counterclockwise turn on screen is negative.
		pts[i] = p.Rotate(-rotation).Add(center)
	}
	return pts
}

// barycentric returns the weights of p relative to triangle a, b, c. ok is
// false for degenerate triangles.
func barycentric(a, b, c, p math3d.Vec2) (w0, w1, w2 float64, ok bool) {
	area := b.Sub(a).Cross(c.Sub(a))
	if area == 0 {
		return 0, 0, 0, false
	}
	w0 = c.Sub(b).Cross(p.Sub(b)) / area
	w1 = a.Sub(c).Cross(p.Sub(c)) / area
	w2 = 1 - w0 - w1
	return w0, w1, w2, true
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = math3d.Clamp(t, 0, 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
