package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
)

// Framebuffer is a software Surface backed by an RGBA image. Pixels are
// stored non-premultiplied; only the terminal and PNG outputs read them.
type Framebuffer struct {
	Width  int
	Height int
	Img    *image.RGBA

	blending material.Blending
	opacity  float64
}

var _ Surface = (*Framebuffer)(nil)

// NewFramebuffer creates a transparent framebuffer with the given dimensions.
// For terminal output the height should be twice the number of rows.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{blending: material.BlendNormal, opacity: 1}
	fb.Resize(width, height)
	return fb
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (int, int) { return fb.Width, fb.Height }

// Resize reallocates the pixel buffer. Existing contents are discarded.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width, fb.Height = max(width, 0), max(height, 0)
	fb.Img = image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
}

// SetBlending selects how subsequent draws combine with existing pixels.
func (fb *Framebuffer) SetBlending(b material.Blending) { fb.blending = b }

// SetOpacity scales the alpha of subsequent draws.
func (fb *Framebuffer) SetOpacity(alpha float64) { fb.opacity = math3d.Clamp(alpha, 0, 1) }

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fb.DrawRect(0, 0, fb.Width, fb.Height, c)
}

// ClearRect replaces the pixels of r with c.
func (fb *Framebuffer) ClearRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(fb.Img.Rect)
	fb.DrawRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c)
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Img.SetRGBA(x, y, c)
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Img.RGBAAt(x, y)
}

// BlendPixel composites c over the pixel at (x, y) using the current
// blending mode and opacity.
func (fb *Framebuffer) BlendPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	a := fb.opacity * float64(c.A) / 255
	if a <= 0 && fb.blending != material.BlendNone {
		return
	}
	fb.Img.SetRGBA(x, y, blend(fb.Img.RGBAAt(x, y), c, a, fb.blending))
}

func blend(dst, src color.RGBA, a float64, mode material.Blending) color.RGBA {
	ch := func(d, s uint8) uint8 {
		df, sf := float64(d), float64(s)
		var v float64
		switch mode {
		case material.BlendNone:
			v = sf
		case material.BlendAdditive:
			v = df + sf*a
		case material.BlendSubtractive:
			v = df - sf*a
		case material.BlendMultiply:
			v = df * (1 - a + a*sf/255)
		default:
			v = sf*a + df*(1-a)
		}
		return uint8(math3d.Clamp(math.Round(v), 0, 255))
	}
	out := color.RGBA{ch(dst.R, src.R), ch(dst.G, src.G), ch(dst.B, src.B), dst.A}
	if mode == material.BlendNone {
		out.A = uint8(math.Round(a * 255))
	} else {
		out.A = uint8(math.Round(math3d.Clamp(a*255+float64(dst.A)*(1-a), 0, 255)))
	}
	return out
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	fb.bresenham(x0, y0, x1, y1, func(float64) color.RGBA { return c })
}

// bresenham steps from (x0, y0) to (x1, y1), blending shade(t) at each
// pixel where t runs from 0 to 1 along the line.
func (fb *Framebuffer) bresenham(x0, y0, x1, y1 int, shade func(t float64) color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	steps := float64(max(dx, -dy))
	i := 0.0

	for {
		t := 0.0
		if steps > 0 {
			t = i / steps
		}
		fb.BlendPixel(x0, y0, shade(t))
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
		i++
	}
}

// DrawRect replaces the pixels of a rectangle without blending.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := max(y, 0); py < min(y+h, fb.Height); py++ {
		for px := max(x, 0); px < min(x+w, fb.Width); px++ {
			fb.Img.SetRGBA(px, py, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FillPath fills a convex polygon as a triangle fan.
func (fb *Framebuffer) FillPath(pts []math3d.Vec2, c color.RGBA) {
	flat := func(float64, float64, float64, float64, float64) color.RGBA { return c }
	for i := 2; i < len(pts); i++ {
		fb.fillTriangle(pts[0], pts[i-1], pts[i], flat)
	}
}

// StrokePath outlines the closed polygon pts.
func (fb *Framebuffer) StrokePath(pts []math3d.Vec2, c color.RGBA, s material.Stroke) {
	if len(pts) < 2 {
		return
	}
	edge := s
	if s.Join == material.JoinRound {
		edge.Cap = material.CapRound
	}
	for i := range pts {
		fb.StrokeLine(pts[i], pts[(i+1)%len(pts)], c, c, edge)
	}
}

// StrokeLine draws a segment of width s.Width, interpolating the color from
// ca to cb. Widths up to one pixel use Bresenham; wider lines are filled
// as quads with caps.
func (fb *Framebuffer) StrokeLine(a, b math3d.Vec2, ca, cb color.RGBA, s material.Stroke) {
	d := b.Sub(a)
	lenSq := d.LenSq()
	along := func(x, y float64) float64 {
		if lenSq == 0 {
			return 0
		}
		return math3d.V2(x, y).Sub(a).Dot(d) / lenSq
	}

	if s.Width <= 1 {
		fb.bresenham(int(math.Floor(a.X)), int(math.Floor(a.Y)), int(math.Floor(b.X)), int(math.Floor(b.Y)),
			func(t float64) color.RGBA { return lerpRGBA(ca, cb, t) })
		return
	}

	hw := s.Width / 2
	dir := d.Normalize()
	if lenSq == 0 {
		dir = math3d.V2(1, 0)
	}
	p0, p1 := a, b
	if s.Cap == material.CapSquare {
		p0 = p0.Sub(dir.Scale(hw))
		p1 = p1.Add(dir.Scale(hw))
	}
	n := math3d.V2(-dir.Y, dir.X).Scale(hw)
	quad := [4]math3d.Vec2{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)}
	shade := func(x, y, _, _, _ float64) color.RGBA { return lerpRGBA(ca, cb, along(x, y)) }
	fb.fillTriangle(quad[0], quad[1], quad[2], shade)
	fb.fillTriangle(quad[0], quad[2], quad[3], shade)

	if s.Cap == material.CapRound {
		fb.fillDisc(a, hw, ca, dir, false)
		fb.fillDisc(b, hw, cb, dir, true)
	}
}

// fillDisc fills the half disc of radius r around c that lies behind
// (or, with ahead set, in front of) the direction dir.
func (fb *Framebuffer) fillDisc(c math3d.Vec2, r float64, col color.RGBA, dir math3d.Vec2, ahead bool) {
	minX, maxX := max(int(math.Floor(c.X-r)), 0), min(int(math.Ceil(c.X+r)), fb.Width-1)
	minY, maxY := max(int(math.Floor(c.Y-r)), 0), min(int(math.Ceil(c.Y+r)), fb.Height-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V2(float64(x)+0.5, float64(y)+0.5).Sub(c)
			if p.LenSq() > r*r {
				continue
			}
			if side := p.Dot(dir); (ahead && side <= 0) || (!ahead && side >= 0) {
				continue
			}
			fb.BlendPixel(x, y, col)
		}
	}
}

// FillPattern fills a triangle with affine texture mapping.
func (fb *Framebuffer) FillPattern(pts [3]math3d.Vec2, uvs [3]math3d.Vec2, tex *material.Texture) {
	if tex == nil || tex.Image == nil {
		return
	}
	fb.fillTriangle(pts[0], pts[1], pts[2], func(_, _, w0, w1, w2 float64) color.RGBA {
		u := uvs[0].X*w0 + uvs[1].X*w1 + uvs[2].X*w2
		v := uvs[0].Y*w0 + uvs[1].Y*w1 + uvs[2].Y*w2
		return tex.Sample(u, v)
	})
}

// FillRect fills a rotated rectangle.
func (fb *Framebuffer) FillRect(center math3d.Vec2, w, h, rotation float64, c color.RGBA) {
	fb.FillPath(rectCorners(center, w, h, rotation), c)
}

// DrawImage scales and rotates tex into the rectangle FillRect would cover.
// Only normal blending is supported for images.
func (fb *Framebuffer) DrawImage(tex *material.Texture, center math3d.Vec2, w, h, rotation float64) {
	if tex == nil || tex.Image == nil || tex.Width() == 0 || tex.Height() == 0 {
		return
	}
	sx, sy := w/float64(tex.Width()), h/float64(tex.Height())
	cos, sin := math.Cos(-rotation), math.Sin(-rotation)
	s2d := f64.Aff3{
		cos * sx, -sin * sy, center.X - cos*w/2 + sin*h/2,
		sin * sx, cos * sy, center.Y - sin*w/2 - cos*h/2,
	}
	var opts *draw.Options
	if fb.opacity < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(fb.opacity * 0xffff)})}
	}
	draw.ApproxBiLinear.Transform(fb.Img, s2d, tex.Image, tex.Image.Bounds(), draw.Over, opts)
}

// Image returns the backing image.
func (fb *Framebuffer) Image() image.Image { return fb.Img }

// ToImage returns a copy of the framebuffer contents.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Img.Rect)
	copy(img.Pix, fb.Img.Pix)
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.Img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
