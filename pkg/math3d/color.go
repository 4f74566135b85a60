package math3d

import (
	"image/color"
	"math"
)

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// RGB creates a Color from float components.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// Hex creates a Color from a 0xRRGGBB value.
func Hex(h uint32) Color {
	return Color{
		float64(h>>16&0xff) / 255,
		float64(h>>8&0xff) / 255,
		float64(h&0xff) / 255,
	}
}

// ColorFromRGBA converts an 8-bit color, ignoring alpha.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Hex returns the color as 0xRRGGBB.
func (c Color) Hex() uint32 {
	return uint32(to8(c.R))<<16 | uint32(to8(c.G))<<8 | uint32(to8(c.B))
}

// Add returns the component-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the component-wise product.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale multiplies every component by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Lerp returns the linear interpolation between c and o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		c.R + (o.R-c.R)*t,
		c.G + (o.G-c.G)*t,
		c.B + (o.B-c.B)*t,
	}
}

// RGBA8 converts to an 8-bit non-premultiplied color with the given alpha.
func (c Color) RGBA8(alpha float64) color.RGBA {
	return color.RGBA{to8(c.R), to8(c.G), to8(c.B), to8(alpha)}
}

// ApproxEqual reports whether c and o differ by at most eps per component.
func (c Color) ApproxEqual(o Color, eps float64) bool {
	return math.Abs(c.R-o.R) <= eps && math.Abs(c.G-o.G) <= eps && math.Abs(c.B-o.B) <= eps
}

func to8(v float64) uint8 {
	return uint8(math.Round(Clamp(v, 0, 1) * 255))
}
