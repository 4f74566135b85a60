package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
)

// GGSurface is an anti-aliased Surface drawn with gogpu/gg. Non-normal
// blending and partial opacity are composited through layers.
type GGSurface struct {
	dc       *gg.Context
	blending material.Blending
	opacity  float64
	images   map[*material.Texture]*gg.ImageBuf
}

var _ Surface = (*GGSurface)(nil)

// NewGGSurface creates a transparent surface of the given size.
func NewGGSurface(width, height int) *GGSurface {
	return &GGSurface{
		dc:       gg.NewContext(max(width, 1), max(height, 1)),
		blending: material.BlendNormal,
		opacity:  1,
		images:   make(map[*material.Texture]*gg.ImageBuf),
	}
}

// Context exposes the underlying drawing context.
func (s *GGSurface) Context() *gg.Context { return s.dc }

func (s *GGSurface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

// Resize replaces the drawing context. Existing contents are discarded.
func (s *GGSurface) Resize(width, height int) {
	if err := s.dc.Close(); err != nil {
		diag.Warn("closing gg context", "err", err)
	}
	s.dc = gg.NewContext(max(width, 1), max(height, 1))
}

func (s *GGSurface) SetBlending(b material.Blending) { s.blending = b }

func (s *GGSurface) SetOpacity(alpha float64) { s.opacity = math3d.Clamp(alpha, 0, 1) }

// ClearRect clears the whole canvas. The renderer's clear region always
// covers everything painted since the previous clear, so nothing visible
// is lost.
func (s *GGSurface) ClearRect(_ image.Rectangle, c color.RGBA) {
	s.dc.ClearWithColor(toGG(c))
}

// blendMode maps material blending onto the closest gg layer mode.
// Additive becomes screen and subtractive becomes multiply.
func blendMode(b material.Blending) gg.BlendMode {
	switch b {
	case material.BlendAdditive:
		return gg.BlendScreen
	case material.BlendMultiply, material.BlendSubtractive:
		return gg.BlendMultiply
	default:
		return gg.BlendNormal
	}
}

// composite runs draw inside a layer when the compositing state needs one.
func (s *GGSurface) composite(draw func()) {
	if s.opacity >= 1 && (s.blending == material.BlendNormal || s.blending == material.BlendNone) {
		draw()
		return
	}
	s.dc.PushLayer(blendMode(s.blending), s.opacity)
	draw()
	s.dc.PopLayer()
}

func (s *GGSurface) path(pts []math3d.Vec2) {
	s.dc.ClearPath()
	for i, p := range pts {
		if i == 0 {
			s.dc.MoveTo(p.X, p.Y)
		} else {
			s.dc.LineTo(p.X, p.Y)
		}
	}
}

func (s *GGSurface) fill() {
	if err := s.dc.Fill(); err != nil {
		diag.Warn("gg fill", "err", err)
	}
}

func (s *GGSurface) stroke(st material.Stroke) {
	s.dc.SetLineWidth(st.Width)
	s.dc.SetLineCap(lineCap(st.Cap))
	s.dc.SetLineJoin(lineJoin(st.Join))
	if err := s.dc.Stroke(); err != nil {
		diag.Warn("gg stroke", "err", err)
	}
}

func (s *GGSurface) FillPath(pts []math3d.Vec2, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	s.composite(func() {
		s.path(pts)
		s.dc.ClosePath()
		s.dc.SetFillBrush(gg.Solid(toGG(c)))
		s.fill()
	})
}

func (s *GGSurface) StrokePath(pts []math3d.Vec2, c color.RGBA, st material.Stroke) {
	if len(pts) < 2 {
		return
	}
	s.composite(func() {
		s.path(pts)
		s.dc.ClosePath()
		s.dc.SetStrokeBrush(gg.Solid(toGG(c)))
		s.stroke(st)
	})
}

func (s *GGSurface) StrokeLine(a, b math3d.Vec2, ca, cb color.RGBA, st material.Stroke) {
	s.composite(func() {
		s.path([]math3d.Vec2{a, b})
		if ca == cb {
			s.dc.SetStrokeBrush(gg.Solid(toGG(ca)))
		} else {
			s.dc.SetStrokeBrush(gg.NewLinearGradientBrush(a.X, a.Y, b.X, b.Y).
				AddColorStop(0, toGG(ca)).
				AddColorStop(1, toGG(cb)))
		}
		s.stroke(st)
	})
}

// FillPattern fills the triangle with a brush that maps every pixel back
// to texture coordinates.
func (s *GGSurface) FillPattern(pts [3]math3d.Vec2, uvs [3]math3d.Vec2, tex *material.Texture) {
	if tex == nil || tex.Image == nil {
		return
	}
	brush := gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		w0, w1, w2, ok := barycentric(pts[0], pts[1], pts[2], math3d.V2(x, y))
		if !ok {
			return gg.Transparent
		}
		u := uvs[0].X*w0 + uvs[1].X*w1 + uvs[2].X*w2
		v := uvs[0].Y*w0 + uvs[1].Y*w1 + uvs[2].Y*w2
		return toGG(tex.Sample(u, v))
	})
	s.composite(func() {
		s.path(pts[:])
		s.dc.ClosePath()
		s.dc.SetFillBrush(brush)
		s.fill()
	})
}

func (s *GGSurface) FillRect(center math3d.Vec2, w, h, rotation float64, c color.RGBA) {
	s.FillPath(rectCorners(center, w, h, rotation), c)
}

func (s *GGSurface) DrawImage(tex *material.Texture, center math3d.Vec2, w, h, rotation float64) {
	if tex == nil || tex.Image == nil {
		return
	}
	buf, ok := s.images[tex]
	if !ok {
		buf = gg.ImageBufFromImage(tex.Image)
		s.images[tex] = buf
	}
	s.dc.Push()
	s.dc.Translate(center.X, center.Y)
	s.dc.Rotate(-rotation)
	s.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         -w / 2,
		Y:         -h / 2,
		DstWidth:  w,
		DstHeight: h,
		Opacity:   s.opacity,
		BlendMode: blendMode(s.blending),
	})
	s.dc.Pop()
}

func (s *GGSurface) Image() image.Image { return s.dc.Image() }

// SavePNG writes the surface to path.
func (s *GGSurface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func toGG(c color.RGBA) gg.RGBA {
	return gg.RGBA{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: float64(c.A) / 255}
}

func lineCap(c material.LineCap) gg.LineCap {
	switch c {
	case material.CapButt:
		return gg.LineCapButt
	case material.CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapRound
	}
}

func lineJoin(j material.LineJoin) gg.LineJoin {
	switch j {
	case material.JoinMiter:
		return gg.LineJoinMiter
	case material.JoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinRound
	}
}
