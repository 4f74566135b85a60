package render

import (
	"image"
	"math"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/projector"
	"github.com/taigrr/vista/pkg/scene"
)

// Info counts what the last Render call painted.
type Info struct {
	Frame    int
	Objects  int
	Vertices int
	Faces    int
	Lines    int
	Sprites  int
}

// CanvasRenderer paints projected scenes back to front onto a Surface.
// There is no depth buffer; overlap is resolved by painting order alone.
type CanvasRenderer struct {
	// AutoClear clears the region painted by the previous frame before
	// each Render.
	AutoClear bool
	// SortObjects and SortElements are forwarded to the projector.
	SortObjects  bool
	SortElements bool

	Info Info

	surface   Surface
	projector *projector.Projector

	clearColor math3d.Color
	clearAlpha float64

	width, height float64
	clipBox       math3d.Box2
	clearBox      math3d.Box2
	elemBox       math3d.Box2
}

// NewCanvasRenderer creates a renderer for s. The first clear covers the
// whole surface.
func NewCanvasRenderer(s Surface) *CanvasRenderer {
	r := &CanvasRenderer{
		AutoClear:    true,
		SortObjects:  true,
		SortElements: true,
		surface:      s,
		projector:    projector.New(),
	}
	w, h := s.Size()
	r.setViewport(w, h)
	return r
}

// Surface returns the drawing target.
func (r *CanvasRenderer) Surface() Surface { return r.surface }

// Projector returns the projector used by Render.
func (r *CanvasRenderer) Projector() *projector.Projector { return r.projector }

// SetSize resizes the surface and resets the clip and clear regions.
func (r *CanvasRenderer) SetSize(width, height int) {
	r.surface.Resize(width, height)
	r.setViewport(width, height)
}

func (r *CanvasRenderer) setViewport(width, height int) {
	r.width, r.height = float64(width), float64(height)
	r.clipBox = math3d.Box2{Max: math3d.V2(r.width, r.height)}
	r.clearBox = r.clipBox
}

// SetClearColor sets the color and alpha used by Clear.
func (r *CanvasRenderer) SetClearColor(c math3d.Color, alpha float64) {
	r.clearColor = c
	r.clearAlpha = math3d.Clamp(alpha, 0, 1)
}

// ClearColor returns the clear color and alpha.
func (r *CanvasRenderer) ClearColor() (math3d.Color, float64) {
	return r.clearColor, r.clearAlpha
}

// Clear resets the area painted since the last clear, grown by two pixels
// for anti-aliased edges, to the clear color.
func (r *CanvasRenderer) Clear() {
	if r.clearBox.IsEmpty() {
		return
	}
	box := r.clearBox.Intersect(r.clipBox)
	r.clearBox = math3d.EmptyBox2()
	if box.IsEmpty() {
		return
	}
	box = box.ExpandByScalar(2)
	rect := image.Rect(
		int(math.Floor(box.Min.X)), int(math.Floor(box.Min.Y)),
		int(math.Ceil(box.Max.X)), int(math.Ceil(box.Max.Y)),
	)
	r.surface.ClearRect(rect, r.clearColor.RGBA8(r.clearAlpha))
}

// Render projects root as seen by camera and paints the result.
func (r *CanvasRenderer) Render(root, camera *scene.Node) {
	if camera == nil || camera.Camera == nil {
		diag.Warn("render: node is not a camera", "node", nodeName(camera))
		return
	}
	if r.AutoClear {
		r.Clear()
	}

	r.Info.Frame++
	r.Info.Vertices, r.Info.Faces, r.Info.Lines, r.Info.Sprites = 0, 0, 0, 0

	r.projector.SortObjects = r.SortObjects
	r.projector.SortElements = r.SortElements
	data := r.projector.ProjectScene(root, camera)
	r.Info.Objects = len(data.Objects)

	for _, e := range data.Elements {
		m := data.Material(e)
		if m == nil || m.Common().Opacity == 0 {
			continue
		}
		r.elemBox = math3d.EmptyBox2()

		switch e.Kind {
		case projector.ElementSprite:
			r.renderSprite(data.Sprite(e), m)
		case projector.ElementLine:
			l := data.Line(e)
			a, b := r.toScreen(l.V1.PositionScreen), r.toScreen(l.V2.PositionScreen)
			r.elemBox = math3d.Box2FromPoints(a, b)
			if r.clipBox.IntersectsBox(r.elemBox) {
				r.renderLine(a, b, l, m)
			}
		case projector.ElementFace:
			f := data.Face(e)
			if outsideDepth(f.V1) || outsideDepth(f.V2) || outsideDepth(f.V3) {
				continue
			}
			pts := [3]math3d.Vec2{
				r.toScreen(f.V1.PositionScreen),
				r.toScreen(f.V2.PositionScreen),
				r.toScreen(f.V3.PositionScreen),
			}
			if mb, ok := m.(*material.MeshBasic); ok && mb.Overdraw > 0 {
				expand(&pts[0], &pts[1], mb.Overdraw)
				expand(&pts[1], &pts[2], mb.Overdraw)
				expand(&pts[2], &pts[0], mb.Overdraw)
			}
			r.elemBox = math3d.Box2FromPoints(pts[:]...)
			if r.clipBox.IntersectsBox(r.elemBox) {
				r.renderFace(pts, f, m)
			}
		}

		r.clearBox = r.clearBox.Union(r.elemBox)
	}
}

func nodeName(n *scene.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name
}

func outsideDepth(v projector.RenderableVertex) bool {
	return v.PositionScreen.Z < -1 || v.PositionScreen.Z > 1
}

// toScreen maps normalized device coordinates to pixels with y down.
func (r *CanvasRenderer) toScreen(p math3d.Vec4) math3d.Vec2 {
	return math3d.V2((p.X+1)/2*r.width, (1-p.Y)/2*r.height)
}

// expand pushes v1 and v2 apart along their edge by pixels on each side,
// hiding seams between adjacent faces.
func expand(v1, v2 *math3d.Vec2, pixels float64) {
	d := v2.Sub(*v1)
	det := d.LenSq()
	if det == 0 {
		return
	}
	d = d.Scale(pixels / math.Sqrt(det))
	*v2 = v2.Add(d)
	*v1 = v1.Sub(d)
}

func (r *CanvasRenderer) applyState(m material.Material) {
	b := m.Common()
	r.surface.SetOpacity(b.Opacity)
	r.surface.SetBlending(b.Blending)
}

func baseColor(m material.Material) math3d.Color {
	if c, ok := m.(material.Colored); ok {
		return c.BaseColor()
	}
	return math3d.RGB(1, 1, 1)
}

func texture(m material.Material) *material.Texture {
	if t, ok := m.(material.Mapped); ok {
		if tex := t.Texture(); tex != nil && tex.Image != nil {
			return tex
		}
	}
	return nil
}

func (r *CanvasRenderer) renderFace(pts [3]math3d.Vec2, f *projector.RenderableFace, m material.Material) {
	r.Info.Vertices += 3
	r.Info.Faces++
	r.applyState(m)

	if tex := texture(m); tex != nil && f.HasUVs {
		r.surface.FillPattern(pts, f.UVs, tex)
		return
	}

	c := baseColor(m)
	switch m.Common().VertexColors {
	case material.ColorsFace:
		c = c.Mul(f.Color)
	case material.ColorsVertex:
		avg := f.VertexColors[0].Add(f.VertexColors[1]).Add(f.VertexColors[2]).Scale(1.0 / 3)
		c = c.Mul(avg)
	}
	rgba := c.RGBA8(1)

	if w, ok := m.(material.Wireframed); ok && w.IsWireframe() {
		st := material.Stroke{Width: 1, Cap: material.CapRound, Join: material.JoinRound}
		if s, ok := m.(material.Stroked); ok {
			st = s.Stroke()
		}
		r.surface.StrokePath(pts[:], rgba, st)
		r.elemBox = r.elemBox.ExpandByScalar(st.Width * 2)
		return
	}
	r.surface.FillPath(pts[:], rgba)
}

func (r *CanvasRenderer) renderLine(a, b math3d.Vec2, l *projector.RenderableLine, m material.Material) {
	s, ok := m.(material.Stroked)
	if !ok {
		return
	}
	r.Info.Lines++
	r.applyState(m)

	c1 := baseColor(m).RGBA8(1)
	c2 := c1
	if m.Common().VertexColors == material.ColorsVertex && l.HasVertexColors {
		c1 = l.VertexColors[0].RGBA8(1)
		c2 = l.VertexColors[1].RGBA8(1)
	}
	st := s.Stroke()
	r.surface.StrokeLine(a, b, c1, c2, st)
	r.elemBox = r.elemBox.ExpandByScalar(st.Width * 2)
}

func (r *CanvasRenderer) renderSprite(s *projector.RenderableSprite, m material.Material) {
	r.Info.Sprites++
	r.applyState(m)

	center := r.toScreen(math3d.V4(s.X, s.Y, s.Z, 1))
	w := s.Scale.X * r.width / 2
	h := s.Scale.Y * r.height / 2
	dist := math.Hypot(w, h)
	r.elemBox = math3d.Box2{
		Min: center.Sub(math3d.V2(dist, dist)),
		Max: center.Add(math3d.V2(dist, dist)),
	}
	if !r.clipBox.IntersectsBox(r.elemBox) {
		return
	}

	if tex := texture(m); tex != nil {
		r.surface.DrawImage(tex, center, w, h, s.Rotation)
		return
	}
	r.surface.FillRect(center, w, h, s.Rotation, baseColor(m).RGBA8(1))
}
