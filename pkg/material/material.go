// Package material describes how projected primitives are painted.
//
// Materials are plain structs sharing an embedded Base. Renderers discover
// optional capabilities through the small Colored, Mapped, Wireframed and
// Stroked interfaces.
package material

import (
	"sync/atomic"

	"github.com/taigrr/vista/pkg/math3d"
)

// Side selects which triangle windings are drawn.
type Side int

const (
	Front Side = iota
	Back
	Double
)

// Blending is the compositing mode used when painting.
type Blending int

const (
	BlendNone Blending = iota
	BlendNormal
	BlendAdditive
	BlendSubtractive
	BlendMultiply
)

// ColorMode selects where face and line colors come from.
type ColorMode int

const (
	ColorsNone   ColorMode = iota // material color
	ColorsFace                    // one color per face
	ColorsVertex                  // one color per vertex
)

// LineCap is the shape drawn at the ends of stroked lines.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

// LineJoin is the shape drawn where stroked segments meet.
type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinMiter
	JoinBevel
)

// Kind identifies the concrete material type.
type Kind int

const (
	KindMeshBasic Kind = iota
	KindLineBasic
	KindSprite
	KindPoints
)

func (k Kind) String() string {
	switch k {
	case KindMeshBasic:
		return "MeshBasic"
	case KindLineBasic:
		return "LineBasic"
	case KindSprite:
		return "Sprite"
	case KindPoints:
		return "Points"
	}
	return "Unknown"
}

var nextID atomic.Int64

// Base holds the attributes every material shares.
type Base struct {
	ID           int64
	Name         string
	Side         Side
	Blending     Blending
	Opacity      float64
	Transparent  bool
	VertexColors ColorMode
	Visible      bool
}

func newBase() Base {
	return Base{
		ID:       nextID.Add(1),
		Side:     Front,
		Blending: BlendNormal,
		Opacity:  1,
		Visible:  true,
	}
}

// Common returns the shared attributes.
func (b *Base) Common() *Base { return b }

// Material is implemented by every material type.
type Material interface {
	Common() *Base
	Kind() Kind
}

// Colored materials have a base color.
type Colored interface {
	Material
	BaseColor() math3d.Color
}

// Mapped materials may carry a texture.
type Mapped interface {
	Material
	Texture() *Texture
}

// Wireframed materials may be drawn as outlines only.
type Wireframed interface {
	Material
	IsWireframe() bool
}

// Stroke describes how lines are stroked.
type Stroke struct {
	Width float64
	Cap   LineCap
	Join  LineJoin
}

// Stroked materials carry line styling.
type Stroked interface {
	Material
	Stroke() Stroke
}

// MeshBasic paints faces with a flat color, per-face or per-vertex colors,
// or a texture map.
type MeshBasic struct {
	Base
	Color              math3d.Color
	Map                *Texture
	Wireframe          bool
	WireframeLinewidth float64
	WireframeLinecap   LineCap
	WireframeLinejoin  LineJoin
	// Overdraw grows each painted triangle by this many pixels to hide
	// seams between neighbors.
	Overdraw float64
}

// NewMeshBasic returns a white mesh material.
func NewMeshBasic() *MeshBasic {
	return &MeshBasic{
		Base:               newBase(),
		Color:              math3d.RGB(1, 1, 1),
		WireframeLinewidth: 1,
	}
}

func (m *MeshBasic) Kind() Kind               { return KindMeshBasic }
func (m *MeshBasic) BaseColor() math3d.Color { return m.Color }
func (m *MeshBasic) Texture() *Texture       { return m.Map }
func (m *MeshBasic) IsWireframe() bool       { return m.Wireframe }

// Stroke returns the wireframe stroke.
func (m *MeshBasic) Stroke() Stroke {
	return Stroke{Width: m.WireframeLinewidth, Cap: m.WireframeLinecap, Join: m.WireframeLinejoin}
}

// LineBasic strokes line segments.
type LineBasic struct {
	Base
	Color     math3d.Color
	Linewidth float64
	Linecap   LineCap
	Linejoin  LineJoin
}

// NewLineBasic returns a white, one pixel wide line material.
func NewLineBasic() *LineBasic {
	return &LineBasic{Base: newBase(), Color: math3d.RGB(1, 1, 1), Linewidth: 1}
}

func (m *LineBasic) Kind() Kind               { return KindLineBasic }
func (m *LineBasic) BaseColor() math3d.Color { return m.Color }

// Stroke returns the line stroke.
func (m *LineBasic) Stroke() Stroke {
	return Stroke{Width: m.Linewidth, Cap: m.Linecap, Join: m.Linejoin}
}

// SpriteMaterial paints a screen-aligned quad, optionally textured.
// Rotation is in radians around the view axis.
type SpriteMaterial struct {
	Base
	Color    math3d.Color
	Map      *Texture
	Rotation float64
}

// NewSprite returns a white sprite material.
func NewSprite() *SpriteMaterial {
	return &SpriteMaterial{Base: newBase(), Color: math3d.RGB(1, 1, 1)}
}

func (m *SpriteMaterial) Kind() Kind               { return KindSprite }
func (m *SpriteMaterial) BaseColor() math3d.Color { return m.Color }
func (m *SpriteMaterial) Texture() *Texture       { return m.Map }

// PointsMaterial paints one square per vertex of a points node. Size is a
// world-space scale applied like a sprite scale.
type PointsMaterial struct {
	Base
	Color math3d.Color
	Map   *Texture
	Size  float64
}

// NewPoints returns a white points material of size 1.
func NewPoints() *PointsMaterial {
	return &PointsMaterial{Base: newBase(), Color: math3d.RGB(1, 1, 1), Size: 1}
}

func (m *PointsMaterial) Kind() Kind               { return KindPoints }
func (m *PointsMaterial) BaseColor() math3d.Color { return m.Color }
func (m *PointsMaterial) Texture() *Texture       { return m.Map }
