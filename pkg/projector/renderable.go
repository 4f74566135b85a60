package projector

import (
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

// RenderableObject is a node selected for projection this frame.
type RenderableObject struct {
	ID          int64
	Node        *scene.Node
	Z           float64
	RenderOrder int
}

// RenderableVertex is a vertex in model, world and screen space.
// PositionScreen holds normalized device coordinates once projected.
type RenderableVertex struct {
	Position       math3d.Vec3
	PositionWorld  math3d.Vec3
	PositionScreen math3d.Vec4
	Visible        bool
}

// RenderableFace is a projected triangle.
type RenderableFace struct {
	ID         int64
	V1, V2, V3 RenderableVertex

	// NormalModel and VertexNormalsModel are in world space.
	NormalModel         math3d.Vec3
	VertexNormalsModel  [3]math3d.Vec3
	VertexNormalsLength int

	Color        math3d.Color
	VertexColors [3]math3d.Color
	Material     material.Material

	UVs    [3]math3d.Vec2
	HasUVs bool

	Z           float64
	RenderOrder int
}

// RenderableLine is a clipped, projected segment.
type RenderableLine struct {
	ID              int64
	V1, V2          RenderableVertex
	VertexColors    [2]math3d.Color
	HasVertexColors bool
	Material        material.Material
	Z               float64
	RenderOrder     int
}

// RenderableSprite is a screen-aligned quad centered at X, Y in normalized
// device coordinates. Scale is the size of one world unit at the sprite's
// depth, in the same units, times the node scale.
type RenderableSprite struct {
	ID          int64
	Node        *scene.Node
	X, Y, Z     float64
	Rotation    float64
	Scale       math3d.Vec2
	Material    material.Material
	RenderOrder int
}

// ElementKind tells which pool an Element refers to.
type ElementKind int

const (
	ElementFace ElementKind = iota
	ElementLine
	ElementSprite
)

// Element is an entry in the paint list.
type Element struct {
	Kind        ElementKind
	Index       int
	ID          int64
	Z           float64
	RenderOrder int
}

// RenderData is the result of a projection. It is owned by the Projector
// and overwritten by the next ProjectScene.
type RenderData struct {
	Objects  []RenderableObject
	Elements []Element

	faces   *Pool[RenderableFace]
	lines   *Pool[RenderableLine]
	sprites *Pool[RenderableSprite]
}

// Face returns the face e refers to. e.Kind must be ElementFace.
func (d *RenderData) Face(e Element) *RenderableFace { return d.faces.At(e.Index) }

// Line returns the line e refers to. e.Kind must be ElementLine.
func (d *RenderData) Line(e Element) *RenderableLine { return d.lines.At(e.Index) }

// Sprite returns the sprite e refers to. e.Kind must be ElementSprite.
func (d *RenderData) Sprite(e Element) *RenderableSprite { return d.sprites.At(e.Index) }

// Material returns the material of the element.
func (d *RenderData) Material(e Element) material.Material {
	switch e.Kind {
	case ElementFace:
		return d.Face(e).Material
	case ElementLine:
		return d.Line(e).Material
	case ElementSprite:
		return d.Sprite(e).Material
	}
	return nil
}
