package geometry

import (
	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/math3d"
)

// Face3 is a triangle referencing three entries of Geometry.Vertices.
// VertexNormals and VertexColors hold either zero or three entries.
type Face3 struct {
	A, B, C       int
	Normal        math3d.Vec3
	VertexNormals []math3d.Vec3
	Color         math3d.Color
	VertexColors  []math3d.Color
	MaterialIndex int
}

// NewFace3 returns a white face over the given vertex indices.
func NewFace3(a, b, c int) Face3 {
	return Face3{A: a, B: b, C: c, Color: math3d.RGB(1, 1, 1)}
}

// Geometry is the vertex-list and face-record representation. Colors holds
// per-vertex colors for line drawing; FaceVertexUvs holds UV layers, each
// with one triple per face.
type Geometry struct {
	Name          string
	Vertices      []math3d.Vec3
	Colors        []math3d.Color
	Faces         []Face3
	FaceVertexUvs [][][3]math3d.Vec2

	box    *math3d.Box3
	sphere *math3d.Sphere
}

// New returns an empty geometry with one UV layer.
func New() *Geometry {
	return &Geometry{FaceVertexUvs: [][][3]math3d.Vec2{nil}}
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices)
}

// ComputeFaceNormals sets every face normal from its winding.
func (g *Geometry) ComputeFaceNormals() {
	for i := range g.Faces {
		f := &g.Faces[i]
		va, vb, vc := g.Vertices[f.A], g.Vertices[f.B], g.Vertices[f.C]
		f.Normal = vc.Sub(vb).Cross(va.Sub(vb)).Normalize()
	}
}

// ComputeBoundingBox recomputes the cached box.
func (g *Geometry) ComputeBoundingBox() {
	b := math3d.Box3FromPoints(g.Vertices...)
	g.box = &b
}

// ComputeBoundingSphere recomputes the cached sphere.
func (g *Geometry) ComputeBoundingSphere() {
	s := math3d.SphereFromPoints(g.Vertices...)
	g.sphere = &s
}

// BoundingBox returns the cached box, computing it on first use.
func (g *Geometry) BoundingBox() math3d.Box3 {
	if g.box == nil {
		g.ComputeBoundingBox()
	}
	return *g.box
}

// BoundingSphere returns the cached sphere, computing it on first use.
func (g *Geometry) BoundingSphere() math3d.Sphere {
	if g.sphere == nil {
		g.ComputeBoundingSphere()
	}
	return *g.sphere
}

// InvalidateBounds drops cached bounds after Vertices is edited in place.
func (g *Geometry) InvalidateBounds() {
	g.box, g.sphere = nil, nil
}

// FromBufferGeometry derives a Geometry from bg. The result is a snapshot;
// later edits to bg are not reflected.
func FromBufferGeometry(bg *BufferGeometry) *Geometry {
	g := New()
	g.Name = bg.Name

	pos := bg.Attribute(AttrPosition)
	if pos == nil {
		diag.Warn("geometry: FromBufferGeometry without position attribute", "name", bg.Name)
		return g
	}
	normals := bg.Attribute(AttrNormal)
	colors := bg.Attribute(AttrColor)
	uvs := bg.Attribute(AttrUV)

	g.Vertices = make([]math3d.Vec3, pos.Count())
	for i := range g.Vertices {
		g.Vertices[i] = pos.Vec3(i)
	}
	if colors != nil {
		g.Colors = make([]math3d.Color, colors.Count())
		for i := range g.Colors {
			g.Colors[i] = colors.Color(i)
		}
	}

	addFace := func(a, b, c, materialIndex int) {
		f := NewFace3(a, b, c)
		f.MaterialIndex = materialIndex
		if normals != nil {
			f.VertexNormals = []math3d.Vec3{normals.Vec3(a), normals.Vec3(b), normals.Vec3(c)}
		}
		if colors != nil {
			f.VertexColors = []math3d.Color{g.Colors[a], g.Colors[b], g.Colors[c]}
		}
		g.Faces = append(g.Faces, f)
		if uvs != nil {
			g.FaceVertexUvs[0] = append(g.FaceVertexUvs[0], [3]math3d.Vec2{uvs.Vec2(a), uvs.Vec2(b), uvs.Vec2(c)})
		}
	}

	vertex := func(i int) int {
		if bg.Index != nil {
			return bg.Index[i]
		}
		return i
	}
	limit := pos.Count()
	if bg.Index != nil {
		limit = len(bg.Index)
	}

	if len(bg.Groups) > 0 {
		for _, grp := range bg.Groups {
			end := min(grp.Start+grp.Count, limit)
			for j := grp.Start; j+2 < end; j += 3 {
				addFace(vertex(j), vertex(j+1), vertex(j+2), grp.MaterialIndex)
			}
		}
	} else {
		for j := 0; j+2 < limit; j += 3 {
			addFace(vertex(j), vertex(j+1), vertex(j+2), 0)
		}
	}

	g.ComputeFaceNormals()
	return g
}
