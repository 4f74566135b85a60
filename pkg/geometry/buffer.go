// Package geometry holds vertex data for scene nodes.
//
// BufferGeometry is the primary storage: flat float64 arrays keyed by
// attribute name, an optional index and draw groups. Geometry is the
// indexed-face form that can be derived from it once.
package geometry

import (
	"maps"
	"math"
	"slices"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/math3d"
)

// Attribute names consumed by the projector.
const (
	AttrPosition = "position"
	AttrNormal   = "normal"
	AttrUV       = "uv"
	AttrColor    = "color"
)

// Bounded is implemented by both geometry representations so scene nodes
// can hold either.
type Bounded interface {
	BoundingBox() math3d.Box3
	BoundingSphere() math3d.Sphere
	VertexCount() int
}

// BufferAttribute is a flat array interpreted as Count() items of ItemSize
// components each.
type BufferAttribute struct {
	Array    []float64
	ItemSize int
}

// NewBufferAttribute wraps array as an attribute with itemSize components
// per vertex.
func NewBufferAttribute(array []float64, itemSize int) *BufferAttribute {
	return &BufferAttribute{Array: array, ItemSize: itemSize}
}

// Count returns the number of items.
func (a *BufferAttribute) Count() int {
	if a == nil || a.ItemSize == 0 {
		return 0
	}
	return len(a.Array) / a.ItemSize
}

// component returns component c of item i, or 0 when the item has fewer
// than c+1 components.
func (a *BufferAttribute) component(i, c int) float64 {
	if c >= a.ItemSize {
		return 0
	}
	return a.Array[i*a.ItemSize+c]
}

// Vec2 returns item i as a Vec2. Missing components read as 0.
func (a *BufferAttribute) Vec2(i int) math3d.Vec2 {
	return math3d.V2(a.component(i, 0), a.component(i, 1))
}

// Vec3 returns item i as a Vec3. Missing components read as 0.
func (a *BufferAttribute) Vec3(i int) math3d.Vec3 {
	return math3d.V3(a.component(i, 0), a.component(i, 1), a.component(i, 2))
}

// Color returns item i as an RGB color. Missing channels read as 0.
func (a *BufferAttribute) Color(i int) math3d.Color {
	return math3d.RGB(a.component(i, 0), a.component(i, 1), a.component(i, 2))
}

// SetVec3 overwrites item i. Components past ItemSize are dropped.
func (a *BufferAttribute) SetVec3(i int, v math3d.Vec3) {
	o := i * a.ItemSize
	for c, x := range [3]float64{v.X, v.Y, v.Z} {
		if c >= a.ItemSize {
			break
		}
		a.Array[o+c] = x
	}
}

// Clone returns a deep copy.
func (a *BufferAttribute) Clone() *BufferAttribute {
	return &BufferAttribute{Array: append([]float64(nil), a.Array...), ItemSize: a.ItemSize}
}

// Group is a range of indices (or vertices, when unindexed) drawn with
// one entry of a multi-material list.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

// BufferGeometry stores vertex attributes as flat arrays.
type BufferGeometry struct {
	Name   string
	Index  []int
	Groups []Group

	attributes map[string]*BufferAttribute
	box        *math3d.Box3
	sphere     *math3d.Sphere
}

// NewBufferGeometry returns an empty geometry.
func NewBufferGeometry() *BufferGeometry {
	return &BufferGeometry{attributes: make(map[string]*BufferAttribute)}
}

// SetAttribute stores attr under name and drops cached bounds.
func (g *BufferGeometry) SetAttribute(name string, attr *BufferAttribute) *BufferGeometry {
	if g.attributes == nil {
		g.attributes = make(map[string]*BufferAttribute)
	}
	g.attributes[name] = attr
	if name == AttrPosition {
		g.box, g.sphere = nil, nil
	}
	return g
}

// Attribute returns the named attribute or nil.
func (g *BufferGeometry) Attribute(name string) *BufferAttribute {
	return g.attributes[name]
}

// HasAttribute reports whether the named attribute is present.
func (g *BufferGeometry) HasAttribute(name string) bool {
	_, ok := g.attributes[name]
	return ok
}

// DeleteAttribute removes the named attribute.
func (g *BufferGeometry) DeleteAttribute(name string) {
	delete(g.attributes, name)
	if name == AttrPosition {
		g.box, g.sphere = nil, nil
	}
}

// SetIndex sets the triangle or segment index list. nil makes the geometry
// unindexed.
func (g *BufferGeometry) SetIndex(index []int) *BufferGeometry {
	g.Index = index
	return g
}

// AddGroup appends a draw group.
func (g *BufferGeometry) AddGroup(start, count, materialIndex int) {
	g.Groups = append(g.Groups, Group{Start: start, Count: count, MaterialIndex: materialIndex})
}

// ClearGroups removes every draw group.
func (g *BufferGeometry) ClearGroups() {
	g.Groups = nil
}

// VertexCount returns the number of positions.
func (g *BufferGeometry) VertexCount() int {
	return g.attributes[AttrPosition].Count()
}

// ComputeBoundingBox recomputes the cached box from the position attribute.
func (g *BufferGeometry) ComputeBoundingBox() {
	pos := g.attributes[AttrPosition]
	if pos == nil {
		diag.Warn("geometry: ComputeBoundingBox without position attribute", "name", g.Name)
	}
	b := math3d.EmptyBox3()
	for i := range pos.Count() {
		b = b.ExpandByPoint(pos.Vec3(i))
	}
	g.box = &b
}

// ComputeBoundingSphere recomputes the cached sphere, centered on the
// bounding box.
func (g *BufferGeometry) ComputeBoundingSphere() {
	pos := g.attributes[AttrPosition]
	if pos == nil {
		diag.Warn("geometry: ComputeBoundingSphere without position attribute", "name", g.Name)
		s := math3d.Sphere{Radius: -1}
		g.sphere = &s
		return
	}
	center := g.BoundingBox().Center()
	var maxSq float64
	for i := range pos.Count() {
		maxSq = max(maxSq, pos.Vec3(i).Sub(center).LenSq())
	}
	s := math3d.Sphere{Center: center}
	s.Radius = math.Sqrt(maxSq)
	g.sphere = &s
}

// BoundingBox returns the cached box, computing it on first use.
func (g *BufferGeometry) BoundingBox() math3d.Box3 {
	if g.box == nil {
		g.ComputeBoundingBox()
	}
	return *g.box
}

// BoundingSphere returns the cached sphere, computing it on first use.
func (g *BufferGeometry) BoundingSphere() math3d.Sphere {
	if g.sphere == nil {
		g.ComputeBoundingSphere()
	}
	return *g.sphere
}

// ComputeVertexNormals replaces the normal attribute with area-weighted
// smooth normals. Unindexed triangles get flat normals.
func (g *BufferGeometry) ComputeVertexNormals() {
	pos := g.attributes[AttrPosition]
	if pos == nil {
		diag.Warn("geometry: ComputeVertexNormals without position attribute", "name", g.Name)
		return
	}

	normals := make([]math3d.Vec3, pos.Count())
	accumulate := func(a, b, c int) {
		pa, pb, pc := pos.Vec3(a), pos.Vec3(b), pos.Vec3(c)
		n := pc.Sub(pb).Cross(pa.Sub(pb))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}

	if g.Index != nil {
		for i := 0; i+2 < len(g.Index); i += 3 {
			accumulate(g.Index[i], g.Index[i+1], g.Index[i+2])
		}
	} else {
		for i := 0; i+2 < pos.Count(); i += 3 {
			accumulate(i, i+1, i+2)
		}
	}

	arr := make([]float64, 0, len(normals)*3)
	for _, n := range normals {
		n = n.Normalize()
		arr = append(arr, n.X, n.Y, n.Z)
	}
	g.SetAttribute(AttrNormal, NewBufferAttribute(arr, 3))
}

// Clone returns a deep copy of the geometry.
func (g *BufferGeometry) Clone() *BufferGeometry {
	c := &BufferGeometry{
		Name:       g.Name,
		Index:      slices.Clone(g.Index),
		Groups:     slices.Clone(g.Groups),
		attributes: make(map[string]*BufferAttribute, len(g.attributes)),
	}
	for name, attr := range g.attributes {
		c.attributes[name] = attr.Clone()
	}
	return c
}

// AttributeNames returns the sorted names of the stored attributes.
func (g *BufferGeometry) AttributeNames() []string {
	return slices.Sorted(maps.Keys(g.attributes))
}
