package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vista/pkg/math3d"
)

func quad() *BufferGeometry {
	g := NewBufferGeometry()
	g.SetAttribute(AttrPosition, NewBufferAttribute([]float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, 3))
	g.SetAttribute(AttrUV, NewBufferAttribute([]float64{0, 0, 1, 0, 1, 1, 0, 1}, 2))
	g.SetIndex([]int{0, 1, 2, 0, 2, 3})
	return g
}

func TestBufferAttribute(t *testing.T) {
	a := NewBufferAttribute([]float64{1, 2, 3, 4, 5, 6}, 3)
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, math3d.V3(4, 5, 6), a.Vec3(1))

	a.SetVec3(0, math3d.V3(9, 8, 7))
	assert.Equal(t, []float64{9, 8, 7, 4, 5, 6}, a.Array)

	c := a.Clone()
	c.Array[0] = 0
	assert.Equal(t, 9.0, a.Array[0], "clone must not alias")

	var missing *BufferAttribute
	assert.Equal(t, 0, missing.Count())
}

func TestBufferAttributeShortItems(t *testing.T) {
	a := NewBufferAttribute([]float64{1, 2, 3, 4}, 2)
	assert.Equal(t, math3d.V3(3, 4, 0), a.Vec3(1))
	assert.Equal(t, math3d.RGB(1, 2, 0), a.Color(0))

	a.SetVec3(1, math3d.V3(7, 8, 9))
	assert.Equal(t, []float64{1, 2, 7, 8}, a.Array)

	flat := NewBufferGeometry()
	flat.SetAttribute(AttrPosition, NewBufferAttribute([]float64{0, 0, 2, 0, 0, 1}, 2))
	box := flat.BoundingBox()
	assert.Equal(t, math3d.V3(2, 1, 0), box.Max)

	g := FromBufferGeometry(flat)
	require.Len(t, g.Faces, 1)
	assert.Equal(t, math3d.V3(0, 0, 1), g.Faces[0].Normal)
}

func TestBufferGeometryBounds(t *testing.T) {
	g := quad()
	assert.Equal(t, 4, g.VertexCount())

	box := g.BoundingBox()
	assert.Equal(t, math3d.V3(0, 0, 0), box.Min)
	assert.Equal(t, math3d.V3(1, 1, 0), box.Max)

	s := g.BoundingSphere()
	assert.Equal(t, math3d.V3(0.5, 0.5, 0), s.Center)
	assert.InDelta(t, 0.7071067811865476, s.Radius, 1e-12)

	// Replacing positions drops the cached bounds.
	g.SetAttribute(AttrPosition, NewBufferAttribute([]float64{0, 0, 0, 4, 0, 0, 0, 4, 0}, 3))
	assert.Equal(t, math3d.V3(4, 4, 0), g.BoundingBox().Max)
}

func TestComputeVertexNormals(t *testing.T) {
	g := quad()
	g.ComputeVertexNormals()

	n := g.Attribute(AttrNormal)
	require.NotNil(t, n)
	for i := range n.Count() {
		assert.True(t, n.Vec3(i).ApproxEqual(math3d.V3(0, 0, 1), 1e-12), "normal %d = %v", i, n.Vec3(i))
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := quad()
	g.AddGroup(0, 6, 1)
	c := g.Clone()

	c.Attribute(AttrPosition).Array[0] = 42
	c.Index[0] = 3
	c.Groups[0].MaterialIndex = 7

	assert.Equal(t, 0.0, g.Attribute(AttrPosition).Array[0])
	assert.Equal(t, 0, g.Index[0])
	assert.Equal(t, 1, g.Groups[0].MaterialIndex)
	assert.Equal(t, []string{AttrPosition, AttrUV}, g.AttributeNames())
}

func TestFromBufferGeometry(t *testing.T) {
	bg := quad()
	bg.SetAttribute(AttrColor, NewBufferAttribute([]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 1, 1,
	}, 3))
	bg.AddGroup(0, 3, 0)
	bg.AddGroup(3, 3, 1)

	g := FromBufferGeometry(bg)
	require.Len(t, g.Vertices, 4)
	require.Len(t, g.Faces, 2)

	f := g.Faces[1]
	assert.Equal(t, [3]int{0, 2, 3}, [3]int{f.A, f.B, f.C})
	assert.Equal(t, 1, f.MaterialIndex)
	assert.True(t, f.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-12))
	assert.Equal(t, []math3d.Color{{R: 1}, {B: 1}, {R: 1, G: 1, B: 1}}, f.VertexColors)
	assert.Empty(t, f.VertexNormals)

	require.Len(t, g.FaceVertexUvs[0], 2)
	assert.Equal(t, [3]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, g.FaceVertexUvs[0][1])

	// The conversion is a snapshot.
	bg.Attribute(AttrPosition).Array[0] = 99
	assert.Equal(t, 0.0, g.Vertices[0].X)
}

func TestFromBufferGeometryUnindexed(t *testing.T) {
	bg := NewBufferGeometry()
	bg.SetAttribute(AttrPosition, NewBufferAttribute([]float64{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		0, 0, 1, 1, 0, 1, 0, 1, 1,
	}, 3))

	g := FromBufferGeometry(bg)
	assert.Len(t, g.Faces, 2)
	assert.Equal(t, 3, g.Faces[1].A)
	assert.Empty(t, g.FaceVertexUvs[0])
}

func TestFromBufferGeometryWithoutPositions(t *testing.T) {
	g := FromBufferGeometry(NewBufferGeometry())
	assert.Empty(t, g.Vertices)
	assert.Empty(t, g.Faces)
}
