package models

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

const triangleOBJ = `# one triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// binarySTL encodes triangles as a binary STL file.
func binarySTL(tris [][9]float32) []byte {
	data := make([]byte, 80)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(tris)))
	for _, tri := range tris {
		for range 3 {
			data = binary.LittleEndian.AppendUint32(data, 0)
		}
		for _, f := range tri {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
		data = binary.LittleEndian.AppendUint16(data, 0)
	}
	return data
}

func TestLoadMeshOBJ(t *testing.T) {
	g, err := LoadMesh(writeFile(t, "tri.obj", []byte(triangleOBJ)))
	require.NoError(t, err)
	assert.Equal(t, "tri.obj", g.Name)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, math3d.V3(1, 0, 0), g.Attribute(geometry.AttrPosition).Vec3(1))

	n := g.Attribute(geometry.AttrNormal)
	require.NotNil(t, n)
	assert.True(t, n.Vec3(0).ApproxEqual(math3d.V3(0, 0, 1), 1e-9))
}

func TestLoadMeshSTL(t *testing.T) {
	path := writeFile(t, "tri.stl", binarySTL([][9]float32{{0, 0, 0, 2, 0, 0, 0, 2, 0}}))
	g, err := LoadMesh(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.VertexCount())
	box := g.BoundingBox()
	assert.Equal(t, math3d.V3(2, 2, 0), box.Max)
}

func TestLoadMeshErrors(t *testing.T) {
	_, err := LoadMesh("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadMesh("/nonexistent/model.obj")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load("scene.blend")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadWrapsMeshInNode(t *testing.T) {
	n, err := Load(writeFile(t, "tri.obj", []byte(triangleOBJ)))
	require.NoError(t, err)
	assert.Equal(t, scene.KindMesh, n.Kind)
	assert.Equal(t, "tri.obj", n.Name)
	assert.NotNil(t, n.Material)
}

func TestPrimitive(t *testing.T) {
	for _, name := range Primitives {
		t.Run(name, func(t *testing.T) {
			g, err := Primitive(name, 3)
			require.NoError(t, err)
			assert.Equal(t, name, g.Name)
			assert.Positive(t, g.VertexCount())
			assert.Zero(t, g.VertexCount()%3, "unindexed triangles")
			assert.True(t, g.HasAttribute(geometry.AttrNormal))
		})
	}

	cube, err := Primitive("cube", 0)
	require.NoError(t, err)
	assert.Equal(t, 36, cube.VertexCount())

	_, err = Primitive("teapot", 1)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFromFauxGLComputesMissingNormals(t *testing.T) {
	m := fauxgl.NewTriangleMesh([]*fauxgl.Triangle{{
		V1: fauxgl.Vertex{Position: fauxgl.Vector{X: 0, Y: 0, Z: 0}},
		V2: fauxgl.Vertex{Position: fauxgl.Vector{X: 0, Y: 0, Z: 1}},
		V3: fauxgl.Vertex{Position: fauxgl.Vector{X: 1, Y: 0, Z: 0}},
	}})
	g := FromFauxGL(m)
	n := g.Attribute(geometry.AttrNormal)
	require.NotNil(t, n)
	assert.True(t, n.Vec3(2).ApproxEqual(math3d.V3(0, 1, 0), 1e-9))
	assert.Equal(t, 3, g.Attribute(geometry.AttrUV).Count())
}
