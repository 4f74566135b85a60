package models

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

// writeTriangleGLB saves a GLB with one red, double-sided, indexed
// triangle under a translated node and returns its path.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()

	var data []byte
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2, 0} {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	doc := gltf.NewDocument()
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(data), Data: data}}
	doc.BufferViews = []*gltf.BufferView{
		{Buffer: 0, ByteOffset: 0, ByteLength: 36},
		{Buffer: 0, ByteOffset: 36, ByteLength: 6},
	}
	doc.Accessors = []*gltf.Accessor{
		{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
		{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
	}
	doc.Materials = []*gltf.Material{{
		Name:                 "red",
		DoubleSided:          true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 0.5}},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: 0},
			Indices:    gltf.Index(1),
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float64{1, 2, 3}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0)},
	}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	assert.Error(t, err)
	_, err = LoadGLTFGeometry("/nonexistent/path.glb")
	assert.Error(t, err)
}

func TestLoadGLTF(t *testing.T) {
	root, err := LoadGLTF(writeTriangleGLB(t))
	require.NoError(t, err)
	assert.Equal(t, "tri.glb", root.Name)

	parent := root.ByName("parent")
	require.NotNil(t, parent)
	assert.Equal(t, math3d.V3(1, 2, 3), parent.Position)
	assert.Equal(t, math3d.V3(1, 1, 1), parent.Scale)

	child := root.ByName("child")
	require.NotNil(t, child)
	require.Len(t, child.Children(), 1)
	mesh := child.Children()[0]
	assert.Equal(t, scene.KindMesh, mesh.Kind)
	assert.Equal(t, "tri", mesh.Name)

	g, ok := mesh.Geometry.(*geometry.BufferGeometry)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, g.Index)
	assert.Equal(t, 3, g.VertexCount())
	assert.True(t, g.HasAttribute(geometry.AttrNormal), "normals are computed when missing")

	m, ok := mesh.Material.(*material.MeshBasic)
	require.True(t, ok)
	assert.Equal(t, "red", m.Name)
	assert.Equal(t, math3d.RGB(1, 0, 0), m.Color)
	assert.Equal(t, material.Double, m.Side)
	assert.Equal(t, 0.5, m.Opacity)
}

func TestLoadGLTFGeometry(t *testing.T) {
	g, err := LoadGLTFGeometry(writeTriangleGLB(t))
	require.NoError(t, err)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, []int{0, 1, 2}, g.Index)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, geometry.Group{Start: 0, Count: 3, MaterialIndex: 0}, g.Groups[0])
}

func TestLoadDispatchesGLB(t *testing.T) {
	n, err := Load(writeTriangleGLB(t))
	require.NoError(t, err)
	assert.NotNil(t, n.ByName("child"))
}

func TestExpandIndices(t *testing.T) {
	tests := []struct {
		name    string
		mode    gltf.PrimitiveMode
		indices []int
		count   int
		want    []int
	}{
		{"triangles keep index", gltf.PrimitiveTriangles, []int{2, 1, 0}, 3, []int{2, 1, 0}},
		{"unindexed triangles", gltf.PrimitiveTriangles, nil, 3, nil},
		{"strip alternates winding", gltf.PrimitiveTriangleStrip, nil, 4, []int{0, 1, 2, 2, 1, 3}},
		{"fan", gltf.PrimitiveTriangleFan, []int{0, 1, 2, 3}, 4, []int{0, 1, 2, 0, 2, 3}},
		{"loop closes", gltf.PrimitiveLineLoop, nil, 3, []int{0, 1, 2, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, expandIndices(tc.mode, tc.indices, tc.count))
		})
	}
}

func TestReadUint(t *testing.T) {
	assert.Equal(t, uint32(0x7f), readUint([]byte{0x7f}, 1))
	assert.Equal(t, uint32(0x0102), readUint([]byte{0x02, 0x01}, 2))
	assert.Equal(t, uint32(0x01020304), readUint([]byte{0x04, 0x03, 0x02, 0x01}, 4))
	assert.Equal(t, float32(1), readFloat32(binary.LittleEndian.AppendUint32(nil, math.Float32bits(1))))
}
