// Package models loads geometry and scene hierarchies from asset files and
// builds primitive shapes.
package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/scene"
)

// ErrUnsupportedFormat is returned for file extensions and primitive names
// no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Load loads path into a node. glTF and GLB files keep their hierarchy;
// OBJ, STL and PLY files become a single mesh with a white MeshBasic
// material.
func Load(path string) (*scene.Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	g, err := LoadMesh(path)
	if err != nil {
		return nil, err
	}
	n := scene.NewMesh(g, material.NewMeshBasic())
	n.Name = filepath.Base(path)
	return n, nil
}

// LoadMesh loads an OBJ, STL or PLY file as unindexed triangle geometry.
func LoadMesh(path string) (*geometry.BufferGeometry, error) {
	var (
		m   *fauxgl.Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		m, err = fauxgl.LoadOBJ(path)
	case ".stl":
		m, err = fauxgl.LoadSTL(path)
	case ".ply":
		m, err = fauxgl.LoadPLY(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	g := FromFauxGL(m)
	g.Name = filepath.Base(path)
	return g, nil
}

// Primitives lists the names Primitive accepts.
var Primitives = []string{"cube", "sphere", "plane", "cylinder", "cone"}

// maxSphereDetail caps icosphere subdivision; each level quadruples the
// triangle count.
const maxSphereDetail = 6

// Primitive builds a named shape. detail is the subdivision level for
// spheres (1 to 6) and the number of radial steps for cylinders and cones
// (at least 3). Out of range values are clamped.
func Primitive(name string, detail int) (*geometry.BufferGeometry, error) {
	var m *fauxgl.Mesh
	switch strings.ToLower(name) {
	case "cube", "box":
		m = fauxgl.NewCube()
	case "sphere":
		m = fauxgl.NewSphere(min(max(detail, 1), maxSphereDetail))
	case "plane":
		m = fauxgl.NewPlane()
	case "cylinder":
		m = fauxgl.NewCylinder(max(detail, 3), true)
	case "cone":
		m = fauxgl.NewCone(max(detail, 3), true)
	default:
		return nil, fmt.Errorf("%w: primitive %q", ErrUnsupportedFormat, name)
	}
	g := FromFauxGL(m)
	g.Name = name
	return g, nil
}

// FromFauxGL converts the triangles of m into unindexed geometry with
// positions, normals and UVs. Normals are recomputed when the source has
// none.
func FromFauxGL(m *fauxgl.Mesh) *geometry.BufferGeometry {
	n := len(m.Triangles) * 3
	positions := make([]float64, 0, n*3)
	normals := make([]float64, 0, n*3)
	uvs := make([]float64, 0, n*2)
	hasNormals := false

	for _, t := range m.Triangles {
		for _, v := range [3]fauxgl.Vertex{t.V1, t.V2, t.V3} {
			positions = append(positions, v.Position.X, v.Position.Y, v.Position.Z)
			normals = append(normals, v.Normal.X, v.Normal.Y, v.Normal.Z)
			uvs = append(uvs, v.Texture.X, v.Texture.Y)
			if v.Normal != (fauxgl.Vector{}) {
				hasNormals = true
			}
		}
	}

	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute(positions, 3))
	g.SetAttribute(geometry.AttrUV, geometry.NewBufferAttribute(uvs, 2))
	if hasNormals {
		g.SetAttribute(geometry.AttrNormal, geometry.NewBufferAttribute(normals, 3))
	} else {
		g.ComputeVertexNormals()
	}
	return g
}
