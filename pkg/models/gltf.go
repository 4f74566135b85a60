package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

// LoadGLTF loads a glTF or GLB file as a node hierarchy under a group named
// after the file. Node transforms, mesh primitives and base color
// materials are carried over; lighting terms are ignored.
func LoadGLTF(path string) (*scene.Node, error) {
	r, err := openGLTF(path)
	if err != nil {
		return nil, err
	}

	root := scene.NewGroup()
	root.Name = filepath.Base(path)
	for _, i := range r.rootNodes() {
		n, err := r.node(i, 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// LoadGLTFGeometry merges every triangle primitive in the file into one
// geometry with a group per primitive. Node transforms are not applied.
func LoadGLTFGeometry(path string) (*geometry.BufferGeometry, error) {
	r, err := openGLTF(path)
	if err != nil {
		return nil, err
	}

	var merged meshData
	group := 0
	for _, m := range r.doc.Meshes {
		for _, p := range m.Primitives {
			if _, ok := p.Attributes[gltf.POSITION]; !ok || !isTriangles(p.Mode) {
				continue
			}
			d, err := r.primitive(p)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
			if d.index == nil {
				d.index = sequence(len(d.positions) / 3)
			}
			start := len(merged.index)
			merged.append(d)
			merged.groups = append(merged.groups, geometry.Group{Start: start, Count: len(merged.index) - start, MaterialIndex: group})
			group++
		}
	}
	g := merged.geometry()
	g.Name = filepath.Base(path)
	if !g.HasAttribute(geometry.AttrNormal) {
		g.ComputeVertexNormals()
	}
	return g, nil
}

type gltfReader struct {
	doc       *gltf.Document
	dir       string
	materials map[int]material.Material
	textures  map[int]*material.Texture
}

func openGLTF(path string) (*gltfReader, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return &gltfReader{
		doc:       doc,
		dir:       filepath.Dir(path),
		materials: make(map[int]material.Material),
		textures:  make(map[int]*material.Texture),
	}, nil
}

// rootNodes returns the nodes of the default scene, or every node that is
// nobody's child when the file has no scenes.
func (r *gltfReader) rootNodes() []int {
	if len(r.doc.Scenes) > 0 {
		s := 0
		if r.doc.Scene != nil && *r.doc.Scene < len(r.doc.Scenes) {
			s = *r.doc.Scene
		}
		return r.doc.Scenes[s].Nodes
	}
	child := make(map[int]bool)
	for _, n := range r.doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range r.doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// maxNodeDepth bounds recursion on malformed files with cyclic children.
const maxNodeDepth = 256

func (r *gltfReader) node(i, depth int) (*scene.Node, error) {
	if i < 0 || i >= len(r.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", i)
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("node %d: hierarchy deeper than %d", i, maxNodeDepth)
	}
	gn := r.doc.Nodes[i]

	n := scene.NewGroup()
	n.Name = gn.Name
	if m := math3d.Mat4(gn.MatrixOrDefault()); m != math3d.Identity() {
		n.ApplyMatrix(m)
	} else {
		t, q, s := gn.TranslationOrDefault(), gn.RotationOrDefault(), gn.ScaleOrDefault()
		n.Position = math3d.V3(t[0], t[1], t[2])
		n.Quaternion = math3d.Q(q[0], q[1], q[2], q[3])
		n.Scale = math3d.V3(s[0], s[1], s[2])
	}

	if gn.Mesh != nil {
		if *gn.Mesh >= len(r.doc.Meshes) {
			return nil, fmt.Errorf("node %q: mesh index %d out of range", gn.Name, *gn.Mesh)
		}
		m := r.doc.Meshes[*gn.Mesh]
		for pi, p := range m.Primitives {
			child, err := r.primitiveNode(p)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			if child == nil {
				continue
			}
			child.Name = m.Name
			n.Add(child)
		}
	}

	for _, c := range gn.Children {
		child, err := r.node(c, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func isTriangles(mode gltf.PrimitiveMode) bool {
	return mode == gltf.PrimitiveTriangles || mode == gltf.PrimitiveTriangleStrip || mode == gltf.PrimitiveTriangleFan
}

// primitiveNode converts one primitive into a mesh, line or points node.
// Primitives without positions are skipped.
func (r *gltfReader) primitiveNode(p *gltf.Primitive) (*scene.Node, error) {
	if _, ok := p.Attributes[gltf.POSITION]; !ok {
		diag.Warn("gltf primitive without positions skipped")
		return nil, nil
	}
	d, err := r.primitive(p)
	if err != nil {
		return nil, err
	}
	g := d.geometry()

	switch p.Mode {
	case gltf.PrimitiveLines:
		m := r.lineMaterial(p.Material)
		return scene.NewLineSegments(g, m), nil
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		return scene.NewLine(g, r.lineMaterial(p.Material)), nil
	case gltf.PrimitivePoints:
		pm := material.NewPoints()
		pm.Color = r.baseColor(p.Material)
		return scene.NewPoints(g, pm), nil
	default:
		if !g.HasAttribute(geometry.AttrNormal) {
			g.ComputeVertexNormals()
		}
		m, err := r.material(p.Material)
		if err != nil {
			return nil, err
		}
		return scene.NewMesh(g, m), nil
	}
}

// meshData accumulates flat attribute arrays before they become a
// BufferGeometry.
type meshData struct {
	positions, normals, uvs, colors []float64
	index                           []int
	groups                          []geometry.Group
}

func (d *meshData) append(o meshData) {
	base := len(d.positions) / 3
	d.positions = append(d.positions, o.positions...)
	d.normals = append(d.normals, o.normals...)
	d.uvs = append(d.uvs, o.uvs...)
	d.colors = append(d.colors, o.colors...)
	for _, i := range o.index {
		d.index = append(d.index, base+i)
	}
}

func (d meshData) geometry() *geometry.BufferGeometry {
	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute(d.positions, 3))
	count := len(d.positions) / 3
	if len(d.normals) == count*3 && count > 0 {
		g.SetAttribute(geometry.AttrNormal, geometry.NewBufferAttribute(d.normals, 3))
	}
	if len(d.uvs) == count*2 && count > 0 {
		g.SetAttribute(geometry.AttrUV, geometry.NewBufferAttribute(d.uvs, 2))
	}
	if len(d.colors) == count*3 && count > 0 {
		g.SetAttribute(geometry.AttrColor, geometry.NewBufferAttribute(d.colors, 3))
	}
	if d.index != nil {
		g.SetIndex(d.index)
	}
	for _, gr := range d.groups {
		g.AddGroup(gr.Start, gr.Count, gr.MaterialIndex)
	}
	return g
}

// primitive reads the attributes of p. Strips, fans and loops are
// expanded into plain triangle or segment indices.
func (r *gltfReader) primitive(p *gltf.Primitive) (meshData, error) {
	var d meshData

	positions, err := readVec3Accessor(r.doc, p.Attributes[gltf.POSITION])
	if err != nil {
		return d, fmt.Errorf("read positions: %w", err)
	}
	for _, v := range positions {
		d.positions = append(d.positions, v.X, v.Y, v.Z)
	}

	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		normals, err := readVec3Accessor(r.doc, idx)
		if err != nil {
			return d, fmt.Errorf("read normals: %w", err)
		}
		for _, n := range normals {
			d.normals = append(d.normals, n.X, n.Y, n.Z)
		}
	}

	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := readVec2Accessor(r.doc, idx)
		if err != nil {
			return d, fmt.Errorf("read uvs: %w", err)
		}
		for _, uv := range uvs {
			// glTF puts V=0 at the top of the image.
			d.uvs = append(d.uvs, uv.X, 1-uv.Y)
		}
	}

	if idx, ok := p.Attributes[gltf.COLOR_0]; ok {
		colors, err := readColorAccessor(r.doc, idx)
		if err != nil {
			return d, fmt.Errorf("read colors: %w", err)
		}
		for _, c := range colors {
			d.colors = append(d.colors, c.R, c.G, c.B)
		}
	}

	var indices []int
	if p.Indices != nil {
		indices, err = readIndices(r.doc, *p.Indices)
		if err != nil {
			return d, fmt.Errorf("read indices: %w", err)
		}
	}
	d.index = expandIndices(p.Mode, indices, len(positions))
	return d, nil
}

// expandIndices turns strip, fan and loop topologies into lists. Plain
// lists keep their index, or none when the primitive is not indexed.
func expandIndices(mode gltf.PrimitiveMode, indices []int, count int) []int {
	switch mode {
	case gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan, gltf.PrimitiveLineLoop:
	default:
		return indices
	}
	if indices == nil {
		indices = sequence(count)
	}

	var out []int
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				out = append(out, indices[i], indices[i+1], indices[i+2])
			} else {
				out = append(out, indices[i+1], indices[i], indices[i+2])
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			out = append(out, indices[0], indices[i], indices[i+1])
		}
	case gltf.PrimitiveLineLoop:
		out = append(out, indices...)
		if len(indices) > 0 {
			out = append(out, indices[0])
		}
	}
	return out
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func (r *gltfReader) baseColor(mi *int) math3d.Color {
	if mi == nil || *mi >= len(r.doc.Materials) {
		return math3d.RGB(1, 1, 1)
	}
	if pbr := r.doc.Materials[*mi].PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		return math3d.RGB(f[0], f[1], f[2])
	}
	return math3d.RGB(1, 1, 1)
}

func (r *gltfReader) lineMaterial(mi *int) *material.LineBasic {
	m := material.NewLineBasic()
	m.Color = r.baseColor(mi)
	return m
}

// material returns the MeshBasic material for index mi, shared between
// primitives that reference the same index.
func (r *gltfReader) material(mi *int) (material.Material, error) {
	if mi == nil {
		return material.NewMeshBasic(), nil
	}
	if m, ok := r.materials[*mi]; ok {
		return m, nil
	}
	if *mi >= len(r.doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", *mi)
	}
	gm := r.doc.Materials[*mi]

	m := material.NewMeshBasic()
	m.Name = gm.Name
	m.Color = r.baseColor(mi)
	if gm.DoubleSided {
		m.Side = material.Double
	}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil && pbr.BaseColorFactor[3] < 1 {
			m.Opacity = pbr.BaseColorFactor[3]
		}
		if pbr.BaseColorTexture != nil {
			tex, err := r.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				diag.Warn("gltf texture not loaded", "material", gm.Name, "err", err)
			} else {
				m.Map = tex
			}
		}
	}
	if gm.AlphaMode == gltf.AlphaBlend {
		m.Transparent = true
	}
	r.materials[*mi] = m
	return m, nil
}

// texture decodes the image behind texture index ti, embedded or external.
func (r *gltfReader) texture(ti int) (*material.Texture, error) {
	if tex, ok := r.textures[ti]; ok {
		return tex, nil
	}
	if ti >= len(r.doc.Textures) || r.doc.Textures[ti].Source == nil {
		return nil, fmt.Errorf("texture %d has no source", ti)
	}
	src := *r.doc.Textures[ti].Source
	if src >= len(r.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", src)
	}
	gi := r.doc.Images[src]

	var data []byte
	switch {
	case gi.BufferView != nil:
		bv := r.doc.BufferViews[*gi.BufferView]
		buf := r.doc.Buffers[bv.Buffer]
		if buf.Data == nil || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil, fmt.Errorf("image %d: buffer view out of range", src)
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case gi.URI != "":
		var err error
		data, err = os.ReadFile(filepath.Join(r.dir, gi.URI))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	default:
		return nil, fmt.Errorf("image %d has no data", src)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	tex := material.TextureFromImage(img)
	tex.Name = gi.Name
	r.textures[ti] = tex
	return tex, nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	floats, err := readFloats(doc, accessor, 3)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		result[i] = math3d.V3(floats[i*3], floats[i*3+1], floats[i*3+2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}
	floats, err := readFloats(doc, accessor, 2)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec2, accessor.Count)
	for i := range result {
		result[i] = math3d.V2(floats[i*2], floats[i*2+1])
	}
	return result, nil
}

// readColorAccessor reads VEC3 or VEC4 colors, dropping alpha.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]math3d.Color, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	n := 3
	switch accessor.Type {
	case gltf.AccessorVec3:
	case gltf.AccessorVec4:
		n = 4
	default:
		return nil, fmt.Errorf("expected VEC3 or VEC4 color, got %v", accessor.Type)
	}
	floats, err := readFloats(doc, accessor, n)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Color, accessor.Count)
	for i := range result {
		result[i] = math3d.RGB(floats[i*n], floats[i*n+1], floats[i*n+2])
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}
	size := componentSize(accessor.ComponentType)
	if size == 0 || accessor.ComponentType == gltf.ComponentFloat {
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}
	result := make([]int, accessor.Count)
	for i := range result {
		result[i] = int(readUint(data[i*stride:], size))
	}
	return result, nil
}

func accessorAt(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", i)
	}
	return doc.Accessors[i], nil
}

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentUbyte, gltf.ComponentByte:
		return 1
	case gltf.ComponentUshort, gltf.ComponentShort:
		return 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		return 4
	}
	return 0
}

// accessorBytes returns the bytes backing accessor starting at its first
// element, and the stride between elements. elemSize is the tightly
// packed element size.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}

	// gltf.Open resolves embedded, data URI and external buffers.
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(bufData) {
			return nil, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(bufData))
		}
	}
	return bufData[start:], stride, nil
}

// readFloats reads n components per element as float64. Normalized
// integer components map to [0, 1].
func readFloats(doc *gltf.Document, accessor *gltf.Accessor, n int) ([]float64, error) {
	size := componentSize(accessor.ComponentType)
	if size == 0 {
		return nil, fmt.Errorf("unsupported component type: %v", accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, size*n)
	if err != nil {
		return nil, err
	}

	result := make([]float64, accessor.Count*n)
	for i := range accessor.Count {
		for j := range n {
			b := data[i*stride+j*size:]
			switch accessor.ComponentType {
			case gltf.ComponentFloat:
				result[i*n+j] = float64(readFloat32(b))
			case gltf.ComponentUbyte:
				result[i*n+j] = float64(b[0]) / 255
			case gltf.ComponentUshort:
				result[i*n+j] = float64(readUint(b, 2)) / 65535
			default:
				return nil, fmt.Errorf("unsupported component type for attribute: %v", accessor.ComponentType)
			}
		}
	}
	return result, nil
}

func readUint(b []byte, size int) uint32 {
	switch size {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(b[0]) | uint32(b[1])<<8
	default:
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(readUint(b, 4))
}
