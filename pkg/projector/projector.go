// Package projector turns a scene graph and a camera into a flat, sorted
// list of screen-space faces, lines and sprites.
//
// A Projector owns pools of renderables that are reused across frames, so
// steady-state projection does not allocate. The RenderData it returns is
// only valid until the next call to ProjectScene.
package projector

import (
	"math"
	"slices"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

// spriteRadius bounds a unit sprite quad for frustum culling.
const spriteRadius = math.Sqrt2 / 2

var white = math3d.RGB(1, 1, 1)

// Projector projects scenes into RenderData.
type Projector struct {
	// SortObjects orders objects before projecting them.
	SortObjects bool
	// SortElements orders the final element list for painting.
	SortElements bool

	objects  Pool[RenderableObject]
	vertices Pool[RenderableVertex]
	faces    Pool[RenderableFace]
	lines    Pool[RenderableLine]
	sprites  Pool[RenderableSprite]

	data RenderData

	// frame state
	camera     *scene.Camera
	viewMatrix math3d.Mat4
	viewProj   math3d.Mat4
	frustum    math3d.Frustum

	// object state
	object       *scene.Node
	modelMatrix  math3d.Mat4
	normalMatrix math3d.Mat3
	mvp          math3d.Mat4
}

// New returns a Projector with sorting enabled.
func New() *Projector {
	p := &Projector{SortObjects: true, SortElements: true}
	p.data.faces = &p.faces
	p.data.lines = &p.lines
	p.data.sprites = &p.sprites
	return p
}

// Stats reports pool usage after the last projection.
type Stats struct {
	Objects, Vertices, Faces, Lines, Sprites int
}

// Stats returns the number of pooled entries in use and allocated.
func (p *Projector) Stats() (inUse, allocated Stats) {
	inUse = Stats{p.objects.Len(), p.vertices.Len(), p.faces.Len(), p.lines.Len(), p.sprites.Len()}
	allocated = Stats{p.objects.Cap(), p.vertices.Cap(), p.faces.Cap(), p.lines.Cap(), p.sprites.Cap()}
	return inUse, allocated
}

// ProjectScene projects every visible mesh, line, points and sprite node
// under root as seen by camera.
//
// When root.AutoUpdate is set its world matrices are refreshed first; a
// camera without a parent is refreshed too. A node without a Camera
// component yields empty RenderData.
func (p *Projector) ProjectScene(root, camera *scene.Node) *RenderData {
	p.objects.Reset()
	p.vertices.Reset()
	p.faces.Reset()
	p.lines.Reset()
	p.sprites.Reset()
	p.data.Objects = nil
	p.data.Elements = p.data.Elements[:0]

	if camera == nil || camera.Camera == nil {
		diag.Warn("projector: camera node has no camera component")
		return &p.data
	}

	if root.AutoUpdate {
		root.UpdateMatrixWorld(false)
	}
	if camera.Parent() == nil {
		camera.UpdateMatrixWorld(false)
	}

	p.camera = camera.Camera
	p.viewMatrix = p.camera.MatrixWorldInverse
	p.viewProj = p.camera.ProjectionMatrix.Mul(p.viewMatrix)
	p.frustum = math3d.FrustumFromMatrix(p.viewProj)

	p.projectObject(root)

	objects := p.objects.Slice()
	if p.SortObjects {
		slices.SortStableFunc(objects, objectOrder)
	}

	for i := range objects {
		p.setObject(objects[i].Node)
		switch n := objects[i].Node; n.Kind {
		case scene.KindMesh:
			p.projectMesh(n)
		case scene.KindLine:
			p.projectLine(n)
		case scene.KindPoints:
			p.projectPoints(n)
		case scene.KindSprite:
			p.projectSprite(n)
		case scene.KindGroup, scene.KindScene, scene.KindCamera:
		}
	}

	if p.SortElements {
		slices.SortStableFunc(p.data.Elements, PaintOrder)
	}
	p.data.Objects = objects
	return &p.data
}

func (p *Projector) projectObject(n *scene.Node) {
	if !n.Visible {
		return
	}

	switch n.Kind {
	case scene.KindMesh, scene.KindLine, scene.KindPoints:
		if p.drawable(n) && (!n.FrustumCulled || p.intersectsObject(n)) {
			p.addObject(n)
		}
	case scene.KindSprite:
		if p.drawable(n) && (!n.FrustumCulled || p.intersectsSprite(n)) {
			p.addObject(n)
		}
	case scene.KindGroup, scene.KindScene, scene.KindCamera:
	}

	for _, c := range n.Children() {
		p.projectObject(c)
	}
}

func (p *Projector) drawable(n *scene.Node) bool {
	return n.Material == nil || n.Material.Common().Visible
}

func (p *Projector) intersectsObject(n *scene.Node) bool {
	if n.Geometry == nil {
		return true
	}
	s := n.Geometry.BoundingSphere()
	if s.IsEmpty() {
		return true
	}
	return p.frustum.IntersectsSphere(s.ApplyMat4(n.MatrixWorld))
}

func (p *Projector) intersectsSprite(n *scene.Node) bool {
	s := math3d.Sphere{Radius: spriteRadius}
	return p.frustum.IntersectsSphere(s.ApplyMat4(n.MatrixWorld))
}

func (p *Projector) addObject(n *scene.Node) {
	o := p.objects.At(p.objects.Next())
	o.ID = n.ID
	o.Node = n
	o.RenderOrder = n.RenderOrder
	o.Z = p.viewProj.MulVec3(n.MatrixWorld.Translation()).Z
}

func (p *Projector) setObject(n *scene.Node) {
	p.object = n
	p.modelMatrix = n.MatrixWorld
	p.normalMatrix = math3d.NormalMatrix(n.MatrixWorld)
	p.mvp = p.viewProj.Mul(n.MatrixWorld)
	p.vertices.Reset()
}

func (p *Projector) pushVertex(pos math3d.Vec3) {
	v := p.vertices.At(p.vertices.Next())
	v.Position = pos
	ProjectVertex(v, p.modelMatrix, p.viewProj)
}

// vertex returns the i-th vertex of the current object, or nil when i is
// out of range.
func (p *Projector) vertex(i int) *RenderableVertex {
	if i < 0 || i >= p.vertices.Len() {
		return nil
	}
	return p.vertices.At(i)
}

func (p *Projector) pushElement(kind ElementKind, index int, z float64) {
	p.data.Elements = append(p.data.Elements, Element{
		Kind:        kind,
		Index:       index,
		ID:          p.object.ID,
		Z:           z,
		RenderOrder: p.object.RenderOrder,
	})
}

// facing reports whether a triangle survives the side test, and whether it
// is front facing.
func facing(side material.Side, v1, v2, v3 *RenderableVertex) (keep, front bool) {
	front = CheckBackfaceCulling(v1, v2, v3)
	switch side {
	case material.Front:
		return front, front
	case material.Back:
		return !front, front
	default:
		return true, front
	}
}

func (p *Projector) newFace(v1, v2, v3 *RenderableVertex, m material.Material) *RenderableFace {
	i := p.faces.Next()
	f := p.faces.At(i)
	f.ID = p.object.ID
	f.V1, f.V2, f.V3 = *v1, *v2, *v3
	f.Z = (v1.PositionScreen.Z + v2.PositionScreen.Z + v3.PositionScreen.Z) / 3
	f.RenderOrder = p.object.RenderOrder
	f.Material = m
	f.Color = white
	f.VertexColors = [3]math3d.Color{white, white, white}
	p.pushElement(ElementFace, i, f.Z)
	return f
}

func flipNormal(side material.Side, front bool) bool {
	return !front && (side == material.Back || side == material.Double)
}

func (p *Projector) projectMesh(n *scene.Node) {
	switch g := n.Geometry.(type) {
	case *geometry.BufferGeometry:
		p.projectBufferMesh(n, g)
	case *geometry.Geometry:
		p.projectGeometryMesh(n, g)
	}
}

func (p *Projector) projectBufferMesh(n *scene.Node, g *geometry.BufferGeometry) {
	pos := g.Attribute(geometry.AttrPosition)
	if pos == nil {
		return
	}
	count := pos.Count()
	for i := range count {
		p.pushVertex(pos.Vec3(i))
	}

	attrs := meshAttributes{
		normals: g.Attribute(geometry.AttrNormal),
		colors:  g.Attribute(geometry.AttrColor),
		uvs:     g.Attribute(geometry.AttrUV),
	}

	if idx := g.Index; len(idx) > 0 {
		if len(g.Groups) > 0 {
			for _, grp := range g.Groups {
				m := n.MaterialAt(grp.MaterialIndex)
				if m == nil {
					continue
				}
				end := min(grp.Start+grp.Count, len(idx))
				for i := grp.Start; i+2 < end; i += 3 {
					p.pushTriangle(idx[i], idx[i+1], idx[i+2], m, attrs)
				}
			}
			return
		}
		m := n.MaterialAt(0)
		for i := 0; i+2 < len(idx); i += 3 {
			p.pushTriangle(idx[i], idx[i+1], idx[i+2], m, attrs)
		}
		return
	}

	if len(g.Groups) > 0 {
		for _, grp := range g.Groups {
			m := n.MaterialAt(grp.MaterialIndex)
			if m == nil {
				continue
			}
			end := min(grp.Start+grp.Count, count)
			for i := grp.Start; i+2 < end; i += 3 {
				p.pushTriangle(i, i+1, i+2, m, attrs)
			}
		}
		return
	}
	m := n.MaterialAt(0)
	for i := 0; i+2 < count; i += 3 {
		p.pushTriangle(i, i+1, i+2, m, attrs)
	}
}

type meshAttributes struct {
	normals, colors, uvs *geometry.BufferAttribute
}

func (p *Projector) pushTriangle(a, b, c int, m material.Material, attrs meshAttributes) {
	if m == nil {
		return
	}
	v1, v2, v3 := p.vertex(a), p.vertex(b), p.vertex(c)
	if v1 == nil || v2 == nil || v3 == nil {
		return
	}
	if !CheckTriangleVisibility(v1, v2, v3) {
		return
	}
	side := m.Common().Side
	keep, front := facing(side, v1, v2, v3)
	if !keep {
		return
	}
	flip := flipNormal(side, front)

	f := p.newFace(v1, v2, v3, m)
	normal := v3.Position.Sub(v2.Position).Cross(v1.Position.Sub(v2.Position))
	if flip {
		normal = normal.Negate()
	}
	f.NormalModel = normal.ApplyMat3(p.normalMatrix).Normalize()

	idx := [3]int{a, b, c}
	if attrs.normals != nil && max(a, b, c) < attrs.normals.Count() {
		for k, vi := range idx {
			vn := attrs.normals.Vec3(vi)
			if flip {
				vn = vn.Negate()
			}
			f.VertexNormalsModel[k] = vn.ApplyMat3(p.normalMatrix).Normalize()
		}
		f.VertexNormalsLength = 3
	}
	if attrs.uvs != nil && max(a, b, c) < attrs.uvs.Count() {
		for k, vi := range idx {
			f.UVs[k] = attrs.uvs.Vec2(vi)
		}
		f.HasUVs = true
	}
	if m.Common().VertexColors != material.ColorsNone && attrs.colors != nil && max(a, b, c) < attrs.colors.Count() {
		for k, vi := range idx {
			f.VertexColors[k] = attrs.colors.Color(vi)
		}
		f.Color = f.VertexColors[0]
	}
}

func (p *Projector) projectGeometryMesh(n *scene.Node, g *geometry.Geometry) {
	for _, v := range g.Vertices {
		p.pushVertex(v)
	}

	var faceUVs [][3]math3d.Vec2
	if len(g.FaceVertexUvs) > 0 {
		faceUVs = g.FaceVertexUvs[0]
	}

	for fi := range g.Faces {
		face := &g.Faces[fi]
		m := n.MaterialAt(face.MaterialIndex)
		if m == nil {
			continue
		}
		v1, v2, v3 := p.vertex(face.A), p.vertex(face.B), p.vertex(face.C)
		if v1 == nil || v2 == nil || v3 == nil {
			continue
		}
		if !CheckTriangleVisibility(v1, v2, v3) {
			continue
		}
		side := m.Common().Side
		keep, front := facing(side, v1, v2, v3)
		if !keep {
			continue
		}
		flip := flipNormal(side, front)

		f := p.newFace(v1, v2, v3, m)
		normal := face.Normal
		if normal == (math3d.Vec3{}) {
			normal = v3.Position.Sub(v2.Position).Cross(v1.Position.Sub(v2.Position))
		}
		if flip {
			normal = normal.Negate()
		}
		f.NormalModel = normal.ApplyMat3(p.normalMatrix).Normalize()

		nv := min(len(face.VertexNormals), 3)
		for k := range nv {
			vn := face.VertexNormals[k]
			if flip {
				vn = vn.Negate()
			}
			f.VertexNormalsModel[k] = vn.ApplyMat3(p.normalMatrix).Normalize()
		}
		f.VertexNormalsLength = nv

		if fi < len(faceUVs) {
			f.UVs = faceUVs[fi]
			f.HasUVs = true
		}

		f.Color = face.Color
		if len(face.VertexColors) >= 3 {
			copy(f.VertexColors[:], face.VertexColors[:3])
		} else {
			f.VertexColors = [3]math3d.Color{face.Color, face.Color, face.Color}
		}
	}
}

func (p *Projector) projectLine(n *scene.Node) {
	vertexColors := n.Material != nil && n.Material.Common().VertexColors == material.ColorsVertex

	switch g := n.Geometry.(type) {
	case *geometry.BufferGeometry:
		pos := g.Attribute(geometry.AttrPosition)
		if pos == nil {
			return
		}
		count := pos.Count()
		for i := range count {
			v := p.vertices.At(p.vertices.Next())
			v.Position = pos.Vec3(i)
		}
		var colors *geometry.BufferAttribute
		if vertexColors {
			colors = g.Attribute(geometry.AttrColor)
		}
		colorAt := func(i int) (math3d.Color, bool) {
			if colors == nil || i >= colors.Count() {
				return math3d.Color{}, false
			}
			return colors.Color(i), true
		}

		if idx := g.Index; len(idx) > 0 {
			for i := 0; i+1 < len(idx); i += 2 {
				p.pushLine(idx[i], idx[i+1], colorAt)
			}
			return
		}
		step := 1
		if n.LineMode == scene.LineSegments {
			step = 2
		}
		for i := 0; i < count-1; i += step {
			p.pushLine(i, i+1, colorAt)
		}

	case *geometry.Geometry:
		if len(g.Vertices) == 0 {
			return
		}
		colorAt := func(i int) (math3d.Color, bool) {
			if !vertexColors || i >= len(g.Colors) {
				return math3d.Color{}, false
			}
			return g.Colors[i], true
		}
		for _, v := range g.Vertices {
			rv := p.vertices.At(p.vertices.Next())
			rv.Position = v
		}
		step := 1
		if n.LineMode == scene.LineSegments {
			step = 2
		}
		for v := 1; v < len(g.Vertices); v++ {
			if (v+1)%step > 0 {
				continue
			}
			p.pushLine(v, v-1, colorAt)
		}
	}
}

// pushLine clips the segment between vertices a and b of the current
// object and records what remains.
func (p *Projector) pushLine(a, b int, colorAt func(int) (math3d.Color, bool)) {
	v1, v2 := p.vertex(a), p.vertex(b)
	if v1 == nil || v2 == nil {
		return
	}
	s1 := p.mvp.MulVec4(math3d.V4FromV3(v1.Position, 1))
	s2 := p.mvp.MulVec4(math3d.V4FromV3(v2.Position, 1))
	if !ClipLine(&s1, &s2) {
		return
	}
	s1 = s1.Scale(1 / s1.W)
	s2 = s2.Scale(1 / s2.W)

	i := p.lines.Next()
	l := p.lines.At(i)
	l.ID = p.object.ID
	l.V1 = RenderableVertex{Position: v1.Position, PositionWorld: p.modelMatrix.MulVec3(v1.Position), PositionScreen: s1, Visible: true}
	l.V2 = RenderableVertex{Position: v2.Position, PositionWorld: p.modelMatrix.MulVec3(v2.Position), PositionScreen: s2, Visible: true}
	l.Z = max(s1.Z, s2.Z)
	l.RenderOrder = p.object.RenderOrder
	l.Material = p.object.Material

	c1, ok1 := colorAt(a)
	c2, ok2 := colorAt(b)
	if ok1 && ok2 {
		l.VertexColors = [2]math3d.Color{c1, c2}
		l.HasVertexColors = true
	}
	p.pushElement(ElementLine, i, l.Z)
}

func (p *Projector) projectPoints(n *scene.Node) {
	switch g := n.Geometry.(type) {
	case *geometry.BufferGeometry:
		pos := g.Attribute(geometry.AttrPosition)
		for i := range pos.Count() {
			p.pushPoint(p.mvp.MulVec4(math3d.V4FromV3(pos.Vec3(i), 1)), n)
		}
	case *geometry.Geometry:
		for _, v := range g.Vertices {
			p.pushPoint(p.mvp.MulVec4(math3d.V4FromV3(v, 1)), n)
		}
	}
}

func (p *Projector) projectSprite(n *scene.Node) {
	m := p.modelMatrix
	p.pushPoint(p.viewProj.MulVec4(math3d.V4(m[12], m[13], m[14], 1)), n)
}

// pushPoint records a sprite for the clip-space position v when its depth
// lies within the clip volume. The scale measures how far the projection's
// unit offsets move the point on screen, which makes sprites shrink with
// distance under perspective.
func (p *Projector) pushPoint(v math3d.Vec4, n *scene.Node) {
	invW := 1 / v.W
	z := v.Z * invW
	if z < -1 || z > 1 {
		return
	}

	i := p.sprites.Next()
	s := p.sprites.At(i)
	s.ID = n.ID
	s.Node = n
	s.X = v.X * invW
	s.Y = v.Y * invW
	s.Z = z
	s.RenderOrder = n.RenderOrder
	s.Material = n.Material

	pm := p.camera.ProjectionMatrix
	s.Scale.X = n.Scale.X * math.Abs(s.X-(v.X+pm[0])/(v.W+pm[12]))
	s.Scale.Y = n.Scale.Y * math.Abs(s.Y-(v.Y+pm[5])/(v.W+pm[13]))

	switch m := n.Material.(type) {
	case *material.SpriteMaterial:
		s.Rotation = m.Rotation
	case *material.PointsMaterial:
		s.Scale = s.Scale.Scale(m.Size)
	}
	p.pushElement(ElementSprite, i, s.Z)
}

// ProjectVector maps a world-space point to normalized device coordinates
// for camera. The camera's matrices must be current.
func ProjectVector(v math3d.Vec3, camera *scene.Camera) math3d.Vec3 {
	return camera.ProjectionMatrix.Mul(camera.MatrixWorldInverse).MulVec3(v)
}

// UnprojectVector maps normalized device coordinates back to world space.
// cameraWorld is the camera node's world matrix.
func UnprojectVector(v math3d.Vec3, camera *scene.Camera, cameraWorld math3d.Mat4) math3d.Vec3 {
	return cameraWorld.Mul(camera.ProjectionMatrixInverse).MulVec3(v)
}
