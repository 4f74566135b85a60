package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

func testCamera() *scene.Node {
	cam := scene.NewPerspectiveCamera(90, 1, 1, 100)
	cam.Position = math3d.V3(0, 0, 5)
	return cam
}

// bigTriangle covers screen pixels (30,70) (70,70) (50,30) on a 100x100
// surface seen from testCamera.
func bigTriangle() *geometry.BufferGeometry {
	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute([]float64{
		-2, -2, 0,
		2, -2, 0,
		0, 2, 0,
	}, 3))
	return g
}

func redMesh() (*scene.Node, *material.MeshBasic) {
	m := material.NewMeshBasic()
	m.Color = math3d.RGB(1, 0, 0)
	return scene.NewMesh(bigTriangle(), m), m
}

func TestRenderFace(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	root := scene.NewScene()
	mesh, _ := redMesh()
	root.Add(mesh)

	r.Render(root, testCamera())

	assert.Equal(t, red, fb.GetPixel(50, 55))
	assert.Equal(t, color.RGBA{}, fb.GetPixel(10, 10))
	assert.Equal(t, Info{Frame: 1, Objects: 1, Vertices: 3, Faces: 1}, r.Info)
}

func TestRenderClearsPreviousRegion(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	root := scene.NewScene()
	mesh, _ := redMesh()
	root.Add(mesh)
	cam := testCamera()

	r.Render(root, cam)
	require.Equal(t, red, fb.GetPixel(50, 55))

	mesh.Visible = false
	r.Render(root, cam)
	assert.Equal(t, color.RGBA{}, fb.GetPixel(50, 55))
	assert.Zero(t, r.Info.Faces)
	assert.Equal(t, 2, r.Info.Frame)
}

func TestRenderWithoutAutoClear(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	r.AutoClear = false
	root := scene.NewScene()
	mesh, _ := redMesh()
	root.Add(mesh)
	cam := testCamera()

	r.Render(root, cam)
	mesh.Visible = false
	r.Render(root, cam)
	assert.Equal(t, red, fb.GetPixel(50, 55))
}

func TestClearColor(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	r := NewCanvasRenderer(fb)
	r.SetClearColor(math3d.RGB(0, 0, 1), 1)
	c, a := r.ClearColor()
	assert.Equal(t, math3d.RGB(0, 0, 1), c)
	assert.Equal(t, 1.0, a)

	r.Clear()
	assert.Equal(t, blue, fb.GetPixel(9, 9))

	fb.SetPixel(0, 0, red)
	r.Clear()
	assert.Equal(t, red, fb.GetPixel(0, 0), "nothing was painted since the last clear")
}

func TestRenderSkipsTransparentMaterial(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	root := scene.NewScene()
	mesh, m := redMesh()
	m.Opacity = 0
	root.Add(mesh)

	r.Render(root, testCamera())
	assert.Zero(t, r.Info.Faces)
	assert.Zero(t, countPainted(fb))
}

func TestRenderOpacity(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	r.SetClearColor(math3d.RGB(0, 0, 0), 1)
	root := scene.NewScene()
	mesh, m := redMesh()
	m.Opacity = 0.5
	root.Add(mesh)

	r.Render(root, testCamera())
	assert.Equal(t, color.RGBA{128, 0, 0, 255}, fb.GetPixel(50, 55))
}

func TestRenderWireframe(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	root := scene.NewScene()
	mesh, m := redMesh()
	m.Wireframe = true
	root.Add(mesh)

	r.Render(root, testCamera())
	assert.Equal(t, 1, r.Info.Faces)
	assert.Equal(t, color.RGBA{}, fb.GetPixel(50, 55), "interior stays empty")
	assert.Positive(t, countPainted(fb))
}

func TestRenderVertexColors(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	g := bigTriangle()
	g.SetAttribute(geometry.AttrColor, geometry.NewBufferAttribute([]float64{
		0, 1, 0,
		0, 1, 0,
		0, 1, 0,
	}, 3))
	m := material.NewMeshBasic()
	m.VertexColors = material.ColorsVertex
	root := scene.NewScene()
	root.Add(scene.NewMesh(g, m))

	r.Render(root, testCamera())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, fb.GetPixel(50, 55))
}

func TestRenderTexturedFace(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	g := bigTriangle()
	g.SetAttribute(geometry.AttrUV, geometry.NewBufferAttribute([]float64{
		0, 0,
		1, 0,
		0.5, 1,
	}, 2))
	m := material.NewMeshBasic()
	m.Map = material.NewCheckerTexture(4, 4, 4, blue, blue)
	root := scene.NewScene()
	root.Add(scene.NewMesh(g, m))

	r.Render(root, testCamera())
	assert.Equal(t, blue, fb.GetPixel(50, 55))
}

func TestRenderOverdrawGrowsFace(t *testing.T) {
	plain := NewFramebuffer(100, 100)
	root := scene.NewScene()
	mesh, m := redMesh()
	root.Add(mesh)
	NewCanvasRenderer(plain).Render(root, testCamera())

	grown := NewFramebuffer(100, 100)
	m.Overdraw = 2
	NewCanvasRenderer(grown).Render(root, testCamera())
	assert.Greater(t, countPainted(grown), countPainted(plain))
}

func TestRenderLine(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute([]float64{
		-1, 0, 0,
		1, 0, 0,
	}, 3))
	m := material.NewLineBasic()
	m.Color = math3d.RGB(0, 0, 1)
	root := scene.NewScene()
	root.Add(scene.NewLine(g, m))

	r.Render(root, testCamera())
	assert.Equal(t, 1, r.Info.Lines)
	assert.Equal(t, blue, fb.GetPixel(50, 50))
	assert.Equal(t, color.RGBA{}, fb.GetPixel(30, 50))
}

func TestRenderSprite(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	m := material.NewSprite()
	m.Color = math3d.RGB(1, 0, 0)
	root := scene.NewScene()
	root.Add(scene.NewSprite(m))

	r.Render(root, testCamera())
	assert.Equal(t, 1, r.Info.Sprites)
	// one world unit at distance five spans ten pixels
	assert.Equal(t, red, fb.GetPixel(50, 50))
	assert.Equal(t, red, fb.GetPixel(46, 53))
	assert.Equal(t, color.RGBA{}, fb.GetPixel(50, 58))
}

func TestRenderTexturedSprite(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	m := material.NewSprite()
	m.Map = material.NewCheckerTexture(2, 2, 1, blue, blue)
	root := scene.NewScene()
	root.Add(scene.NewSprite(m))

	r.Render(root, testCamera())
	assert.Equal(t, blue, fb.GetPixel(50, 50))
}

func TestRenderPaintersOrder(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	r := NewCanvasRenderer(fb)
	root := scene.NewScene()

	near, _ := redMesh()
	near.Position = math3d.V3(0, 0, 1)
	farMat := material.NewMeshBasic()
	farMat.Color = math3d.RGB(0, 0, 1)
	far := scene.NewMesh(bigTriangle(), farMat)
	root.Add(near, far)

	r.Render(root, testCamera())
	assert.Equal(t, red, fb.GetPixel(50, 55), "nearer face paints last")
}

func TestRenderRequiresCamera(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	r := NewCanvasRenderer(fb)
	r.Render(scene.NewScene(), scene.NewGroup())
	r.Render(scene.NewScene(), nil)
	assert.Zero(t, r.Info.Frame)
}

func TestSetSize(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	r := NewCanvasRenderer(fb)
	r.SetSize(40, 20)
	w, h := r.Surface().Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)
	assert.NotNil(t, r.Projector())
}

func TestExpand(t *testing.T) {
	a, b := math3d.V2(0, 0), math3d.V2(10, 0)
	expand(&a, &b, 1)
	assert.Equal(t, math3d.V2(-1, 0), a)
	assert.Equal(t, math3d.V2(11, 0), b)

	c, d := math3d.V2(3, 3), math3d.V2(3, 3)
	expand(&c, &d, 1)
	assert.Equal(t, math3d.V2(3, 3), c)
}

func TestGGSurfaceRender(t *testing.T) {
	s := NewGGSurface(100, 100)
	r := NewCanvasRenderer(s)
	root := scene.NewScene()
	mesh, _ := redMesh()
	root.Add(mesh)

	r.Render(root, testCamera())
	got := color.RGBAModel.Convert(s.Image().At(50, 55)).(color.RGBA)
	assert.Equal(t, red, got)
	assert.Equal(t, 1, r.Info.Faces)

	require.NoError(t, s.SavePNG(t.TempDir()+"/gg.png"))
}
