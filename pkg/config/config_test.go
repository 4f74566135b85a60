package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

const sceneTOML = `
[viewport]
width = 320
height = 160

[renderer]
clear_color = 0x000000
backend = "gg"

[camera]
type = "orthographic"
size = 4
position = [0, 0, 10]

[materials.red]
type = "mesh"
color = 0xff0000
wireframe = true

[materials.blue]
type = "line"
color = 0x0000ff
linewidth = 2

[[objects]]
name = "box"
primitive = "cube"
material = "red"
position = [1, 2, 3]
rotation = [0, 45, 0]
render_order = 2

  [[objects.children]]
  name = "edge"
  kind = "line"
  material = "blue"
  points = [[0, 0, 0], [1, 1, 1]]

[[objects]]
name = "helpers"
visible = false

  [[objects.children]]
  kind = "axes"
  size = 3
`

const sceneYAML = `
viewport:
  width: 200
  height: 100
camera:
  fov: 60
  position: [0, 1, 5]
materials:
  dots:
    type: points
    size: 4
objects:
  - name: cloud
    kind: points
    material: dots
    points: [[0, 0, 0], [1, 0, 0]]
    scale: [2, 2, 2]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "scene.toml", sceneTOML))
	require.NoError(t, err)

	assert.Equal(t, Viewport{Width: 320, Height: 160}, cfg.Viewport)
	assert.Equal(t, "gg", cfg.Renderer.Backend)
	assert.Equal(t, uint32(0), cfg.Renderer.ClearColor)
	assert.Equal(t, 1.0, cfg.Renderer.ClearAlpha, "unset keys keep defaults")
	assert.True(t, cfg.Renderer.SortElements)
	assert.Equal(t, 0.1, cfg.Camera.Near)
	require.Len(t, cfg.Objects, 2)
	assert.Len(t, cfg.Objects[0].Children, 1)
	require.Contains(t, cfg.Materials, "red")
	assert.Equal(t, uint32(0xff0000), *cfg.Materials["red"].Color)

	root, cam, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, scene.Orthographic, cam.Camera.Type)
	assert.InDelta(t, 8, cam.Camera.Right, 1e-9, "size times aspect")

	box := root.ByName("box")
	require.NotNil(t, box)
	assert.Equal(t, scene.KindMesh, box.Kind)
	assert.Equal(t, math3d.V3(1, 2, 3), box.Position)
	assert.Equal(t, 2, box.RenderOrder)
	assert.InDelta(t, 45, math3d.RadToDeg(box.Rotation().Y), 1e-6)
	mb, ok := box.Material.(*material.MeshBasic)
	require.True(t, ok)
	assert.True(t, mb.Wireframe)
	assert.Equal(t, "red", mb.Name)

	edge := root.ByName("edge")
	require.NotNil(t, edge)
	assert.Same(t, box, edge.Parent())
	assert.Equal(t, 2.0, edge.Material.(*material.LineBasic).Linewidth)

	helpers := root.ByName("helpers")
	require.NotNil(t, helpers)
	assert.False(t, helpers.Visible)
	assert.Equal(t, scene.KindGroup, helpers.Kind)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "scene.yaml", sceneYAML))
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Camera.FOV)

	root, cam, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, scene.Perspective, cam.Camera.Type)
	assert.InDelta(t, 2, cam.Camera.Aspect, 1e-9)

	cloud := root.ByName("cloud")
	require.NotNil(t, cloud)
	assert.Equal(t, scene.KindPoints, cloud.Kind)
	assert.Equal(t, math3d.V3(2, 2, 2), cloud.Scale)
	assert.Equal(t, 4.0, cloud.Material.(*material.PointsMaterial).Size)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "scene.json", "{}"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(writeFile(t, "bad.toml", "[viewport]\ndepth = 3\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeFile(t, "bad.yaml", "viewport:\n  depth: 3\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeFile(t, "zero.toml", "[viewport]\nwidth = 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "cam.yaml", "camera:\n  type: fisheye\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want error
	}{
		{"unknown kind", Object{Kind: "torus"}, ErrUnknownKind},
		{"unknown material", Object{Primitive: "cube", Material: "gold"}, ErrUnknownMaterial},
		{"line without points", Object{Kind: "line"}, nil},
		{"mesh without source", Object{Kind: "mesh"}, nil},
		{"bad euler order", Object{Kind: "group", Order: "ABC"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			cfg.Objects = []Object{tc.obj}
			_, _, err := cfg.Build()
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestBuildUnknownMaterialType(t *testing.T) {
	cfg := base()
	cfg.Materials = map[string]material.Params{"odd": {Type: "lambert"}}
	_, _, err := cfg.Build()
	assert.ErrorIs(t, err, material.ErrUnknownType)
}

func TestBuildModelRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0o644))
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[materials.green]
color = 0x00ff00

[[objects]]
name = "tri"
model = "tri.obj"
material = "green"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())

	root, _, err := cfg.Build()
	require.NoError(t, err)
	tri := root.ByName("tri")
	require.NotNil(t, tri)
	assert.Equal(t, math3d.Hex(0x00ff00), tri.Material.(*material.MeshBasic).Color)
}

func TestDefaultBuilds(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	root, cam, err := cfg.Build()
	require.NoError(t, err)
	require.NotNil(t, cam.Camera)

	for _, name := range []string{"grid", "axes", "cube", "sphere", "marker"} {
		assert.NotNil(t, root.ByName(name), name)
	}
	assert.Equal(t, scene.KindSprite, root.ByName("marker").Kind)
}

func TestBuildCameraZoom(t *testing.T) {
	cfg := Default()
	base := cfg.BuildCamera().Camera.ProjectionMatrix

	cfg.Camera.Zoom = 2
	zoomed := cfg.BuildCamera().Camera.ProjectionMatrix
	assert.InDelta(t, 2*base[0], zoomed[0], 1e-9)
	assert.InDelta(t, 2*base[5], zoomed[5], 1e-9)
}
