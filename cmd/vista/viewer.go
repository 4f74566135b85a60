package main

import (
	"errors"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/taigrr/vista/pkg/config"
	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/render"
	"github.com/taigrr/vista/pkg/scene"
)

// modelExtent is the size a lone model is scaled to.
const modelExtent = 3.0

// viewer owns the scene being shown. All methods are safe for concurrent
// use: reloads arrive from the file watcher while frames render.
type viewer struct {
	mu sync.Mutex

	path     string
	cfg      *config.Config
	root     *scene.Node
	camera   *scene.Node
	orbit    *Orbit
	renderer *render.CanvasRenderer
}

func newViewer(path string) (*viewer, error) {
	v := &viewer{path: path}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

// load (re)builds the scene from v.path. The surface is kept when the
// backend has not changed.
func (v *viewer) load() error {
	cfg, err := loadConfig(v.path)
	if err != nil {
		return err
	}
	v.mu.Lock()
	prev := v.cfg
	v.mu.Unlock()
	if prev != nil {
		// keep the on-screen size across reloads
		cfg.Viewport = prev.Viewport
	}
	root, camera, err := cfg.Build()
	if err != nil {
		return err
	}
	if v.path != "" && !isSceneFile(v.path) {
		fitModel(root, root.ByName(filepath.Base(v.path)))
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.renderer == nil || v.cfg.Renderer.Backend != cfg.Renderer.Backend {
		v.renderer = render.NewCanvasRenderer(newSurface(cfg))
	}
	r := v.renderer
	r.SetSize(cfg.Viewport.Width, cfg.Viewport.Height)
	r.SetClearColor(math3d.Hex(cfg.Renderer.ClearColor), cfg.Renderer.ClearAlpha)
	r.SortObjects = cfg.Renderer.SortObjects
	r.SortElements = cfg.Renderer.SortElements

	v.cfg, v.root, v.camera = cfg, root, camera
	v.orbit = NewOrbit(camera, vec3(cfg.Camera.Target), *targetFPS)
	return nil
}

// reload is the file watcher callback. A broken file keeps the last good
// scene on screen.
func (v *viewer) reload() {
	if err := v.load(); err != nil {
		diag.Warn("reload failed", "path", v.path, "err", err)
	}
}

func newSurface(cfg *config.Config) render.Surface {
	if cfg.Renderer.Backend == "gg" {
		return render.NewGGSurface(cfg.Viewport.Width, cfg.Viewport.Height)
	}
	return render.NewFramebuffer(cfg.Viewport.Width, cfg.Viewport.Height)
}

// render draws one frame.
func (v *viewer) render() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renderer.Render(v.root, v.camera)
}

// step advances the orbit and draws one frame.
func (v *viewer) step() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orbit.Update(v.camera)
	v.renderer.Render(v.root, v.camera)
}

// resize changes the surface and camera aspect.
func (v *viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cfg.Viewport.Width == width && v.cfg.Viewport.Height == height {
		return
	}
	v.cfg.Viewport.Width, v.cfg.Viewport.Height = width, height
	v.renderer.SetSize(width, height)

	cam := v.camera.Camera
	aspect := float64(width) / float64(height)
	if cam.Type == scene.Orthographic {
		cam.Left, cam.Right = cam.Bottom*aspect, cam.Top*aspect
	} else {
		cam.SetAspect(aspect)
	}
	cam.UpdateProjectionMatrix()
}

// withOrbit runs fn with the orbit locked.
func (v *viewer) withOrbit(fn func(*Orbit)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.orbit)
}

// toggleWireframe flips wireframe on every mesh material in the scene.
func (v *viewer) toggleWireframe() {
	v.mu.Lock()
	defer v.mu.Unlock()
	seen := map[material.Material]bool{}
	flip := func(m material.Material) {
		if mb, ok := m.(*material.MeshBasic); ok && !seen[m] {
			seen[m] = true
			mb.Wireframe = !mb.Wireframe
		}
	}
	v.root.Traverse(func(n *scene.Node) {
		if n.Kind != scene.KindMesh {
			return
		}
		flip(n.Material)
		for _, m := range n.Materials {
			flip(m)
		}
	})
}

func (v *viewer) image() image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderer.Surface().Image()
}

func (v *viewer) info() render.Info {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderer.Info
}

func (v *viewer) savePNG(path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.renderer.Surface().(interface{ SavePNG(string) error })
	if !ok {
		return errors.New("surface cannot save PNG")
	}
	return s.SavePNG(path)
}

// fitModel centers model on the grid and scales it to modelExtent.
func fitModel(root, model *scene.Node) {
	if model == nil {
		return
	}
	root.UpdateMatrixWorld(true)
	box := math3d.EmptyBox3()
	model.Traverse(func(n *scene.Node) {
		if n.Geometry != nil && n.Geometry.VertexCount() > 0 {
			box = box.Union(n.Geometry.BoundingBox().ApplyMat4(n.MatrixWorld))
		}
	})
	if box.IsEmpty() {
		diag.Warn("model has no geometry", "name", model.Name)
		return
	}
	size := box.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent == 0 {
		return
	}
	s := modelExtent / extent
	center := box.Center()
	model.Scale = model.Scale.Scale(s)
	// rest the model on the grid
	model.Position = model.Position.Sub(math3d.V3(center.X, box.Min.Y, center.Z).Scale(s))
}

func isSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

func vec3(v [3]float64) math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }
