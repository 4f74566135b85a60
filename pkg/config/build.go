package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/vista/pkg/geometry"
	"github.com/taigrr/vista/pkg/material"
	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/models"
	"github.com/taigrr/vista/pkg/scene"
)

var (
	// ErrUnknownMaterial is returned when an object names a material the
	// config does not define.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrUnknownKind is returned for an unrecognized object kind.
	ErrUnknownKind = errors.New("unknown object kind")
)

// Grid colors used for grid objects.
var (
	GridCenterColor = math3d.Hex(0x888888)
	GridLineColor   = math3d.Hex(0x444444)
)

// Build creates the scene graph and camera the config describes.
func (c *Config) Build() (root, camera *scene.Node, err error) {
	camera = c.BuildCamera()

	materials := make(map[string]material.Material, len(c.Materials))
	for name, p := range c.Materials {
		if p.Name == "" {
			p.Name = name
		}
		if p.Map != "" {
			p.Map = c.resolve(p.Map)
		}
		m, err := material.New(p)
		if err != nil {
			return nil, nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	b := builder{cfg: c, materials: materials}
	root = scene.NewScene()
	for i := range c.Objects {
		n, err := b.object(&c.Objects[i])
		if err != nil {
			return nil, nil, err
		}
		root.Add(n)
	}
	return root, camera, nil
}

// BuildCamera creates the camera node, sized to the viewport aspect.
func (c *Config) BuildCamera() *scene.Node {
	cc := c.Camera
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = float64(c.Viewport.Width) / float64(c.Viewport.Height)
	}

	var cam *scene.Node
	if strings.EqualFold(cc.Type, "orthographic") {
		h := cc.Size
		cam = scene.NewOrthographicCamera(-h*aspect, h*aspect, h, -h, cc.Near, cc.Far)
	} else {
		cam = scene.NewPerspectiveCamera(cc.FOV, aspect, cc.Near, cc.Far)
	}
	cam.Name = "camera"
	if cc.Zoom > 0 {
		cam.Camera.SetZoom(cc.Zoom)
		cam.Camera.UpdateProjectionMatrix()
	}
	cam.Position = vec3(cc.Position)
	cam.LookAt(vec3(cc.Target))
	return cam
}

// resolve makes a relative path relative to the config file.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

type builder struct {
	cfg       *Config
	materials map[string]material.Material
}

func (b *builder) object(o *Object) (*scene.Node, error) {
	n, err := b.node(o)
	if err != nil {
		if o.Name != "" {
			return nil, fmt.Errorf("object %q: %w", o.Name, err)
		}
		return nil, err
	}

	if o.Name != "" {
		n.Name = o.Name
	}
	n.Position = vec3(o.Position)
	if o.Rotation != ([3]float64{}) || o.Order != "" {
		order, err := math3d.ParseEulerOrder(o.Order)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", o.Name, err)
		}
		n.SetRotation(math3d.Euler{
			X:     math3d.DegToRad(o.Rotation[0]),
			Y:     math3d.DegToRad(o.Rotation[1]),
			Z:     math3d.DegToRad(o.Rotation[2]),
			Order: order,
		})
	}
	if o.Scale != nil {
		n.Scale = vec3(*o.Scale)
	}
	n.RenderOrder = o.RenderOrder
	if o.Visible != nil {
		n.Visible = *o.Visible
	}

	for i := range o.Children {
		child, err := b.object(&o.Children[i])
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func (b *builder) node(o *Object) (*scene.Node, error) {
	kind := strings.ToLower(o.Kind)
	if kind == "" {
		kind = "group"
		if o.Model != "" || o.Primitive != "" {
			kind = "mesh"
		}
	}

	switch kind {
	case "group":
		return scene.NewGroup(), nil
	case "axes":
		return scene.NewAxesHelper(orDefault(o.Size, 1)), nil
	case "grid":
		return scene.NewGridHelper(orDefault(o.Size, 10), max(o.Divisions, 1), GridCenterColor, GridLineColor), nil
	case "sprite":
		m, err := b.material(o, spriteMaterial)
		if err != nil {
			return nil, err
		}
		return scene.NewSprite(m), nil
	case "line", "line_segments", "points":
		if len(o.Points) == 0 {
			return nil, fmt.Errorf("%s needs points", kind)
		}
		g := pointsGeometry(o.Points)
		switch kind {
		case "line":
			m, err := b.material(o, lineBasic)
			if err != nil {
				return nil, err
			}
			return scene.NewLine(g, m), nil
		case "line_segments":
			m, err := b.material(o, lineBasic)
			if err != nil {
				return nil, err
			}
			return scene.NewLineSegments(g, m), nil
		default:
			m, err := b.material(o, pointsMaterial)
			if err != nil {
				return nil, err
			}
			return scene.NewPoints(g, m), nil
		}
	case "mesh":
		return b.mesh(o)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, o.Kind)
}

func (b *builder) mesh(o *Object) (*scene.Node, error) {
	var g *geometry.BufferGeometry
	switch {
	case o.Primitive != "":
		var err error
		if g, err = models.Primitive(o.Primitive, o.Detail); err != nil {
			return nil, err
		}
	case o.Model != "":
		n, err := models.Load(b.cfg.resolve(o.Model))
		if err != nil {
			return nil, err
		}
		// A named material overrides whatever the file carried.
		if o.Material != "" {
			m, err := b.material(o, meshBasic)
			if err != nil {
				return nil, err
			}
			n.Traverse(func(c *scene.Node) {
				if c.Kind == scene.KindMesh {
					c.Material = m
					c.Materials = nil
				}
			})
		}
		return n, nil
	default:
		return nil, errors.New("mesh needs a model or primitive")
	}

	m, err := b.material(o, meshBasic)
	if err != nil {
		return nil, err
	}
	return scene.NewMesh(g, m), nil
}

// material looks up o.Material, or builds a default with fallback.
func (b *builder) material(o *Object, fallback func() material.Material) (material.Material, error) {
	if o.Material == "" {
		return fallback(), nil
	}
	m, ok := b.materials[o.Material]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, o.Material)
	}
	return m, nil
}

func meshBasic() material.Material      { return material.NewMeshBasic() }
func lineBasic() material.Material      { return material.NewLineBasic() }
func pointsMaterial() material.Material { return material.NewPoints() }
func spriteMaterial() material.Material { return material.NewSprite() }

func pointsGeometry(points [][3]float64) *geometry.BufferGeometry {
	positions := make([]float64, 0, len(points)*3)
	for _, p := range points {
		positions = append(positions, p[0], p[1], p[2])
	}
	g := geometry.NewBufferGeometry()
	g.SetAttribute(geometry.AttrPosition, geometry.NewBufferAttribute(positions, 3))
	return g
}

func vec3(v [3]float64) math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
