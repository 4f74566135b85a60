// Package config reads scene descriptions from TOML or YAML files and
// builds them into a scene graph and camera.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/vista/pkg/material"
)

var (
	// ErrUnknownFormat is returned by Load for extensions other than
	// .toml, .yaml and .yml.
	ErrUnknownFormat = errors.New("unknown config format")
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("invalid config")
)

// Config describes a scene, its camera and how to render it.
type Config struct {
	Viewport  Viewport                   `toml:"viewport" yaml:"viewport"`
	Renderer  Renderer                   `toml:"renderer" yaml:"renderer"`
	Camera    Camera                     `toml:"camera" yaml:"camera"`
	Materials map[string]material.Params `toml:"materials" yaml:"materials"`
	Objects   []Object                   `toml:"objects" yaml:"objects"`

	// dir resolves relative model and texture paths.
	dir string
}

// Viewport is the output size in pixels.
type Viewport struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// Renderer holds CanvasRenderer settings.
type Renderer struct {
	// ClearColor is 0xRRGGBB.
	ClearColor   uint32  `toml:"clear_color" yaml:"clear_color"`
	ClearAlpha   float64 `toml:"clear_alpha" yaml:"clear_alpha"`
	SortObjects  bool    `toml:"sort_objects" yaml:"sort_objects"`
	SortElements bool    `toml:"sort_elements" yaml:"sort_elements"`
	// Backend is "framebuffer" or "gg".
	Backend string `toml:"backend" yaml:"backend"`
}

// Camera describes the viewpoint. Size is the half height of an
// orthographic view; FOV is the vertical angle of a perspective one.
type Camera struct {
	Type     string     `toml:"type" yaml:"type"`
	FOV      float64    `toml:"fov" yaml:"fov"`
	Near     float64    `toml:"near" yaml:"near"`
	Far      float64    `toml:"far" yaml:"far"`
	Zoom     float64    `toml:"zoom" yaml:"zoom"`
	Size     float64    `toml:"size" yaml:"size"`
	Position [3]float64 `toml:"position" yaml:"position"`
	Target   [3]float64 `toml:"target" yaml:"target"`
}

// Object is one node of the scene tree.
//
// Kind selects the node type: group, mesh, line, line_segments, points,
// sprite, axes or grid. An empty kind means mesh when Model or Primitive
// is set and group otherwise.
type Object struct {
	Name      string `toml:"name" yaml:"name"`
	Kind      string `toml:"kind" yaml:"kind"`
	Model     string `toml:"model" yaml:"model"`
	Primitive string `toml:"primitive" yaml:"primitive"`
	Detail    int    `toml:"detail" yaml:"detail"`
	// Points are the vertices of line and points objects.
	Points [][3]float64 `toml:"points" yaml:"points"`
	// Size is the extent of axes and grid helpers.
	Size      float64 `toml:"size" yaml:"size"`
	Divisions int     `toml:"divisions" yaml:"divisions"`

	Position [3]float64 `toml:"position" yaml:"position"`
	// Rotation is in degrees, applied in Order (default XYZ).
	Rotation    [3]float64  `toml:"rotation" yaml:"rotation"`
	Order       string      `toml:"order" yaml:"order"`
	Scale       *[3]float64 `toml:"scale" yaml:"scale"`
	Material    string      `toml:"material" yaml:"material"`
	RenderOrder int         `toml:"render_order" yaml:"render_order"`
	Visible     *bool       `toml:"visible" yaml:"visible"`
	Children    []Object    `toml:"children" yaml:"children"`
}

// base returns the settings used for anything a file leaves out.
func base() Config {
	return Config{
		Viewport: Viewport{Width: 640, Height: 480},
		Renderer: Renderer{
			ClearColor:   0x101018,
			ClearAlpha:   1,
			SortObjects:  true,
			SortElements: true,
			Backend:      "framebuffer",
		},
		Camera: Camera{
			Type:     "perspective",
			FOV:      50,
			Near:     0.1,
			Far:      1000,
			Zoom:     1,
			Size:     5,
			Position: [3]float64{0, 0, 10},
		},
	}
}

// Load reads a TOML or YAML config, chosen by extension. Unknown keys are
// rejected. Settings the file omits keep their defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := base()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(f).DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("decode %s: %s", filepath.Base(path), strict.String())
			}
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that would make the scene unrenderable.
func (c *Config) Validate() error {
	var errs []error
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport %dx%d must be positive", c.Viewport.Width, c.Viewport.Height))
	}
	switch c.Renderer.Backend {
	case "", "framebuffer", "gg":
	default:
		errs = append(errs, fmt.Errorf("renderer backend %q", c.Renderer.Backend))
	}
	switch strings.ToLower(c.Camera.Type) {
	case "", "perspective", "orthographic":
	default:
		errs = append(errs, fmt.Errorf("camera type %q", c.Camera.Type))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera near %g far %g", c.Camera.Near, c.Camera.Far))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string { return c.dir }

// Default returns a small demo scene: a cube, a wireframe sphere, a sprite
// and ground helpers.
func Default() *Config {
	cfg := base()
	cfg.Camera.Position = [3]float64{4, 3, 6}
	cfg.Materials = map[string]material.Params{
		"red":    {Type: "mesh", Color: ptr(uint32(0xd04040)), Overdraw: ptr(0.5)},
		"wire":   {Type: "mesh", Color: ptr(uint32(0x40c0ff)), Wireframe: ptr(true)},
		"marker": {Type: "sprite", Color: ptr(uint32(0xffd040)), Rotation: ptr(45.0)},
	}
	cfg.Objects = []Object{
		{Name: "grid", Kind: "grid", Size: 10, Divisions: 10},
		{Name: "axes", Kind: "axes", Size: 2},
		{Name: "cube", Primitive: "cube", Material: "red", Position: [3]float64{-1.5, 1, 0}, Rotation: [3]float64{0, 30, 0}},
		{Name: "sphere", Primitive: "sphere", Detail: 2, Material: "wire", Position: [3]float64{1.5, 1, 0}},
		{Name: "marker", Kind: "sprite", Material: "marker", Position: [3]float64{0, 3, 0}, Scale: &[3]float64{0.5, 0.5, 1}},
	}
	return &cfg
}

func ptr[T any](v T) *T { return &v }
