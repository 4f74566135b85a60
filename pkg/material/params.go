package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/vista/pkg/diag"
	"github.com/taigrr/vista/pkg/math3d"
)

// ErrUnknownType is returned by New for an unrecognized material type.
var ErrUnknownType = errors.New("unknown material type")

// Params is the declarative form of a material, as decoded from a
// configuration file. Nil pointers and empty strings leave the
// corresponding attribute untouched.
type Params struct {
	Type         string   `toml:"type" yaml:"type"`
	Name         string   `toml:"name" yaml:"name"`
	Color        *uint32  `toml:"color" yaml:"color"`
	Opacity      *float64 `toml:"opacity" yaml:"opacity"`
	Transparent  *bool    `toml:"transparent" yaml:"transparent"`
	Visible      *bool    `toml:"visible" yaml:"visible"`
	Side         string   `toml:"side" yaml:"side"`
	Blending     string   `toml:"blending" yaml:"blending"`
	VertexColors string   `toml:"vertex_colors" yaml:"vertex_colors"`
	Wireframe    *bool    `toml:"wireframe" yaml:"wireframe"`
	Linewidth    *float64 `toml:"linewidth" yaml:"linewidth"`
	Linecap      string   `toml:"linecap" yaml:"linecap"`
	Linejoin     string   `toml:"linejoin" yaml:"linejoin"`
	Overdraw     *float64 `toml:"overdraw" yaml:"overdraw"`
	// Rotation is the sprite rotation in degrees.
	Rotation *float64 `toml:"rotation" yaml:"rotation"`
	Size     *float64 `toml:"size" yaml:"size"`
	// Map is a path to a PNG or JPEG texture.
	Map string `toml:"map" yaml:"map"`
}

// New builds a material of p.Type and applies p to it.
func New(p Params) (Material, error) {
	var m Material
	switch strings.ToLower(p.Type) {
	case "", "mesh", "mesh_basic", "meshbasic":
		m = NewMeshBasic()
	case "line", "line_basic", "linebasic":
		m = NewLineBasic()
	case "sprite":
		m = NewSprite()
	case "points", "point":
		m = NewPoints()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}
	if err := Apply(m, p); err != nil {
		return nil, err
	}
	return m, nil
}

// Apply sets every attribute present in p on m. Attributes that m does not
// have, and enumeration values that do not parse, are reported on the
// diagnostic channel and skipped. Only a texture that fails to load is an
// error.
func Apply(m Material, p Params) error {
	b := m.Common()
	if p.Name != "" {
		b.Name = p.Name
	}
	if p.Opacity != nil {
		b.Opacity = math3d.Clamp(*p.Opacity, 0, 1)
	}
	if p.Transparent != nil {
		b.Transparent = *p.Transparent
	}
	if p.Visible != nil {
		b.Visible = *p.Visible
	}
	if p.Side != "" {
		if s, ok := parseSide(p.Side); ok {
			b.Side = s
		} else {
			invalid(m, "side", p.Side)
		}
	}
	if p.Blending != "" {
		if v, ok := parseBlending(p.Blending); ok {
			b.Blending = v
		} else {
			invalid(m, "blending", p.Blending)
		}
	}
	if p.VertexColors != "" {
		if v, ok := parseColorMode(p.VertexColors); ok {
			b.VertexColors = v
		} else {
			invalid(m, "vertex_colors", p.VertexColors)
		}
	}

	if p.Color != nil {
		c := math3d.Hex(*p.Color)
		switch m := m.(type) {
		case *MeshBasic:
			m.Color = c
		case *LineBasic:
			m.Color = c
		case *SpriteMaterial:
			m.Color = c
		case *PointsMaterial:
			m.Color = c
		default:
			unsupported(m, "color")
		}
	}

	if p.Wireframe != nil {
		if mb, ok := m.(*MeshBasic); ok {
			mb.Wireframe = *p.Wireframe
		} else {
			unsupported(m, "wireframe")
		}
	}
	if p.Overdraw != nil {
		if mb, ok := m.(*MeshBasic); ok {
			mb.Overdraw = *p.Overdraw
		} else {
			unsupported(m, "overdraw")
		}
	}
	if p.Linewidth != nil || p.Linecap != "" || p.Linejoin != "" {
		applyStroke(m, p)
	}
	if p.Rotation != nil {
		if sm, ok := m.(*SpriteMaterial); ok {
			sm.Rotation = math3d.DegToRad(*p.Rotation)
		} else {
			unsupported(m, "rotation")
		}
	}
	if p.Size != nil {
		if pm, ok := m.(*PointsMaterial); ok {
			pm.Size = *p.Size
		} else {
			unsupported(m, "size")
		}
	}

	if p.Map != "" {
		tex, err := LoadTexture(p.Map)
		if err != nil {
			return fmt.Errorf("material %q: %w", b.Name, err)
		}
		switch m := m.(type) {
		case *MeshBasic:
			m.Map = tex
		case *SpriteMaterial:
			m.Map = tex
		case *PointsMaterial:
			m.Map = tex
		default:
			unsupported(m, "map")
		}
	}
	return nil
}

func applyStroke(m Material, p Params) {
	var (
		width *float64
		lc    *LineCap
		lj    *LineJoin
	)
	switch m := m.(type) {
	case *MeshBasic:
		width, lc, lj = &m.WireframeLinewidth, &m.WireframeLinecap, &m.WireframeLinejoin
	case *LineBasic:
		width, lc, lj = &m.Linewidth, &m.Linecap, &m.Linejoin
	default:
		unsupported(m, "linewidth")
		return
	}
	if p.Linewidth != nil {
		*width = *p.Linewidth
	}
	if p.Linecap != "" {
		if v, ok := parseLineCap(p.Linecap); ok {
			*lc = v
		} else {
			invalid(m, "linecap", p.Linecap)
		}
	}
	if p.Linejoin != "" {
		if v, ok := parseLineJoin(p.Linejoin); ok {
			*lj = v
		} else {
			invalid(m, "linejoin", p.Linejoin)
		}
	}
}

func unsupported(m Material, key string) {
	diag.Warn("material parameter not found", "param", key, "material", m.Kind().String())
}

func invalid(m Material, key, value string) {
	diag.Warn("invalid material parameter", "param", key, "value", value, "material", m.Kind().String())
}

func parseSide(s string) (Side, bool) {
	switch strings.ToLower(s) {
	case "front":
		return Front, true
	case "back":
		return Back, true
	case "double":
		return Double, true
	}
	return Front, false
}

func parseBlending(s string) (Blending, bool) {
	switch strings.ToLower(s) {
	case "none":
		return BlendNone, true
	case "normal":
		return BlendNormal, true
	case "additive":
		return BlendAdditive, true
	case "subtractive":
		return BlendSubtractive, true
	case "multiply":
		return BlendMultiply, true
	}
	return BlendNormal, false
}

func parseColorMode(s string) (ColorMode, bool) {
	switch strings.ToLower(s) {
	case "none":
		return ColorsNone, true
	case "face":
		return ColorsFace, true
	case "vertex":
		return ColorsVertex, true
	}
	return ColorsNone, false
}

func parseLineCap(s string) (LineCap, bool) {
	switch strings.ToLower(s) {
	case "round":
		return CapRound, true
	case "butt":
		return CapButt, true
	case "square":
		return CapSquare, true
	}
	return CapRound, false
}

func parseLineJoin(s string) (LineJoin, bool) {
	switch strings.ToLower(s) {
	case "round":
		return JoinRound, true
	case "miter":
		return JoinMiter, true
	case "bevel":
		return JoinBevel, true
	}
	return JoinRound, false
}
