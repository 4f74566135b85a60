package scene

import (
	"math"

	"github.com/taigrr/vista/pkg/math3d"
)

// ProjectionType selects the camera projection.
type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

// Camera is the component attached to camera nodes. After changing any
// projection parameter, call UpdateProjectionMatrix.
type Camera struct {
	Type ProjectionType

	// Perspective parameters. FOV is the vertical field of view in degrees.
	FOV    float64
	Aspect float64

	// Orthographic frustum extents.
	Left, Right, Top, Bottom float64

	Near float64
	Far  float64
	Zoom float64

	ProjectionMatrix        math3d.Mat4
	ProjectionMatrixInverse math3d.Mat4
	// MatrixWorldInverse is the view matrix, refreshed with the owning
	// node's world matrix.
	MatrixWorldInverse math3d.Mat4
}

// NewPerspectiveCamera creates a camera node with a perspective projection.
func NewPerspectiveCamera(fov, aspect, near, far float64) *Node {
	n := newNode(KindCamera)
	n.Camera = &Camera{
		Type:               Perspective,
		FOV:                fov,
		Aspect:             aspect,
		Near:               near,
		Far:                far,
		Zoom:               1,
		MatrixWorldInverse: math3d.Identity(),
	}
	n.Camera.UpdateProjectionMatrix()
	return n
}

// NewOrthographicCamera creates a camera node with an orthographic
// projection.
func NewOrthographicCamera(left, right, top, bottom, near, far float64) *Node {
	n := newNode(KindCamera)
	n.Camera = &Camera{
		Type:               Orthographic,
		Left:               left,
		Right:              right,
		Top:                top,
		Bottom:             bottom,
		Near:               near,
		Far:                far,
		Zoom:               1,
		MatrixWorldInverse: math3d.Identity(),
	}
	n.Camera.UpdateProjectionMatrix()
	return n
}

// UpdateProjectionMatrix recomputes the projection matrix and its inverse.
func (c *Camera) UpdateProjectionMatrix() {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	switch c.Type {
	case Perspective:
		top := c.Near * math.Tan(math3d.DegToRad(0.5*c.FOV)) / zoom
		height := 2 * top
		width := c.Aspect * height
		left := -0.5 * width
		c.ProjectionMatrix = math3d.MakePerspective(left, left+width, top, top-height, c.Near, c.Far)
	case Orthographic:
		dx := (c.Right - c.Left) / (2 * zoom)
		dy := (c.Top - c.Bottom) / (2 * zoom)
		cx := (c.Right + c.Left) / 2
		cy := (c.Top + c.Bottom) / 2
		c.ProjectionMatrix = math3d.MakeOrthographic(cx-dx, cx+dx, cy+dy, cy-dy, c.Near, c.Far)
	}
	c.ProjectionMatrixInverse = c.ProjectionMatrix.Inverse()
}

// SetAspect changes the aspect ratio. Orthographic cameras keep their
// vertical extent and recenter the horizontal one. The projection matrix is
// not recomputed.
func (c *Camera) SetAspect(aspect float64) {
	c.Aspect = aspect
	if c.Type == Orthographic {
		half := (c.Top - c.Bottom) * aspect / 2
		cx := (c.Right + c.Left) / 2
		c.Left, c.Right = cx-half, cx+half
	}
}

// SetZoom changes the zoom factor. The projection matrix is not recomputed.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = zoom
}

// ViewProjection returns ProjectionMatrix * MatrixWorldInverse.
func (c *Camera) ViewProjection() math3d.Mat4 {
	return c.ProjectionMatrix.Mul(c.MatrixWorldInverse)
}
